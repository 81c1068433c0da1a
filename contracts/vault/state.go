package vault

import (
	"fmt"

	"github.com/nspcc-dev/escrow-contract/common"
	"github.com/nspcc-dev/escrow-contract/contracts/vault/vaultconst"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Schema is a global state schema of the Vault program.
var Schema = ledger.Schema{NumUint: 2, NumByteSlice: 2}

// State is a global state of the vault instance.
type State struct {
	// Beneficiary of the custodied assets.
	Receiver util.Uint160
	// Account which paid for the vault creation.
	Creator util.Uint160
	// Master application which created the vault.
	Master ledger.AppID
	// Number of custodied assets.
	AssetCount uint64
}

// NewState returns state of the new vault.
func NewState(receiver, creator util.Uint160, master ledger.AppID) (State, error) {
	switch {
	case receiver.Equals(ledger.ZeroAddress):
		return State{}, fmt.Errorf("%w: zero receiver", common.ErrInvalidArgument)
	case creator.Equals(ledger.ZeroAddress):
		return State{}, fmt.Errorf("%w: zero creator", common.ErrInvalidArgument)
	}

	return State{
		Receiver: receiver,
		Creator:  creator,
		Master:   master,
	}, nil
}

// StateFromGlobals decodes vault state from the global values.
func StateFromGlobals(gs map[string]stackitem.Item) (State, error) {
	var (
		s   State
		err error
	)

	for _, key := range []string{vaultconst.ReceiverKey, vaultconst.CreatorKey, vaultconst.MasterKey} {
		if gs[key] == nil {
			return s, fmt.Errorf("missing global '%s'", key)
		}
	}

	if s.Receiver, err = common.ToAddress(gs[vaultconst.ReceiverKey]); err != nil {
		return s, fmt.Errorf("invalid receiver: %w", err)
	}

	if s.Creator, err = common.ToAddress(gs[vaultconst.CreatorKey]); err != nil {
		return s, fmt.Errorf("invalid creator: %w", err)
	}

	master, err := common.ToUint(gs[vaultconst.MasterKey])
	if err != nil {
		return s, fmt.Errorf("invalid master: %w", err)
	}
	s.Master = ledger.AppID(master)

	if item := gs[vaultconst.AssetCountKey]; item != nil {
		if s.AssetCount, err = common.ToUint(item); err != nil {
			return s, fmt.Errorf("invalid asset count: %w", err)
		}
	}

	return s, nil
}

func loadState(env *ledger.Env) (State, error) {
	var (
		s   State
		err error
	)

	if s.Receiver, err = common.GetAddress(env, vaultconst.ReceiverKey); err != nil {
		return s, err
	}

	if s.Creator, err = common.GetAddress(env, vaultconst.CreatorKey); err != nil {
		return s, err
	}

	master, err := common.GetUint(env, vaultconst.MasterKey)
	if err != nil {
		return s, err
	}
	s.Master = ledger.AppID(master)

	s.AssetCount, err = common.GetUint(env, vaultconst.AssetCountKey)
	return s, err
}

func (s State) store(env *ledger.Env) error {
	if err := common.SetAddress(env, vaultconst.ReceiverKey, s.Receiver); err != nil {
		return err
	}
	if err := common.SetAddress(env, vaultconst.CreatorKey, s.Creator); err != nil {
		return err
	}
	if err := common.SetUint(env, vaultconst.MasterKey, uint64(s.Master)); err != nil {
		return err
	}
	return common.SetUint(env, vaultconst.AssetCountKey, s.AssetCount)
}

// setAssetCount updates the only mutable part of the state.
func setAssetCount(env *ledger.Env, n uint64) error {
	return common.SetUint(env, vaultconst.AssetCountKey, n)
}
