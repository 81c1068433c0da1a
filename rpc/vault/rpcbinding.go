// Package vault contains client wrappers for the Vault contract.
package vault

import (
	"context"
	"fmt"

	vaultcontract "github.com/nspcc-dev/escrow-contract/contracts/vault"
	"github.com/nspcc-dev/escrow-contract/contracts/vault/vaultconst"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/escrow-contract/rpc/master"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Invoker is used by ContractReader to call safe methods and read state.
type Invoker interface {
	master.Invoker
	Globals(id ledger.AppID) (map[string]stackitem.Item, error)
	Box(id ledger.AppID, name []byte) ([]byte, bool, error)
	AssetHolding(addr util.Uint160, asset ledger.AssetID) (uint64, bool, error)
}

// Actor is used by Contract to send state-changing groups.
type Actor interface {
	Invoker
	Submit(ctx context.Context, txs ...ledger.Transaction) (ledger.GroupResult, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	id      ledger.AppID
}

// Contract implements all contract methods on behalf of the sender account.
type Contract struct {
	ContractReader
	actor  Actor
	sender util.Uint160
}

// NewReader creates an instance of ContractReader using provided application
// ID and the given Invoker.
func NewReader(invoker Invoker, id ledger.AppID) *ContractReader {
	return &ContractReader{invoker, id}
}

// New creates an instance of Contract using provided application ID, the
// given Actor and the sender of the groups.
func New(actor Actor, id ledger.AppID, sender util.Uint160) *Contract {
	return &Contract{ContractReader{actor, id}, actor, sender}
}

// ID returns vault application ID.
func (c *ContractReader) ID() ledger.AppID {
	return c.id
}

// Address returns vault account address.
func (c *ContractReader) Address() util.Uint160 {
	return ledger.AppAddress(c.id)
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version(ctx context.Context) (uint64, error) {
	res, err := c.invoker.Simulate(ctx, ledger.NewAppCall(ledger.ZeroAddress, c.id, "version"))
	if err != nil {
		return 0, err
	}

	n, ok := res.Txns[0].Return.(uint64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type %T", res.Txns[0].Return)
	}
	return n, nil
}

// State reads global state of the vault.
func (c *ContractReader) State() (vaultcontract.State, error) {
	gs, err := c.invoker.Globals(c.id)
	if err != nil {
		return vaultcontract.State{}, err
	}
	return vaultcontract.StateFromGlobals(gs)
}

// Custody returns funder of the asset custody. The flag is false if the asset
// is not custodied.
func (c *ContractReader) Custody(asset ledger.AssetID) (util.Uint160, bool, error) {
	name := vaultcontract.CustodyKey(asset)

	v, ok, err := c.invoker.Box(c.id, name)
	if err != nil || !ok {
		return util.Uint160{}, ok, err
	}

	_, funder, err := vaultcontract.ParseCustody(name, v)
	return funder, true, err
}

// Custodies passes all custodied assets and their funders into f until it
// returns false.
func (c *ContractReader) Custodies(f func(asset ledger.AssetID, funder util.Uint160) bool) error {
	var iterErr error

	c.invoker.IterateBoxes(c.id, func(name, value []byte) bool {
		asset, funder, err := vaultcontract.ParseCustody(name, value)
		if err != nil {
			iterErr = err
			return false
		}
		return f(asset, funder)
	})

	return iterErr
}

// OptInCost returns the payment required by `opt_in`.
func OptInCost(p ledger.Params) uint64 {
	return p.AssetMinBalance + p.BoxMinBalance(vaultconst.CustodyNameLen, vaultconst.CustodyValueLen)
}

// OptInGroup returns group of the exact balance floor payment followed by
// the `opt_in` call.
func (c *Contract) OptInGroup(asset ledger.AssetID) []ledger.Transaction {
	return []ledger.Transaction{
		ledger.NewPayment(c.sender, c.Address(), OptInCost(c.invoker.Params())),
		ledger.NewAppCall(c.sender, c.id, vaultconst.OptInMethod, c.sender, asset),
	}
}

// OptIn makes the vault take custody of the asset paid by the sender.
func (c *Contract) OptIn(ctx context.Context, asset ledger.AssetID) error {
	_, err := c.actor.Submit(ctx, c.OptInGroup(asset)...)
	return err
}

// ClaimCall returns `claim` call.
func (c *Contract) ClaimCall(asset ledger.AssetID, receiver, creator, funder util.Uint160) ledger.Transaction {
	return ledger.NewAppCall(c.sender, c.id, vaultconst.ClaimMethod, asset, receiver, creator, funder)
}

// ClaimGroup returns group claiming the asset. The sender is opted into the
// asset if needed. Terminal claim is followed by the vault deletion through
// its Master.
func (c *Contract) ClaimGroup(asset ledger.AssetID) ([]ledger.Transaction, error) {
	st, err := c.State()
	if err != nil {
		return nil, fmt.Errorf("read vault state: %w", err)
	}

	funder, ok, err := c.Custody(asset)
	if err != nil {
		return nil, fmt.Errorf("read custody: %w", err)
	}
	if !ok {
		// let the contract report the failure
		funder = c.sender
	}

	var txs []ledger.Transaction

	_, optedIn, err := c.invoker.AssetHolding(c.sender, asset)
	if err != nil {
		return nil, fmt.Errorf("read asset holding: %w", err)
	}
	if !optedIn {
		txs = append(txs, ledger.NewAssetOptIn(c.sender, asset))
	}

	txs = append(txs, c.ClaimCall(asset, st.Receiver, st.Creator, funder))

	if ok && st.AssetCount == 1 {
		m := master.New(c.actor, st.Master, c.sender)
		txs = append(txs, m.DeleteVaultCall(st.Receiver, c.id, st.Creator))
	}

	return txs, nil
}

// Claim claims the asset to the sender.
func (c *Contract) Claim(ctx context.Context, asset ledger.AssetID) (ledger.GroupResult, error) {
	txs, err := c.ClaimGroup(asset)
	if err != nil {
		return ledger.GroupResult{}, err
	}
	return c.actor.Submit(ctx, txs...)
}
