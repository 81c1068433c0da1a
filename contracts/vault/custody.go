package vault

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/escrow-contract/contracts/vault/vaultconst"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// CustodyStore maps custodied assets to the accounts which funded the vault
// opt-in. Each record is a separate box.
type CustodyStore struct {
	env *ledger.Env
}

// CustodyKey returns name of the custody box of the asset.
func CustodyKey(asset ledger.AssetID) []byte {
	return asset.Bytes()
}

// ParseCustody decodes custody box.
func ParseCustody(name, value []byte) (ledger.AssetID, util.Uint160, error) {
	if len(name) != vaultconst.CustodyNameLen {
		return 0, util.Uint160{}, fmt.Errorf("invalid custody name length %d", len(name))
	}

	funder, err := util.Uint160DecodeBytesBE(value)
	if err != nil {
		return 0, funder, fmt.Errorf("invalid custody funder: %w", err)
	}

	return ledger.AssetID(binary.BigEndian.Uint64(name)), funder, nil
}

// Get returns funder of the asset custody.
func (c CustodyStore) Get(asset ledger.AssetID) (util.Uint160, bool, error) {
	v, ok, err := c.env.BoxGet(CustodyKey(asset))
	if err != nil || !ok {
		return util.Uint160{}, ok, err
	}

	_, funder, err := ParseCustody(CustodyKey(asset), v)
	return funder, true, err
}

// Put creates custody record.
func (c CustodyStore) Put(asset ledger.AssetID, funder util.Uint160) error {
	name := CustodyKey(asset)

	if _, err := c.env.BoxCreate(name, vaultconst.CustodyValueLen); err != nil {
		return fmt.Errorf("create custody box: %w", err)
	}
	return c.env.BoxPut(name, funder.BytesBE())
}

// Delete removes custody record.
func (c CustodyStore) Delete(asset ledger.AssetID) error {
	if _, err := c.env.BoxDelete(CustodyKey(asset)); err != nil {
		return fmt.Errorf("delete custody box: %w", err)
	}
	return nil
}
