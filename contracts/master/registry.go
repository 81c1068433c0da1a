package master

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/escrow-contract/contracts/master/masterconst"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// RegistryStore maps receivers to their vaults. Each record is a separate
// box.
type RegistryStore struct {
	env *ledger.Env
}

// RegistryKey returns name of the registry box of the receiver.
func RegistryKey(receiver util.Uint160) []byte {
	return receiver.BytesBE()
}

// ParseRegistry decodes registry box.
func ParseRegistry(name, value []byte) (util.Uint160, ledger.AppID, error) {
	receiver, err := util.Uint160DecodeBytesBE(name)
	if err != nil {
		return receiver, 0, fmt.Errorf("invalid registry receiver: %w", err)
	}

	if len(value) != masterconst.RegistryValueLen {
		return receiver, 0, fmt.Errorf("invalid registry value length %d", len(value))
	}

	return receiver, ledger.AppID(binary.BigEndian.Uint64(value)), nil
}

// Get returns vault of the receiver.
func (r RegistryStore) Get(receiver util.Uint160) (ledger.AppID, bool, error) {
	name := RegistryKey(receiver)

	v, ok, err := r.env.BoxGet(name)
	if err != nil || !ok {
		return 0, ok, err
	}

	_, id, err := ParseRegistry(name, v)
	return id, true, err
}

// Put creates registry record.
func (r RegistryStore) Put(receiver util.Uint160, id ledger.AppID) error {
	name := RegistryKey(receiver)

	if _, err := r.env.BoxCreate(name, masterconst.RegistryValueLen); err != nil {
		return fmt.Errorf("create registry box: %w", err)
	}
	return r.env.BoxPut(name, id.Bytes())
}

// Delete removes registry record.
func (r RegistryStore) Delete(receiver util.Uint160) error {
	if _, err := r.env.BoxDelete(RegistryKey(receiver)); err != nil {
		return fmt.Errorf("delete registry box: %w", err)
	}
	return nil
}
