package common

import (
	"fmt"

	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// ToUint returns non-negative integer value of the global item.
func ToUint(item stackitem.Item) (uint64, error) {
	n, err := item.TryInteger()
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("value %s is out of range", n)
	}
	return n.Uint64(), nil
}

// ToAddress returns account address stored in the global item.
func ToAddress(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// GetUint returns integer global value of the executing application. Missing
// value is zero.
func GetUint(env *ledger.Env, key string) (uint64, error) {
	item, err := env.Global(key)
	if err != nil || item == nil {
		return 0, err
	}

	n, err := ToUint(item)
	if err != nil {
		return 0, fmt.Errorf("invalid global '%s': %w", key, err)
	}
	return n, nil
}

// SetUint sets integer global value of the executing application.
func SetUint(env *ledger.Env, key string, n uint64) error {
	return env.SetGlobal(key, stackitem.Make(n))
}

// GetAddress returns address global value of the executing application.
func GetAddress(env *ledger.Env, key string) (util.Uint160, error) {
	item, err := env.Global(key)
	if err != nil {
		return util.Uint160{}, err
	}
	return addressFromGlobal(item, key)
}

// SetAddress sets address global value of the executing application.
func SetAddress(env *ledger.Env, key string, addr util.Uint160) error {
	return env.SetGlobal(key, stackitem.NewByteArray(addr.BytesBE()))
}

// GetForeignAddress returns address global value of another application.
func GetForeignAddress(env *ledger.Env, app ledger.AppID, key string) (util.Uint160, error) {
	item, err := env.ForeignGlobal(app, key)
	if err != nil {
		return util.Uint160{}, err
	}
	return addressFromGlobal(item, key)
}

func addressFromGlobal(item stackitem.Item, key string) (util.Uint160, error) {
	if item == nil {
		return util.Uint160{}, fmt.Errorf("missing global '%s'", key)
	}

	addr, err := ToAddress(item)
	if err != nil {
		return addr, fmt.Errorf("invalid global '%s': %w", key, err)
	}
	return addr, nil
}
