package common

import (
	"fmt"

	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// CheckArgCount checks that exactly n arguments are passed.
func CheckArgCount(args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: expected %d arguments, got %d", ErrInvalidArgument, n, len(args))
	}
	return nil
}

// AddressArg returns i-th argument as an account address.
func AddressArg(args []any, i int) (util.Uint160, error) {
	switch v := args[i].(type) {
	case util.Uint160:
		return v, nil
	case []byte:
		u, err := util.Uint160DecodeBytesBE(v)
		if err != nil {
			return u, fmt.Errorf("%w: argument #%d: %v", ErrInvalidArgument, i, err)
		}
		return u, nil
	default:
		return util.Uint160{}, fmt.Errorf("%w: argument #%d is %T, not an address", ErrInvalidArgument, i, v)
	}
}

// AppArg returns i-th argument as an application ID.
func AppArg(args []any, i int) (ledger.AppID, error) {
	switch v := args[i].(type) {
	case ledger.AppID:
		return v, nil
	case uint64:
		return ledger.AppID(v), nil
	default:
		return 0, fmt.Errorf("%w: argument #%d is %T, not an application", ErrInvalidArgument, i, v)
	}
}

// AssetArg returns i-th argument as an asset ID.
func AssetArg(args []any, i int) (ledger.AssetID, error) {
	switch v := args[i].(type) {
	case ledger.AssetID:
		return v, nil
	case uint64:
		return ledger.AssetID(v), nil
	default:
		return 0, fmt.Errorf("%w: argument #%d is %T, not an asset", ErrInvalidArgument, i, v)
	}
}
