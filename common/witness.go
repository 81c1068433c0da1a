package common

import (
	"fmt"

	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// CheckSender checks that the call is sent by the given account.
func CheckSender(env *ledger.Env, expected util.Uint160) error {
	if !env.Sender().Equals(expected) {
		return fmt.Errorf("%w: sender %s, expected %s", ErrUnauthorized,
			address.Uint160ToString(env.Sender()), address.Uint160ToString(expected))
	}
	return nil
}

// CheckCaller checks that the call is issued by the given application.
func CheckCaller(env *ledger.Env, expected ledger.AppID) error {
	if env.CallerAppID() != expected {
		return fmt.Errorf("%w: caller application %d, expected %d", ErrUnauthorized, env.CallerAppID(), expected)
	}
	return nil
}
