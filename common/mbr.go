package common

import (
	"fmt"

	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Floor is a captured balance floor of an account. Operations changing the
// account resources compare it with the resulting floor to demand or refund
// the exact difference.
type Floor struct {
	addr   util.Uint160
	before uint64
}

// CaptureFloor remembers current balance floor of the account.
func CaptureFloor(env *ledger.Env, addr util.Uint160) (Floor, error) {
	mb, err := env.MinBalance(addr)
	if err != nil {
		return Floor{}, fmt.Errorf("read balance floor: %w", err)
	}
	return Floor{addr: addr, before: mb}, nil
}

// Increase returns the floor growth since the capture.
func (f Floor) Increase(env *ledger.Env) (uint64, error) {
	mb, err := env.MinBalance(f.addr)
	if err != nil {
		return 0, fmt.Errorf("read balance floor: %w", err)
	}
	if mb < f.before {
		return 0, fmt.Errorf("balance floor of %s decreased from %d to %d",
			address.Uint160ToString(f.addr), f.before, mb)
	}
	return mb - f.before, nil
}

// Decrease returns the floor reduction since the capture.
func (f Floor) Decrease(env *ledger.Env) (uint64, error) {
	mb, err := env.MinBalance(f.addr)
	if err != nil {
		return 0, fmt.Errorf("read balance floor: %w", err)
	}
	if mb > f.before {
		return 0, fmt.Errorf("balance floor of %s increased from %d to %d",
			address.Uint160ToString(f.addr), f.before, mb)
	}
	return f.before - mb, nil
}

// CheckPayment checks that the transaction is a plain payment between the
// accounts.
func CheckPayment(t *ledger.Transaction, from, to util.Uint160) error {
	switch {
	case t.Type != ledger.PaymentTx:
		return fmt.Errorf("%w: %s transaction", ErrPaymentMismatch, t.Type)
	case !t.Sender.Equals(from):
		return fmt.Errorf("%w: sender %s, expected %s", ErrPaymentMismatch,
			address.Uint160ToString(t.Sender), address.Uint160ToString(from))
	case !t.Receiver.Equals(to):
		return fmt.Errorf("%w: receiver %s, expected %s", ErrPaymentMismatch,
			address.Uint160ToString(t.Receiver), address.Uint160ToString(to))
	case !t.CloseRemainderTo.Equals(ledger.ZeroAddress):
		return fmt.Errorf("%w: close remainder to %s", ErrPaymentMismatch,
			address.Uint160ToString(t.CloseRemainderTo))
	}
	return nil
}

// CheckMbrPayment checks that exactly the required amount is paid.
func CheckMbrPayment(paid, required uint64) error {
	if paid != required {
		return fmt.Errorf("%w: paid %d, required %d", ErrMbrMismatch, paid, required)
	}
	return nil
}

// Refund pays the amount from the application account. Zero amount is not
// transferred.
func Refund(env *ledger.Env, to util.Uint160, amount uint64) error {
	if amount == 0 {
		return nil
	}

	_, err := env.Submit(ledger.NewPayment(env.Address(), to, amount))
	if err != nil {
		return fmt.Errorf("refund %d to %s: %w", amount, address.Uint160ToString(to), err)
	}
	return nil
}
