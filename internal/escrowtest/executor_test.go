package escrowtest

import (
	"testing"

	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	e := NewExecutor(t)
	acc := e.NewAccount(t)

	before := e.snapshot(t)
	require.Equal(t, before, e.snapshot(t))
	require.NotEmpty(t, before.apps)
	require.Contains(t, before.globals, e.Master)

	e.SubmitFail(t, ledger.ErrInsufficientBalance, ledger.NewPayment(acc, e.Committee, 2*InitialBalance))

	e.Submit(t, ledger.NewPayment(acc, e.Committee, 1))
	require.NotEqual(t, before, e.snapshot(t))
}
