package vault_test

import (
	"context"
	"testing"

	"github.com/nspcc-dev/escrow-contract/common"
	"github.com/nspcc-dev/escrow-contract/contracts/master/masterconst"
	"github.com/nspcc-dev/escrow-contract/contracts/vault/vaultconst"
	"github.com/nspcc-dev/escrow-contract/internal/escrowtest"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/escrow-contract/rpc/master"
	"github.com/nspcc-dev/escrow-contract/rpc/vault"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	*escrowtest.Executor

	creator, receiver, funder util.Uint160

	asset ledger.AssetID
	vault ledger.AppID
}

func newTestEnv(t *testing.T) testEnv {
	e := testEnv{Executor: escrowtest.NewExecutor(t)}

	e.creator = e.NewAccount(t)
	e.receiver = e.NewAccount(t)
	e.funder = e.NewAccount(t)

	e.asset = e.NewAsset(t, e.funder, 1000)
	e.vault = e.CreateVault(t, e.creator, e.receiver)

	return e
}

func (e testEnv) state(t *testing.T) vaultState {
	st, err := vault.NewReader(e.Ledger, e.vault).State()
	require.NoError(t, err)
	return vaultState{st.Receiver, st.Creator, st.Master, st.AssetCount}
}

type vaultState struct {
	receiver, creator util.Uint160
	master            ledger.AppID
	assets            uint64
}

func TestOptIn(t *testing.T) {
	e := newTestEnv(t)
	p := e.Ledger.Params()
	v := e.VaultInvoker(e.vault, e.funder)

	cost := vault.OptInCost(p)
	require.EqualValues(t, 113_700, cost)

	res := e.Submit(t, v.OptInGroup(e.asset)...)
	require.Len(t, res.Txns[1].Inner, 1)
	require.Len(t, res.Txns[1].Events, 1)
	require.Equal(t, vaultconst.AssetOptedInEvent, res.Txns[1].Events[0].Name)

	require.EqualValues(t, escrowtest.InitialBalance-cost, e.Balance(t, e.funder))
	require.EqualValues(t, p.MinBalance+cost, e.Balance(t, v.Address()))
	require.EqualValues(t, p.MinBalance+cost, e.MinBalance(t, v.Address()))

	_, optedIn, err := e.Ledger.AssetHolding(v.Address(), e.asset)
	require.NoError(t, err)
	require.True(t, optedIn)

	funder, ok, err := v.Custody(e.asset)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, e.funder, funder)

	require.Equal(t, vaultState{e.receiver, e.creator, e.Master, 1}, e.state(t))

	t.Run("duplicate", func(t *testing.T) {
		e.SubmitFail(t, common.ErrDuplicateCustody, v.OptInGroup(e.asset)...)
	})
}

func TestOptInPayment(t *testing.T) {
	e := newTestEnv(t)
	p := e.Ledger.Params()
	v := e.VaultInvoker(e.vault, e.funder)
	cost := vault.OptInCost(p)

	call := ledger.NewAppCall(e.funder, e.vault, vaultconst.OptInMethod, e.funder, e.asset)

	for _, amount := range []uint64{cost - 1, cost + 1} {
		e.SubmitFail(t, common.ErrMbrMismatch, ledger.NewPayment(e.funder, v.Address(), amount), call)
	}

	e.SubmitFail(t, common.ErrPaymentMismatch, call)
	e.SubmitFail(t, common.ErrPaymentMismatch, ledger.NewPayment(e.creator, v.Address(), cost), call)
	e.SubmitFail(t, common.ErrPaymentMismatch, ledger.NewPayment(e.funder, e.Committee, cost), call)

	e.SubmitFail(t, common.ErrInvalidArgument,
		ledger.NewPayment(e.funder, v.Address(), cost),
		ledger.NewAppCall(e.funder, e.vault, vaultconst.OptInMethod, e.funder))

	require.Equal(t, vaultState{e.receiver, e.creator, e.Master, 0}, e.state(t))
}

func TestClaimChecks(t *testing.T) {
	e := newTestEnv(t)
	other := e.NewAsset(t, e.funder, 1000)

	e.Deposit(t, e.vault, e.funder, e.asset, 10)
	e.Submit(t, ledger.NewAssetOptIn(e.receiver, e.asset))

	v := e.VaultInvoker(e.vault, e.receiver)

	e.SubmitFail(t, common.ErrNoSuchCustody, v.ClaimCall(other, e.receiver, e.creator, e.funder))
	e.SubmitFail(t, common.ErrFunderMismatch, v.ClaimCall(e.asset, e.receiver, e.creator, e.creator))
	e.SubmitFail(t, common.ErrIdentityMismatch, v.ClaimCall(e.asset, e.funder, e.creator, e.funder))
	e.SubmitFail(t, common.ErrIdentityMismatch, v.ClaimCall(e.asset, e.receiver, e.receiver, e.funder))

	byFunder := e.VaultInvoker(e.vault, e.funder)
	e.SubmitFail(t, common.ErrUnauthorized, byFunder.ClaimCall(e.asset, e.receiver, e.creator, e.funder))

	// terminal claim requires the deletion call
	e.SubmitFail(t, common.ErrMissingDeletionCompanion, v.ClaimCall(e.asset, e.receiver, e.creator, e.funder))
	e.SubmitFail(t, common.ErrMissingDeletionCompanion,
		v.ClaimCall(e.asset, e.receiver, e.creator, e.funder),
		ledger.NewAppCall(e.receiver, e.Master, masterconst.GetVaultIDMethod, e.receiver))
	e.SubmitFail(t, common.ErrMissingDeletionCompanion,
		v.ClaimCall(e.asset, e.receiver, e.creator, e.funder),
		ledger.NewPayment(e.receiver, e.creator, 1))
	e.SubmitFail(t, common.ErrMissingDeletionCompanion,
		v.ClaimCall(e.asset, e.receiver, e.creator, e.funder),
		ledger.NewAppCall(e.receiver, e.Master, masterconst.DeleteVaultMethod, e.receiver, e.vault))

	require.EqualValues(t, 10, e.AssetBalance(t, v.Address(), e.asset))
	require.Equal(t, vaultState{e.receiver, e.creator, e.Master, 1}, e.state(t))
}

func TestLifecycle(t *testing.T) {
	e := newTestEnv(t)
	p := e.Ledger.Params()
	ctx := context.Background()

	second := e.NewAsset(t, e.funder, 500)

	masterAddr := ledger.AppAddress(e.Master)
	vaultAddr := ledger.AppAddress(e.vault)

	e.Deposit(t, e.vault, e.funder, e.asset, 10)
	e.Deposit(t, e.vault, e.funder, second, 20)

	require.Equal(t, vaultState{e.receiver, e.creator, e.Master, 2}, e.state(t))
	require.EqualValues(t, escrowtest.InitialBalance-2*vault.OptInCost(p), e.Balance(t, e.funder))

	v := e.VaultInvoker(e.vault, e.receiver)

	res, err := v.Claim(ctx, e.asset)
	require.NoError(t, err)
	require.Len(t, res.Txns, 2) // receiver opt-in and claim

	require.EqualValues(t, 10, e.AssetBalance(t, e.receiver, e.asset))
	require.EqualValues(t, escrowtest.InitialBalance-vault.OptInCost(p), e.Balance(t, e.funder))
	require.Equal(t, vaultState{e.receiver, e.creator, e.Master, 1}, e.state(t))

	_, ok, err := v.Custody(e.asset)
	require.NoError(t, err)
	require.False(t, ok)

	_, optedIn, err := e.Ledger.AssetHolding(vaultAddr, e.asset)
	require.NoError(t, err)
	require.False(t, optedIn)

	txs, err := v.ClaimGroup(second)
	require.NoError(t, err)
	require.Len(t, txs, 3) // receiver opt-in, claim and vault deletion

	res = e.Submit(t, txs...)
	require.Len(t, res.Txns[1].Inner, 3)
	require.Equal(t, masterconst.VaultDeletedEvent, res.Txns[2].Events[0].Name)

	require.EqualValues(t, 20, e.AssetBalance(t, e.receiver, second))

	_, ok, err = e.Ledger.App(e.vault)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = master.NewReader(e.Ledger, e.Master).GetVaultID(ctx, e.receiver)
	require.ErrorIs(t, err, common.ErrNoSuchVault)

	// exact round trips
	require.EqualValues(t, escrowtest.InitialBalance, e.Balance(t, e.creator))
	require.EqualValues(t, escrowtest.InitialBalance, e.Balance(t, e.funder))
	require.EqualValues(t, escrowtest.InitialBalance, e.Balance(t, e.receiver))
	require.Zero(t, e.Balance(t, vaultAddr))
	require.EqualValues(t, p.MinBalance, e.Balance(t, masterAddr))
	require.EqualValues(t, p.MinBalance, e.MinBalance(t, masterAddr))

	t.Run("recreate", func(t *testing.T) {
		id := e.CreateVault(t, e.creator, e.receiver)
		require.NotEqual(t, e.vault, id)
	})
}

func TestClaimNonTerminalWithDeletion(t *testing.T) {
	e := newTestEnv(t)
	second := e.NewAsset(t, e.funder, 500)

	e.Deposit(t, e.vault, e.funder, e.asset, 10)
	e.Deposit(t, e.vault, e.funder, second, 20)
	e.Submit(t, ledger.NewAssetOptIn(e.receiver, e.asset))

	v := e.VaultInvoker(e.vault, e.receiver)
	m := e.MasterInvoker(e.receiver)

	e.SubmitFail(t, common.ErrNonZeroBalance,
		v.ClaimCall(e.asset, e.receiver, e.creator, e.funder),
		m.DeleteVaultCall(e.receiver, e.vault, e.creator))
}

func TestVaultMisc(t *testing.T) {
	e := newTestEnv(t)
	v := e.VaultInvoker(e.vault, e.receiver)

	n, err := v.Version(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, common.Version, n)

	e.SubmitFail(t, common.ErrAlreadyInitialized,
		ledger.NewAppCall(e.receiver, e.vault, vaultconst.CreateMethod, e.receiver, e.receiver))
	e.SubmitFail(t, common.ErrUnknownMethod, ledger.NewAppCall(e.receiver, e.vault, "unknown"))
	e.SubmitFail(t, common.ErrUnknownMethod, ledger.NewAppCall(e.receiver, e.vault, vaultconst.DeleteMethod))

	del := ledger.NewAppCall(e.receiver, e.vault, vaultconst.DeleteMethod)
	del.OnCompletion = ledger.DeleteApplication
	e.SubmitFail(t, common.ErrNonZeroBalance, del)

	// only Master creates vaults
	e.SubmitFail(t, common.ErrUnauthorized, ledger.Transaction{
		Type:   ledger.AppCallTx,
		Sender: e.creator,
		AppCallFields: ledger.AppCallFields{
			Program: vaultconst.ProgramName,
			Method:  vaultconst.CreateMethod,
			Args:    []any{e.receiver, e.creator},
		},
	})
}
