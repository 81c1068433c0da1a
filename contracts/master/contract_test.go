package master_test

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

func TestCreateVault(t *testing.T) {
	e := escrowtest.NewExecutor(t)
	p := e.Ledger.Params()
	m := master.NewReader(e.Ledger, e.Master)

	creator := e.NewAccount(t)
	receiver := e.NewAccount(t)

	cost := master.CreateVaultCost(p)
	require.EqualValues(t, 370_700, cost)

	masterBefore := e.Balance(t, m.Address())

	res := e.Submit(t, e.MasterInvoker(creator).CreateVaultGroup(receiver)...)

	id, ok := res.Txns[1].Return.(ledger.AppID)
	require.True(t, ok)
	require.NotZero(t, id)

	require.Len(t, res.Txns[1].Events, 1)
	ev := res.Txns[1].Events[0]
	require.Equal(t, masterconst.VaultCreatedEvent, ev.Name)
	require.Equal(t, []any{receiver, id}, ev.Args)

	require.EqualValues(t, escrowtest.InitialBalance-cost, e.Balance(t, creator))
	require.EqualValues(t, masterBefore+cost-p.MinBalance, e.Balance(t, m.Address()))
	require.EqualValues(t, e.Balance(t, m.Address()), e.MinBalance(t, m.Address()))

	vaultAddr := ledger.AppAddress(id)
	require.EqualValues(t, p.MinBalance, e.Balance(t, vaultAddr))
	require.EqualValues(t, p.MinBalance, e.MinBalance(t, vaultAddr))

	info, ok, err := e.Ledger.App(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, vaultconst.ProgramName, info.Program)
	require.Equal(t, m.Address(), info.Creator)

	gotID, err := m.GetVaultID(context.Background(), receiver)
	require.NoError(t, err)
	require.Equal(t, id, gotID)

	gotAddr, err := m.GetVaultAddr(context.Background(), receiver)
	require.NoError(t, err)
	require.Equal(t, vaultAddr, gotAddr)

	st, err := vault.NewReader(e.Ledger, id).State()
	require.NoError(t, err)
	require.Equal(t, receiver, st.Receiver)
	require.Equal(t, creator, st.Creator)
	require.Equal(t, e.Master, st.Master)
	require.Zero(t, st.AssetCount)

	var registered int
	require.NoError(t, m.Vaults(func(r util.Uint160, v ledger.AppID) bool {
		registered++
		require.Equal(t, receiver, r)
		require.Equal(t, id, v)
		return true
	}))
	require.Equal(t, 1, registered)

	t.Run("already exists", func(t *testing.T) {
		e.SubmitFail(t, common.ErrVaultAlreadyExists, e.MasterInvoker(creator).CreateVaultGroup(receiver)...)
	})
}

func TestCreateVaultPayment(t *testing.T) {
	e := escrowtest.NewExecutor(t)
	p := e.Ledger.Params()
	m := e.MasterInvoker(e.Committee)

	creator := e.NewAccount(t)
	receiver := e.NewAccount(t)
	cost := master.CreateVaultCost(p)

	call := ledger.NewAppCall(creator, e.Master, masterconst.CreateVaultMethod, receiver)

	t.Run("amount", func(t *testing.T) {
		for _, amount := range []uint64{cost - 1, cost + 1} {
			e.SubmitFail(t, common.ErrMbrMismatch, ledger.NewPayment(creator, m.Address(), amount), call)
		}
	})

	t.Run("missing", func(t *testing.T) {
		e.SubmitFail(t, common.ErrPaymentMismatch, call)
	})

	t.Run("wrong sender", func(t *testing.T) {
		e.SubmitFail(t, common.ErrPaymentMismatch, ledger.NewPayment(e.Committee, m.Address(), cost), call)
	})

	t.Run("wrong receiver", func(t *testing.T) {
		e.SubmitFail(t, common.ErrPaymentMismatch, ledger.NewPayment(creator, receiver, cost), call)
	})

	t.Run("not a payment", func(t *testing.T) {
		asset := e.NewAsset(t, creator, 10)
		e.SubmitFail(t, common.ErrPaymentMismatch, ledger.NewAssetOptIn(creator, asset), call)
	})

	_, err := m.GetVaultID(context.Background(), receiver)
	require.ErrorIs(t, err, common.ErrNoSuchVault)

	e.Submit(t, ledger.NewPayment(creator, m.Address(), cost), call)
}

func TestVerifyAxfer(t *testing.T) {
	e := escrowtest.NewExecutor(t)
	m := master.NewReader(e.Ledger, e.Master)
	ctx := context.Background()

	creator := e.NewAccount(t)
	receiver := e.NewAccount(t)
	funder := e.NewAccount(t)
	holder := e.NewAccount(t)

	asset := e.NewAsset(t, funder, 1000)
	id := e.CreateVault(t, creator, receiver)
	vaultAddr := ledger.AppAddress(id)

	e.Deposit(t, id, funder, asset, 10)
	e.Submit(t,
		ledger.NewAssetOptIn(holder, asset),
		ledger.NewAssetTransfer(funder, holder, asset, 50),
	)

	require.NoError(t, m.VerifyAxfer(ctx, ledger.NewAssetTransfer(funder, vaultAddr, asset, 5), receiver))

	err := m.VerifyAxfer(ctx, ledger.NewAssetTransfer(funder, funder, asset, 5), receiver)
	require.ErrorIs(t, err, common.ErrInvalidTransfer)

	closing := ledger.NewAssetTransfer(holder, vaultAddr, asset, 5)
	closing.AssetCloseTo = vaultAddr
	err = m.VerifyAxfer(ctx, closing, receiver)
	require.ErrorIs(t, err, common.ErrInvalidTransfer)

	err = m.VerifyAxfer(ctx, ledger.NewPayment(funder, vaultAddr, 5), receiver)
	require.ErrorIs(t, err, common.ErrInvalidTransfer)

	err = m.VerifyAxfer(ctx, ledger.NewAssetTransfer(funder, vaultAddr, asset, 5), funder)
	require.ErrorIs(t, err, common.ErrNoSuchVault)

	// simulation only
	require.EqualValues(t, 10, e.AssetBalance(t, vaultAddr, asset))
	require.EqualValues(t, 50, e.AssetBalance(t, holder, asset))
}

func TestDeleteVaultChecks(t *testing.T) {
	e := escrowtest.NewExecutor(t)

	creator := e.NewAccount(t)
	receiver := e.NewAccount(t)
	other := e.NewAccount(t)

	id := e.CreateVault(t, creator, receiver)
	otherID := e.CreateVault(t, creator, other)

	m := e.MasterInvoker(receiver)

	e.SubmitFail(t, common.ErrNoSuchVault, m.DeleteVaultCall(creator, id, creator))
	e.SubmitFail(t, common.ErrIdMismatch, m.DeleteVaultCall(receiver, otherID, creator))
	e.SubmitFail(t, common.ErrCreatorMismatch, m.DeleteVaultCall(receiver, id, receiver))
	e.SubmitFail(t, common.ErrNonZeroBalance, m.DeleteVaultCall(receiver, id, creator))
	e.SubmitFail(t, common.ErrInvalidArgument,
		ledger.NewAppCall(receiver, e.Master, masterconst.DeleteVaultMethod, receiver, id))

	_, ok, err := e.Ledger.App(id)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMasterMisc(t *testing.T) {
	e := escrowtest.NewExecutor(t)
	acc := e.NewAccount(t)

	v, err := master.NewReader(e.Ledger, e.Master).Version(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, common.Version, v)

	e.SubmitFail(t, common.ErrUnknownMethod, ledger.NewAppCall(acc, e.Master, "unknown"))
	e.SubmitFail(t, common.ErrAlreadyInitialized, ledger.NewAppCall(acc, e.Master, masterconst.CreateMethod))

	del := ledger.NewAppCall(e.Committee, e.Master, masterconst.DeleteVaultMethod)
	del.OnCompletion = ledger.DeleteApplication
	e.SubmitFail(t, common.ErrUnknownMethod, del)
}
