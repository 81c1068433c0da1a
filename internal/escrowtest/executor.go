// Package escrowtest provides helpers for testing escrow contracts on a
// fresh ledger.
package escrowtest

import (
	"context"
	"testing"

	"github.com/nspcc-dev/escrow-contract/contracts"
	"github.com/nspcc-dev/escrow-contract/deploy"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/escrow-contract/rpc/master"
	"github.com/nspcc-dev/escrow-contract/rpc/vault"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// InitialBalance is a native balance of every account created by the
// Executor.
const InitialBalance = 100_000_000

// Executor is a wrapper over the ledger with deployed Master and a funded
// committee account.
type Executor struct {
	Ledger    *ledger.Ledger
	Committee util.Uint160
	Master    ledger.AppID
}

// NewExecutor creates ledger with escrow programs and deploys Master.
func NewExecutor(t testing.TB) *Executor {
	committee := newAddress(t)

	l, err := ledger.New(ledger.Prm{
		Logger:   zaptest.NewLogger(t),
		Genesis:  map[util.Uint160]uint64{committee: 1_000 * InitialBalance},
		Programs: contracts.Programs(),
	})
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, l.Close()) })

	id, err := deploy.Deploy(context.Background(), deploy.Prm{
		Logger:   zaptest.NewLogger(t),
		Ledger:   l,
		Deployer: committee,
	})
	require.NoError(t, err)

	return &Executor{
		Ledger:    l,
		Committee: committee,
		Master:    id,
	}
}

func newAddress(t testing.TB) util.Uint160 {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)
	return k.GetScriptHash()
}

// NewAccount creates an account with InitialBalance.
func (e *Executor) NewAccount(t testing.TB) util.Uint160 {
	acc := newAddress(t)
	e.Submit(t, ledger.NewPayment(e.Committee, acc, InitialBalance))
	return acc
}

// NewAsset creates an asset with the whole supply held by the creator.
func (e *Executor) NewAsset(t testing.TB, creator util.Uint160, total uint64) ledger.AssetID {
	res := e.Submit(t, ledger.Transaction{
		Type:        ledger.AssetConfigTx,
		Sender:      creator,
		AssetParams: ledger.AssetParams{Total: total, UnitName: "TST", Name: "test asset"},
	})
	return res.Txns[0].CreatedAssetID
}

// Submit executes the group and checks it succeeds.
func (e *Executor) Submit(t testing.TB, txs ...ledger.Transaction) ledger.GroupResult {
	res, err := e.Ledger.Submit(context.Background(), txs...)
	require.NoError(t, err)
	return res
}

// SubmitFail executes the group and checks it fails with the given error.
// It also checks that the ledger state is not changed.
func (e *Executor) SubmitFail(t testing.TB, expected error, txs ...ledger.Transaction) {
	before := e.snapshot(t)

	_, err := e.Ledger.Submit(context.Background(), txs...)
	require.ErrorIs(t, err, expected)

	require.Equal(t, before, e.snapshot(t))
}

// state is a comparable view of accounts, applications and their storage.
type state struct {
	round    uint64
	accounts []ledger.AccountInfo
	apps     []ledger.AppInfo
	globals  map[ledger.AppID]map[string][]byte
	boxes    map[ledger.AppID]map[string][]byte
}

func (e *Executor) snapshot(t testing.TB) state {
	var (
		err error
		st  = state{
			globals: make(map[ledger.AppID]map[string][]byte),
			boxes:   make(map[ledger.AppID]map[string][]byte),
		}
	)

	st.round, err = e.Ledger.Round()
	require.NoError(t, err)

	require.NoError(t, e.Ledger.IterateAccounts(func(acc ledger.AccountInfo) bool {
		st.accounts = append(st.accounts, acc)
		return true
	}))

	require.NoError(t, e.Ledger.IterateApps(func(info ledger.AppInfo) bool {
		st.apps = append(st.apps, info)
		return true
	}))

	for _, info := range st.apps {
		gs, err := e.Ledger.Globals(info.ID)
		require.NoError(t, err)

		st.globals[info.ID] = make(map[string][]byte, len(gs))
		for k, v := range gs {
			st.globals[info.ID][k], err = stackitem.Serialize(v)
			require.NoError(t, err)
		}

		st.boxes[info.ID] = make(map[string][]byte)
		e.Ledger.IterateBoxes(info.ID, func(name, value []byte) bool {
			st.boxes[info.ID][string(name)] = value
			return true
		})
	}

	return st
}

// Balance returns native balance of the account.
func (e *Executor) Balance(t testing.TB, addr util.Uint160) uint64 {
	b, err := e.Ledger.Balance(addr)
	require.NoError(t, err)
	return b
}

// MinBalance returns balance floor of the account.
func (e *Executor) MinBalance(t testing.TB, addr util.Uint160) uint64 {
	b, err := e.Ledger.MinBalance(addr)
	require.NoError(t, err)
	return b
}

// AssetBalance returns asset holding of the account, zero if it is not
// opted in.
func (e *Executor) AssetBalance(t testing.TB, addr util.Uint160, asset ledger.AssetID) uint64 {
	b, _, err := e.Ledger.AssetHolding(addr, asset)
	require.NoError(t, err)
	return b
}

// MasterInvoker returns Master client sending groups on behalf of the sender.
func (e *Executor) MasterInvoker(sender util.Uint160) *master.Contract {
	return master.New(e.Ledger, e.Master, sender)
}

// VaultInvoker returns Vault client sending groups on behalf of the sender.
func (e *Executor) VaultInvoker(id ledger.AppID, sender util.Uint160) *vault.Contract {
	return vault.New(e.Ledger, id, sender)
}

// CreateVault creates vault of the receiver paid by the creator.
func (e *Executor) CreateVault(t testing.TB, creator, receiver util.Uint160) ledger.AppID {
	id, err := e.MasterInvoker(creator).CreateVault(context.Background(), receiver)
	require.NoError(t, err)
	return id
}

// Deposit opts the vault into the asset paid by the funder and sends the
// amount from the funder to the vault.
func (e *Executor) Deposit(t testing.TB, id ledger.AppID, funder util.Uint160, asset ledger.AssetID, amount uint64) {
	v := e.VaultInvoker(id, funder)
	txs := append(v.OptInGroup(asset), ledger.NewAssetTransfer(funder, v.Address(), asset, amount))
	e.Submit(t, txs...)
}
