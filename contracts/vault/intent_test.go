package vault

import (
	"testing"

	"github.com/nspcc-dev/escrow-contract/common"
	"github.com/nspcc-dev/escrow-contract/contracts/master/masterconst"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type appSet map[ledger.AppID]bool

func (s appSet) AppExists(id ledger.AppID) (bool, error) { return s[id], nil }

func TestDeletionIntent(t *testing.T) {
	const (
		vaultID  ledger.AppID = 10
		masterID ledger.AppID = 2
	)

	var (
		d   = deletionIntent{vault: vaultID, master: masterID}
		acc = util.Uint160{1}
	)

	deletion := func(app ledger.AppID, method string, args ...any) *ledger.Transaction {
		tx := ledger.NewAppCall(acc, app, method, args...)
		return &tx
	}

	require.NoError(t, d.Match(deletion(masterID, masterconst.DeleteVaultMethod, acc, vaultID, acc)))

	for name, next := range map[string]*ledger.Transaction{
		"missing":      nil,
		"payment":      func() *ledger.Transaction { tx := ledger.NewPayment(acc, acc, 1); return &tx }(),
		"other app":    deletion(vaultID, masterconst.DeleteVaultMethod, acc, vaultID, acc),
		"other method": deletion(masterID, masterconst.GetVaultIDMethod, acc),
		"other vault":  deletion(masterID, masterconst.DeleteVaultMethod, acc, vaultID+1, acc),
		"no arguments": deletion(masterID, masterconst.DeleteVaultMethod),
		"short":        deletion(masterID, masterconst.DeleteVaultMethod, acc, vaultID),
		"vault type":   deletion(masterID, masterconst.DeleteVaultMethod, acc, acc, acc),
		"deletion": func() *ledger.Transaction {
			tx := deletion(masterID, masterconst.DeleteVaultMethod, acc, vaultID, acc)
			tx.OnCompletion = ledger.DeleteApplication
			return tx
		}(),
	} {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, d.Match(next), common.ErrMissingDeletionCompanion)
		})
	}

	require.NoError(t, d.Verify(appSet{masterID: true}))
	require.ErrorIs(t, d.Verify(appSet{vaultID: true}), common.ErrMissingDeletionCompanion)
}

func TestState(t *testing.T) {
	receiver, creator := util.Uint160{1}, util.Uint160{2}

	_, err := NewState(util.Uint160{}, creator, 1)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = NewState(receiver, util.Uint160{}, 1)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	st, err := NewState(receiver, creator, 5)
	require.NoError(t, err)
	require.Zero(t, st.AssetCount)

	gs := map[string]stackitem.Item{
		"receiver": stackitem.NewByteArray(receiver.BytesBE()),
		"creator":  stackitem.NewByteArray(creator.BytesBE()),
		"master":   stackitem.Make(5),
		"assets":   stackitem.Make(3),
	}

	st, err = StateFromGlobals(gs)
	require.NoError(t, err)
	require.Equal(t, State{Receiver: receiver, Creator: creator, Master: 5, AssetCount: 3}, st)

	delete(gs, "master")
	_, err = StateFromGlobals(gs)
	require.Error(t, err)

	gs["master"] = stackitem.Make(-1)
	_, err = StateFromGlobals(gs)
	require.Error(t, err)
}

func TestParseCustody(t *testing.T) {
	funder := util.Uint160{7}

	asset, got, err := ParseCustody(CustodyKey(42), funder.BytesBE())
	require.NoError(t, err)
	require.EqualValues(t, 42, asset)
	require.Equal(t, funder, got)

	_, _, err = ParseCustody([]byte{1}, funder.BytesBE())
	require.Error(t, err)

	_, _, err = ParseCustody(CustodyKey(42), []byte{1})
	require.Error(t, err)
}
