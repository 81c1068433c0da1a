package dump_test

import (
	"testing"

	"github.com/nspcc-dev/escrow-contract/dump"
	"github.com/nspcc-dev/escrow-contract/internal/escrowtest"
	"github.com/stretchr/testify/require"
)

func TestLedgerDump(t *testing.T) {
	e := escrowtest.NewExecutor(t)

	creator := e.NewAccount(t)
	receiver := e.NewAccount(t)
	funder := e.NewAccount(t)

	asset := e.NewAsset(t, funder, 100)
	vaultID := e.CreateVault(t, creator, receiver)
	e.Deposit(t, vaultID, funder, asset, 10)

	round, err := e.Ledger.Round()
	require.NoError(t, err)

	dir := t.TempDir()
	id := dump.ID{Label: "simnet", Round: round}

	c, err := dump.NewCreator(dir, id)
	require.NoError(t, err)
	require.NoError(t, dump.Ledger(e.Ledger, c))
	c.Close()

	_, err = dump.NewCreator(dir, id)
	require.Error(t, err)

	var dumps int

	err = dump.IterateDumps(dir, func(got dump.ID, r *dump.Reader) {
		dumps++
		require.Equal(t, id, got)

		var apps int

		r.IterateApps(func(st dump.AppState) {
			apps++

			info, ok, err := e.Ledger.App(st.Info.ID)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, info, st.Info)

			gs, err := e.Ledger.Globals(st.Info.ID)
			require.NoError(t, err)
			require.Len(t, st.Globals, len(gs))
			for k, v := range gs {
				require.Contains(t, st.Globals, k)
				require.True(t, v.Equals(st.Globals[k]), k)
			}

			expected := make(map[string][]byte)
			e.Ledger.IterateBoxes(st.Info.ID, func(name, value []byte) bool {
				expected[string(name)] = value
				return true
			})

			got := make(map[string][]byte)
			r.IterateBoxes(st.Info.ID, func(name, value []byte) {
				got[string(name)] = value
			})

			require.Equal(t, expected, got)
			require.Len(t, got, 1) // registry record or custody record
		})

		require.Equal(t, 2, apps)
	})
	require.NoError(t, err)
	require.Equal(t, 1, dumps)
}

func TestIterateDumpsMissingDir(t *testing.T) {
	err := dump.IterateDumps(t.TempDir()+"/missing", func(dump.ID, *dump.Reader) {
		t.Fatal("unexpected dump")
	})
	require.NoError(t, err)
}
