package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/escrow-contract/dump"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yml")

	require.NoError(t, os.WriteFile(cfgPath, []byte(`
Label: test
Logger:
  Level: warn
`), 0600))

	require.NoError(t, newApp().Run([]string{"escrow", "simulate", "--config", cfgPath, "--dump", dir}))

	var dumps int

	require.NoError(t, dump.IterateDumps(dir, func(id dump.ID, r *dump.Reader) {
		dumps++
		require.Equal(t, "test", id.Label)

		var apps int
		r.IterateApps(func(dump.AppState) { apps++ })
		require.Equal(t, 1, apps) // only master survives
	}))
	require.Equal(t, 1, dumps)
}

func TestInvalidConfig(t *testing.T) {
	require.Error(t, newApp().Run([]string{"escrow", "dump", "--config", filepath.Join(t.TempDir(), "missing.yml")}))
}

func TestSimulateReopen(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")

	require.NoError(t, os.WriteFile(cfgPath, []byte(`
Storage:
  Type: boltdb
  BoltDBOptions:
    FilePath: `+filepath.Join(dir, "ledger.bolt")+`
Logger:
  Level: warn
`), 0600))

	for i := 0; i < 2; i++ {
		require.NoError(t, newApp().Run([]string{"escrow", "simulate", "--config", cfgPath}), "run #%d", i)
	}

	out := filepath.Join(dir, "dumps")
	require.NoError(t, newApp().Run([]string{"escrow", "dump", "--config", cfgPath, "--out", out}))

	require.NoError(t, dump.IterateDumps(out, func(id dump.ID, r *dump.Reader) {
		require.NotZero(t, id.Round)

		var apps int
		r.IterateApps(func(dump.AppState) { apps++ })
		require.Equal(t, 1, apps) // master is deployed once
	}))
}

func TestDumpEmptyLedger(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, newApp().Run([]string{"escrow", "dump", "--out", out}))
}
