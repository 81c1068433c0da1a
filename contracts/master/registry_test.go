package master

import (
	"testing"

	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestParseRegistry(t *testing.T) {
	receiver := util.Uint160{1, 2, 3}

	got, id, err := ParseRegistry(RegistryKey(receiver), ledger.AppID(17).Bytes())
	require.NoError(t, err)
	require.Equal(t, receiver, got)
	require.EqualValues(t, 17, id)

	_, _, err = ParseRegistry([]byte{1}, ledger.AppID(17).Bytes())
	require.Error(t, err)

	_, _, err = ParseRegistry(RegistryKey(receiver), []byte{1})
	require.Error(t, err)
}
