package deploy_test

import (
	"context"
	"testing"

	"github.com/nspcc-dev/escrow-contract/contracts"
	"github.com/nspcc-dev/escrow-contract/deploy"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newLedger(t *testing.T, deployer util.Uint160, balance uint64) *ledger.Ledger {
	l, err := ledger.New(ledger.Prm{
		Logger:   zaptest.NewLogger(t),
		Genesis:  map[util.Uint160]uint64{deployer: balance},
		Programs: contracts.Programs(),
	})
	require.NoError(t, err)
	return l
}

func newDeployer(t *testing.T) util.Uint160 {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)
	return k.GetScriptHash()
}

func TestDeploy(t *testing.T) {
	deployer := newDeployer(t)
	p := ledger.DefaultParams()
	initial := 10 * deploy.Cost(p)

	l := newLedger(t, deployer, initial)

	prm := deploy.Prm{
		Logger:   zaptest.NewLogger(t),
		Ledger:   l,
		Deployer: deployer,
	}

	id, err := deploy.Deploy(context.Background(), prm)
	require.NoError(t, err)
	require.NotZero(t, id)

	info, ok, err := l.App(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, info.Creator.Equals(deployer))

	b, err := l.Balance(info.Address)
	require.NoError(t, err)
	require.EqualValues(t, p.MinBalance, b)

	b, err = l.Balance(deployer)
	require.NoError(t, err)
	require.EqualValues(t, initial-p.MinBalance, b)

	mb, err := l.MinBalance(deployer)
	require.NoError(t, err)
	require.EqualValues(t, deploy.Cost(p), mb)

	t.Run("repeated", func(t *testing.T) {
		again, err := deploy.Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, id, again)

		b, err := l.Balance(deployer)
		require.NoError(t, err)
		require.EqualValues(t, initial-p.MinBalance, b)
	})
}

func TestDeployInsufficientFunds(t *testing.T) {
	deployer := newDeployer(t)
	p := ledger.DefaultParams()

	l := newLedger(t, deployer, deploy.Cost(p)-1)

	_, err := deploy.Deploy(context.Background(), deploy.Prm{
		Ledger:   l,
		Deployer: deployer,
	})
	require.ErrorIs(t, err, ledger.ErrBelowMinBalance)
}

func TestDeployInvalidPrm(t *testing.T) {
	_, err := deploy.Deploy(context.Background(), deploy.Prm{Deployer: util.Uint160{1}})
	require.Error(t, err)

	_, err = deploy.Deploy(context.Background(), deploy.Prm{
		Ledger: newLedger(t, newDeployer(t), 1_000_000),
	})
	require.Error(t, err)
}
