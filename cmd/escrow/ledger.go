package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nspcc-dev/escrow-contract/config"
	"github.com/nspcc-dev/escrow-contract/contracts"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// generatedAllocation is a genesis balance of the committee account
// generated for a fresh ledger when no genesis is configured.
const generatedAllocation = 1_000_000_000_000

var errNoFundedAccount = errors.New("no funded account")

func loadConfig(c *cli.Context) (config.Config, error) {
	path := c.String("config")
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}

// node is an opened ledger.
type node struct {
	cfg     config.Config
	log     *zap.Logger
	ledger  *ledger.Ledger
	genesis map[util.Uint160]uint64
}

// openNode opens the configured ledger. If withCommittee is set and no
// genesis is configured, a fresh ledger gets a generated funded account.
func openNode(c *cli.Context, withCommittee bool) (*node, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	log, err := cfg.BuildLogger()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	prm, err := cfg.LedgerPrm(log, contracts.Programs())
	if err != nil {
		return nil, err
	}

	if withCommittee && len(prm.Genesis) == 0 {
		k, err := keys.NewPrivateKey()
		if err != nil {
			_ = prm.Store.Close()
			return nil, fmt.Errorf("generate committee key: %w", err)
		}

		prm.Genesis = map[util.Uint160]uint64{k.GetScriptHash(): generatedAllocation}
	}

	l, err := ledger.New(prm)
	if err != nil {
		_ = prm.Store.Close()
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	return &node{
		cfg:     cfg,
		log:     log,
		ledger:  l,
		genesis: prm.Genesis,
	}, nil
}

// committee returns the richest genesis account. Reopened ledger may have
// no funded genesis account (e.g. generated one is unknown), then the
// richest non-application account is used.
func (n *node) committee() (util.Uint160, error) {
	accs := make([]util.Uint160, 0, len(n.genesis))
	for acc := range n.genesis {
		accs = append(accs, acc)
	}

	sort.Slice(accs, func(i, j int) bool { return accs[i].Less(accs[j]) })

	var (
		res  util.Uint160
		best uint64
	)

	for i := range accs {
		b, err := n.ledger.Balance(accs[i])
		if err != nil {
			return util.Uint160{}, fmt.Errorf("read genesis balance: %w", err)
		}

		if b > best {
			res, best = accs[i], b
		}
	}

	if best != 0 {
		return res, nil
	}

	apps := make(map[util.Uint160]struct{})

	err := n.ledger.IterateApps(func(info ledger.AppInfo) bool {
		apps[info.Address] = struct{}{}
		return true
	})
	if err != nil {
		return util.Uint160{}, fmt.Errorf("list applications: %w", err)
	}

	err = n.ledger.IterateAccounts(func(acc ledger.AccountInfo) bool {
		if _, ok := apps[acc.Address]; ok {
			return true
		}

		if acc.Balance > best {
			res, best = acc.Address, acc.Balance
		}
		return true
	})
	if err != nil {
		return util.Uint160{}, fmt.Errorf("list accounts: %w", err)
	}

	if best == 0 {
		return util.Uint160{}, errNoFundedAccount
	}

	n.log.Info("no funded genesis account, the richest account is used",
		zap.String("account", address.Uint160ToString(res)), zap.Uint64("balance", best))

	return res, nil
}

func (n *node) close() {
	if err := n.ledger.Close(); err != nil {
		n.log.Error("failed to close ledger", zap.Error(err))
	}

	_ = n.log.Sync()
}
