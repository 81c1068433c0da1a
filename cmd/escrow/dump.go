package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/escrow-contract/dump"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func dumpLedger(c *cli.Context) error {
	n, err := openNode(c, false)
	if err != nil {
		return err
	}
	defer n.close()

	return n.dump(c.String("out"))
}

func (n *node) dump(dir string) error {
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return fmt.Errorf("create root dir: %w", err)
	}

	round, err := n.ledger.Round()
	if err != nil {
		return fmt.Errorf("read current round: %w", err)
	}

	id := dump.ID{Label: n.cfg.Label, Round: round}

	d, err := dump.NewCreator(dir, id)
	if err != nil {
		return fmt.Errorf("init local dumper: %w", err)
	}
	defer d.Close()

	err = dump.Ledger(n.ledger, d)
	if err != nil {
		return fmt.Errorf("dump ledger: %w", err)
	}

	var apps int

	err = n.ledger.IterateApps(func(ledger.AppInfo) bool {
		apps++
		return true
	})
	if err != nil {
		return err
	}

	n.log.Info("ledger applications are successfully dumped",
		zap.String("dir", dir), zap.Stringer("id", id), zap.Int("applications", apps))

	return nil
}
