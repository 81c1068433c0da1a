package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/escrow-contract/common"
	"github.com/urfave/cli"
)

func main() {
	ctl := newApp()

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	ctl := cli.NewApp()
	ctl.Name = "escrow"
	ctl.Usage = "Escrow contracts on the local ledger"
	ctl.Version = common.VersionString()
	ctl.Commands = []cli.Command{
		{
			Name:   "simulate",
			Usage:  "Run full vault lifecycle on the configured ledger",
			Flags:  []cli.Flag{configFlag, dumpFlag},
			Action: simulate,
		},
		{
			Name:   "dump",
			Usage:  "Dump applications of the configured ledger",
			Flags:  []cli.Flag{configFlag, outFlag},
			Action: dumpLedger,
		},
	}

	return ctl
}

var (
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Path to the YAML configuration file, defaults are used if omitted",
	}
	dumpFlag = cli.StringFlag{
		Name:  "dump",
		Usage: "Directory to dump applications to after the simulation",
	}
	outFlag = cli.StringFlag{
		Name:  "out, o",
		Value: "testdata",
		Usage: "Directory to dump applications to",
	}
)
