package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/escrow-contract/contracts/master"
	"github.com/nspcc-dev/escrow-contract/contracts/master/masterconst"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Ledger groups ledger services required for the escrow deployment.
type Ledger interface {
	// Params returns protocol constants of the ledger.
	Params() ledger.Params

	// Submit executes transactions as a single atomic group.
	Submit(ctx context.Context, txs ...ledger.Transaction) (ledger.GroupResult, error)

	// Balance returns native balance of the account.
	Balance(util.Uint160) (uint64, error)

	// IterateApps passes all alive applications into f until it returns
	// false.
	IterateApps(f func(ledger.AppInfo) bool) error
}

// Prm groups all parameters of the escrow deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Ledger to deploy Master to.
	Ledger Ledger

	// Account paying for the Master creation and its base balance floor.
	Deployer util.Uint160
}

// Cost returns the amount the deployer spends on Master deployment.
func Cost(p ledger.Params) uint64 {
	return p.AppMinBalance(master.Schema) + p.MinBalance
}

// Deploy makes Master application ready to create vaults and returns its ID.
//
// Deploy is idempotent: Master previously created by the same deployer is
// reused, its account is funded if it was not done before. Summary of
// stages:
//  1. Master application creation
//  2. funding of the Master account with the base balance floor
func Deploy(ctx context.Context, prm Prm) (ledger.AppID, error) {
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	if prm.Ledger == nil {
		return 0, errors.New("missing ledger")
	}

	if prm.Deployer.Equals(ledger.ZeroAddress) {
		return 0, errors.New("missing deployer account")
	}

	log := prm.Logger.With(zap.String("deployer", address.Uint160ToString(prm.Deployer)))

	id, err := findMaster(prm.Ledger, prm.Deployer)
	if err != nil {
		return 0, fmt.Errorf("search for deployed Master: %w", err)
	}

	if id == 0 {
		log.Info("creating Master application...")

		res, err := prm.Ledger.Submit(ctx, ledger.Transaction{
			Type:   ledger.AppCallTx,
			Sender: prm.Deployer,
			AppCallFields: ledger.AppCallFields{
				Program: masterconst.ProgramName,
				Method:  masterconst.CreateMethod,
			},
		})
		if err != nil {
			return 0, fmt.Errorf("create Master application: %w", err)
		}

		id = res.Txns[0].CreatedAppID

		log.Info("Master application successfully created", zap.Stringer("id", id))
	} else {
		log.Debug("Master application is already created", zap.Stringer("id", id))
	}

	if err = fund(ctx, log, prm, id); err != nil {
		return 0, fmt.Errorf("fund Master account: %w", err)
	}

	return id, nil
}

func fund(ctx context.Context, log *zap.Logger, prm Prm, id ledger.AppID) error {
	addr := ledger.AppAddress(id)

	balance, err := prm.Ledger.Balance(addr)
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}

	base := prm.Ledger.Params().MinBalance
	if balance >= base {
		log.Debug("Master account is already funded", zap.Uint64("balance", balance))
		return nil
	}

	log.Info("funding Master account...", zap.Uint64("amount", base-balance))

	_, err = prm.Ledger.Submit(ctx, ledger.NewPayment(prm.Deployer, addr, base-balance))
	if err != nil {
		return err
	}

	log.Info("Master account successfully funded", zap.String("address", address.Uint160ToString(addr)))

	return nil
}

// findMaster returns the first Master application created by the deployer
// or zero.
func findMaster(l Ledger, deployer util.Uint160) (ledger.AppID, error) {
	var id ledger.AppID

	err := l.IterateApps(func(app ledger.AppInfo) bool {
		if app.Program == masterconst.ProgramName && app.Creator.Equals(deployer) {
			id = app.ID
			return false
		}
		return true
	})

	return id, err
}
