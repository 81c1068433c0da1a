package main

import (
	"context"
	"fmt"

	"github.com/mr-tron/base58"
	vaultcontract "github.com/nspcc-dev/escrow-contract/contracts/vault"
	"github.com/nspcc-dev/escrow-contract/deploy"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/escrow-contract/rpc/master"
	"github.com/nspcc-dev/escrow-contract/rpc/vault"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	simAccountBalance = 10_000_000
	simAssetTotal     = 1_000
	simDeposit        = 100
)

func simulate(c *cli.Context) error {
	n, err := openNode(c, true)
	if err != nil {
		return err
	}
	defer n.close()

	err = n.simulate(context.Background())
	if err != nil {
		return err
	}

	if dir := c.String("dump"); dir != "" {
		return n.dump(dir)
	}

	return nil
}

// simulate creates vault, deposits two assets and claims both of them so
// the vault is deleted in the end.
func (n *node) simulate(ctx context.Context) error {
	committee, err := n.committee()
	if err != nil {
		return err
	}

	masterID, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:   n.log,
		Ledger:   n.ledger,
		Deployer: committee,
	})
	if err != nil {
		return fmt.Errorf("deploy master: %w", err)
	}

	var creator, receiver, funder util.Uint160

	for _, acc := range []*util.Uint160{&creator, &receiver, &funder} {
		k, err := keys.NewPrivateKey()
		if err != nil {
			return fmt.Errorf("generate account key: %w", err)
		}

		*acc = k.GetScriptHash()

		_, err = n.ledger.Submit(ctx, ledger.NewPayment(committee, *acc, simAccountBalance))
		if err != nil {
			return fmt.Errorf("fund account: %w", err)
		}
	}

	n.logBalances("accounts funded", creator, receiver, funder)

	id, err := master.New(n.ledger, masterID, creator).CreateVault(ctx, receiver)
	if err != nil {
		return fmt.Errorf("create vault: %w", err)
	}

	n.log.Info("vault created",
		zap.Stringer("id", id),
		zap.String("address", address.Uint160ToString(ledger.AppAddress(id))),
		zap.String("receiver", address.Uint160ToString(receiver)))

	assets := make([]ledger.AssetID, 2)
	byFunder := vault.New(n.ledger, id, funder)

	for i := range assets {
		res, err := n.ledger.Submit(ctx, ledger.Transaction{
			Type:        ledger.AssetConfigTx,
			Sender:      funder,
			AssetParams: ledger.AssetParams{Total: simAssetTotal, UnitName: "SIM", Name: fmt.Sprintf("simulated asset #%d", i)},
		})
		if err != nil {
			return fmt.Errorf("create asset: %w", err)
		}

		assets[i] = res.Txns[0].CreatedAssetID

		txs := append(byFunder.OptInGroup(assets[i]),
			ledger.NewAssetTransfer(funder, byFunder.Address(), assets[i], simDeposit))

		_, err = n.ledger.Submit(ctx, txs...)
		if err != nil {
			return fmt.Errorf("deposit asset %d: %w", assets[i], err)
		}

		n.log.Info("asset deposited",
			zap.Stringer("asset", assets[i]),
			zap.String("box", base58.Encode(vaultcontract.CustodyKey(assets[i]))),
			zap.Uint64("amount", simDeposit))
	}

	n.logBalances("assets deposited", creator, receiver, funder, byFunder.Address())

	byReceiver := vault.New(n.ledger, id, receiver)

	for i := range assets {
		res, err := byReceiver.Claim(ctx, assets[i])
		if err != nil {
			return fmt.Errorf("claim asset %d: %w", assets[i], err)
		}

		n.log.Info("asset claimed",
			zap.Stringer("asset", assets[i]),
			zap.Stringer("group", res.ID),
			zap.Int("transactions", len(res.Txns)))
	}

	_, alive, err := n.ledger.App(id)
	if err != nil {
		return fmt.Errorf("read vault: %w", err)
	}

	n.logBalances("assets claimed", creator, receiver, funder)
	n.log.Info("simulation finished", zap.Stringer("vault", id), zap.Bool("vault alive", alive))

	return nil
}

func (n *node) logBalances(msg string, accs ...util.Uint160) {
	fields := make([]zap.Field, 0, len(accs))

	for i := range accs {
		b, err := n.ledger.Balance(accs[i])
		if err != nil {
			n.log.Warn("failed to read balance", zap.Error(err))
			return
		}

		fields = append(fields, zap.Uint64(address.Uint160ToString(accs[i]), b))
	}

	n.log.Info(msg, fields...)
}
