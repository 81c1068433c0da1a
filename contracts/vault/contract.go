package vault

import (
	"fmt"

	"github.com/nspcc-dev/escrow-contract/common"
	"github.com/nspcc-dev/escrow-contract/contracts/vault/vaultconst"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"go.uber.org/zap"
)

// Program returns the Vault program.
func Program() ledger.Program {
	return ledger.Program{
		Name:    vaultconst.ProgramName,
		Global:  Schema,
		Handler: ledger.ApplicationFunc(call),
	}
}

func call(env *ledger.Env) (any, error) {
	if env.Creating() {
		if env.Method() != vaultconst.CreateMethod {
			return nil, fmt.Errorf("%w: '%s' on creation", common.ErrUnknownMethod, env.Method())
		}
		return nil, create(env)
	}

	if env.OnCompletion() == ledger.DeleteApplication {
		if env.Method() != vaultconst.DeleteMethod {
			return nil, fmt.Errorf("%w: '%s' on deletion", common.ErrUnknownMethod, env.Method())
		}
		return nil, destroy(env)
	}

	switch env.Method() {
	case vaultconst.CreateMethod:
		return nil, common.ErrAlreadyInitialized
	case vaultconst.OptInMethod:
		return nil, optIn(env)
	case vaultconst.ClaimMethod:
		return nil, claim(env)
	case common.VersionMethod:
		return uint64(common.Version), nil
	default:
		return nil, fmt.Errorf("%w: '%s'", common.ErrUnknownMethod, env.Method())
	}
}

// create initializes the vault. Vault is created by its Master only.
func create(env *ledger.Env) error {
	args := env.Args()
	if err := common.CheckArgCount(args, 2); err != nil {
		return err
	}

	receiver, err := common.AddressArg(args, 0)
	if err != nil {
		return err
	}

	creator, err := common.AddressArg(args, 1)
	if err != nil {
		return err
	}

	if env.CallerAppID() == 0 {
		return fmt.Errorf("%w: vault must be created by an application", common.ErrUnauthorized)
	}

	st, err := NewState(receiver, creator, env.CallerAppID())
	if err != nil {
		return err
	}

	return st.store(env)
}

// optIn takes custody of the asset. Arguments: funder, asset. The preceding
// group transaction must pay the exact balance floor increase from the funder
// to the vault.
func optIn(env *ledger.Env) error {
	args := env.Args()
	if err := common.CheckArgCount(args, 2); err != nil {
		return err
	}

	sender, err := common.AddressArg(args, 0)
	if err != nil {
		return err
	}

	asset, err := common.AssetArg(args, 1)
	if err != nil {
		return err
	}

	st, err := loadState(env)
	if err != nil {
		return err
	}

	custody := CustodyStore{env: env}

	_, ok, err := custody.Get(asset)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: asset %d", common.ErrDuplicateCustody, asset)
	}

	payment, err := env.PrecedingTxn()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPaymentMismatch, err)
	}

	if err = common.CheckPayment(payment, sender, env.Address()); err != nil {
		return err
	}

	floor, err := common.CaptureFloor(env, env.Address())
	if err != nil {
		return err
	}

	if err = setAssetCount(env, st.AssetCount+1); err != nil {
		return err
	}

	if err = custody.Put(asset, sender); err != nil {
		return err
	}

	if _, err = env.Submit(ledger.NewAssetOptIn(env.Address(), asset)); err != nil {
		return fmt.Errorf("opt in asset %d: %w", asset, err)
	}

	increase, err := floor.Increase(env)
	if err != nil {
		return err
	}

	if err = common.CheckMbrPayment(payment.Amount, increase); err != nil {
		return err
	}

	env.Notify(vaultconst.AssetOptedInEvent, asset, sender)

	return nil
}

// claim transfers the whole asset holding to the receiver and refunds the
// funder. The last claim closes the vault account and requires the vault
// deletion in the next group transaction. Arguments: asset, receiver,
// creator, funder.
func claim(env *ledger.Env) error {
	args := env.Args()
	if err := common.CheckArgCount(args, 4); err != nil {
		return err
	}

	asset, err := common.AssetArg(args, 0)
	if err != nil {
		return err
	}

	receiver, err := common.AddressArg(args, 1)
	if err != nil {
		return err
	}

	creator, err := common.AddressArg(args, 2)
	if err != nil {
		return err
	}

	funder, err := common.AddressArg(args, 3)
	if err != nil {
		return err
	}

	st, err := loadState(env)
	if err != nil {
		return err
	}

	custody := CustodyStore{env: env}

	storedFunder, ok, err := custody.Get(asset)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: asset %d", common.ErrNoSuchCustody, asset)
	}

	if !storedFunder.Equals(funder) {
		return fmt.Errorf("%w: asset %d is funded by %s", common.ErrFunderMismatch, asset,
			address.Uint160ToString(storedFunder))
	}

	if !st.Receiver.Equals(receiver) || !st.Creator.Equals(creator) {
		return common.ErrIdentityMismatch
	}

	if err = common.CheckSender(env, st.Receiver); err != nil {
		return err
	}

	floor, err := common.CaptureFloor(env, env.Address())
	if err != nil {
		return err
	}

	if err = custody.Delete(asset); err != nil {
		return err
	}

	amount, _, err := env.AssetBalance(env.Address(), asset)
	if err != nil {
		return err
	}

	xfer := ledger.NewAssetTransfer(env.Address(), receiver, asset, amount)
	xfer.AssetCloseTo = receiver

	if _, err = env.Submit(xfer); err != nil {
		return fmt.Errorf("transfer asset %d: %w", asset, err)
	}

	decrease, err := floor.Decrease(env)
	if err != nil {
		return err
	}

	if err = common.Refund(env, funder, decrease); err != nil {
		return err
	}

	st.AssetCount--

	if err = setAssetCount(env, st.AssetCount); err != nil {
		return err
	}

	env.Notify(vaultconst.AssetClaimedEvent, asset, receiver, amount)

	if st.AssetCount != 0 {
		return nil
	}

	rest, err := env.Balance(env.Address())
	if err != nil {
		return err
	}

	closing := ledger.NewPayment(env.Address(), creator, rest)
	closing.CloseRemainderTo = receiver

	if _, err = env.Submit(closing); err != nil {
		return fmt.Errorf("close vault account: %w", err)
	}

	env.Logger().Debug("terminal claim, vault deletion is required",
		zap.Stringer("master", st.Master))

	return env.Require(deletionIntent{
		vault:  env.AppID(),
		master: st.Master,
	})
}

// destroy checks vault may be deleted. Only Master may delete empty vault.
func destroy(env *ledger.Env) error {
	st, err := loadState(env)
	if err != nil {
		return err
	}

	balance, err := env.Balance(env.Address())
	if err != nil {
		return err
	}
	if balance != 0 {
		return fmt.Errorf("%w: %d", common.ErrNonZeroBalance, balance)
	}

	return common.CheckCaller(env, st.Master)
}
