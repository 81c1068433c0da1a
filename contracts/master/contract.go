package master

import (
	"fmt"

	"github.com/nspcc-dev/escrow-contract/common"
	"github.com/nspcc-dev/escrow-contract/contracts/master/masterconst"
	"github.com/nspcc-dev/escrow-contract/contracts/vault/vaultconst"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Schema is a global state schema of the Master program.
var Schema = ledger.Schema{}

// Program returns the Master program.
func Program() ledger.Program {
	return ledger.Program{
		Name:    masterconst.ProgramName,
		Global:  Schema,
		Handler: ledger.ApplicationFunc(call),
	}
}

func call(env *ledger.Env) (any, error) {
	if env.Creating() {
		if env.Method() != masterconst.CreateMethod {
			return nil, fmt.Errorf("%w: '%s' on creation", common.ErrUnknownMethod, env.Method())
		}
		return nil, nil
	}

	if env.OnCompletion() != ledger.NoOp {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownMethod, env.OnCompletion())
	}

	switch env.Method() {
	case masterconst.CreateMethod:
		return nil, common.ErrAlreadyInitialized
	case masterconst.CreateVaultMethod:
		return createVault(env)
	case masterconst.VerifyAxferMethod:
		return nil, verifyAxfer(env)
	case masterconst.GetVaultIDMethod:
		return getVaultID(env)
	case masterconst.GetVaultAddrMethod:
		id, err := getVaultID(env)
		if err != nil {
			return nil, err
		}
		return ledger.AppAddress(id), nil
	case masterconst.DeleteVaultMethod:
		return nil, deleteVault(env)
	case common.VersionMethod:
		return uint64(common.Version), nil
	default:
		return nil, fmt.Errorf("%w: '%s'", common.ErrUnknownMethod, env.Method())
	}
}

// createVault creates and funds the receiver's vault. Argument: receiver.
// The preceding group transaction must pay Master's balance floor increase
// plus the vault base floor.
func createVault(env *ledger.Env) (ledger.AppID, error) {
	args := env.Args()
	if err := common.CheckArgCount(args, 1); err != nil {
		return 0, err
	}

	receiver, err := common.AddressArg(args, 0)
	if err != nil {
		return 0, err
	}

	registry := RegistryStore{env: env}

	if _, ok, err := registry.Get(receiver); err != nil {
		return 0, err
	} else if ok {
		return 0, fmt.Errorf("%w: receiver %s", common.ErrVaultAlreadyExists, address.Uint160ToString(receiver))
	}

	payment, err := env.PrecedingTxn()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrPaymentMismatch, err)
	}

	creator := env.Sender()

	if err = common.CheckPayment(payment, creator, env.Address()); err != nil {
		return 0, err
	}

	floor, err := common.CaptureFloor(env, env.Address())
	if err != nil {
		return 0, err
	}

	res, err := env.Submit(ledger.Transaction{
		Type: ledger.AppCallTx,
		AppCallFields: ledger.AppCallFields{
			Program:  vaultconst.ProgramName,
			Method:   vaultconst.CreateMethod,
			Args:     []any{receiver, creator},
			Accounts: []util.Uint160{receiver, creator},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("create vault: %w", err)
	}

	id := res.CreatedAppID
	base := env.Params().MinBalance

	if _, err = env.Submit(ledger.NewPayment(env.Address(), ledger.AppAddress(id), base)); err != nil {
		return 0, fmt.Errorf("fund vault: %w", err)
	}

	if err = registry.Put(receiver, id); err != nil {
		return 0, err
	}

	increase, err := floor.Increase(env)
	if err != nil {
		return 0, err
	}

	if err = common.CheckMbrPayment(payment.Amount, increase+base); err != nil {
		return 0, err
	}

	env.Logger().Debug("vault created",
		zap.Stringer("vault", id),
		zap.String("receiver", address.Uint160ToString(receiver)))

	env.Notify(masterconst.VaultCreatedEvent, receiver, id)

	return id, nil
}

// verifyAxfer checks that the preceding group transaction sends asset to the
// receiver's vault. Argument: receiver.
func verifyAxfer(env *ledger.Env) error {
	id, err := getVaultID(env)
	if err != nil {
		return err
	}

	axfer, err := env.PrecedingTxn()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidTransfer, err)
	}

	vaultAddr := ledger.AppAddress(id)

	switch {
	case axfer.Type != ledger.AssetTransferTx:
		return fmt.Errorf("%w: %s transaction", common.ErrInvalidTransfer, axfer.Type)
	case !axfer.AssetReceiver.Equals(vaultAddr):
		return fmt.Errorf("%w: receiver %s, vault %s", common.ErrInvalidTransfer,
			address.Uint160ToString(axfer.AssetReceiver), address.Uint160ToString(vaultAddr))
	case !axfer.AssetCloseTo.Equals(ledger.ZeroAddress):
		return fmt.Errorf("%w: close to %s", common.ErrInvalidTransfer,
			address.Uint160ToString(axfer.AssetCloseTo))
	}

	return nil
}

// getVaultID returns vault of the receiver. Argument: receiver.
func getVaultID(env *ledger.Env) (ledger.AppID, error) {
	args := env.Args()
	if err := common.CheckArgCount(args, 1); err != nil {
		return 0, err
	}

	receiver, err := common.AddressArg(args, 0)
	if err != nil {
		return 0, err
	}

	id, ok, err := RegistryStore{env: env}.Get(receiver)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: receiver %s", common.ErrNoSuchVault, address.Uint160ToString(receiver))
	}

	return id, nil
}

// deleteVault deletes the closed vault, removes it from the registry and
// refunds the creator. Arguments: receiver, vault, creator.
func deleteVault(env *ledger.Env) error {
	args := env.Args()
	if err := common.CheckArgCount(args, 3); err != nil {
		return err
	}

	receiver, err := common.AddressArg(args, 0)
	if err != nil {
		return err
	}

	vault, err := common.AppArg(args, 1)
	if err != nil {
		return err
	}

	creator, err := common.AddressArg(args, 2)
	if err != nil {
		return err
	}

	registry := RegistryStore{env: env}

	id, ok, err := registry.Get(receiver)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: receiver %s", common.ErrNoSuchVault, address.Uint160ToString(receiver))
	}

	if id != vault {
		return fmt.Errorf("%w: receiver's vault is %d, not %d", common.ErrIdMismatch, id, vault)
	}

	vaultCreator, err := common.GetForeignAddress(env, vault, vaultconst.CreatorKey)
	if err != nil {
		return err
	}

	if !vaultCreator.Equals(creator) {
		return fmt.Errorf("%w: vault is created by %s", common.ErrCreatorMismatch,
			address.Uint160ToString(vaultCreator))
	}

	floor, err := common.CaptureFloor(env, env.Address())
	if err != nil {
		return err
	}

	_, err = env.Submit(ledger.Transaction{
		Type: ledger.AppCallTx,
		AppCallFields: ledger.AppCallFields{
			ApplicationID: vault,
			OnCompletion:  ledger.DeleteApplication,
			Method:        vaultconst.DeleteMethod,
		},
	})
	if err != nil {
		return fmt.Errorf("delete vault: %w", err)
	}

	if err = registry.Delete(receiver); err != nil {
		return err
	}

	decrease, err := floor.Decrease(env)
	if err != nil {
		return err
	}

	if err = common.Refund(env, creator, decrease); err != nil {
		return err
	}

	env.Notify(masterconst.VaultDeletedEvent, receiver, vault)

	return nil
}
