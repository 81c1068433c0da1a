// Package master contains client wrappers for the Master contract.
package master

import (
	"context"
	"fmt"

	mastercontract "github.com/nspcc-dev/escrow-contract/contracts/master"
	"github.com/nspcc-dev/escrow-contract/contracts/master/masterconst"
	"github.com/nspcc-dev/escrow-contract/contracts/vault"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Invoker is used by ContractReader to call safe methods and read state.
type Invoker interface {
	Params() ledger.Params
	Simulate(ctx context.Context, txs ...ledger.Transaction) (ledger.GroupResult, error)
	IterateBoxes(id ledger.AppID, f func(name, value []byte) bool)
}

// Actor is used by Contract to send state-changing groups.
type Actor interface {
	Invoker
	Submit(ctx context.Context, txs ...ledger.Transaction) (ledger.GroupResult, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	id      ledger.AppID
}

// Contract implements all contract methods on behalf of the sender account.
type Contract struct {
	ContractReader
	actor  Actor
	sender util.Uint160
}

// NewReader creates an instance of ContractReader using provided application
// ID and the given Invoker.
func NewReader(invoker Invoker, id ledger.AppID) *ContractReader {
	return &ContractReader{invoker, id}
}

// New creates an instance of Contract using provided application ID, the
// given Actor and the sender of the groups.
func New(actor Actor, id ledger.AppID, sender util.Uint160) *Contract {
	return &Contract{ContractReader{actor, id}, actor, sender}
}

// ID returns Master application ID.
func (c *ContractReader) ID() ledger.AppID {
	return c.id
}

// Address returns Master account address.
func (c *ContractReader) Address() util.Uint160 {
	return ledger.AppAddress(c.id)
}

func (c *ContractReader) call(ctx context.Context, method string, args ...any) (any, error) {
	res, err := c.invoker.Simulate(ctx, ledger.NewAppCall(ledger.ZeroAddress, c.id, method, args...))
	if err != nil {
		return nil, err
	}
	return res.Txns[0].Return, nil
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version(ctx context.Context) (uint64, error) {
	return unwrapUint64(c.call(ctx, "version"))
}

// GetVaultID invokes `get_vault_id` method of contract.
func (c *ContractReader) GetVaultID(ctx context.Context, receiver util.Uint160) (ledger.AppID, error) {
	return unwrapAppID(c.call(ctx, masterconst.GetVaultIDMethod, receiver))
}

// GetVaultAddr invokes `get_vault_addr` method of contract.
func (c *ContractReader) GetVaultAddr(ctx context.Context, receiver util.Uint160) (util.Uint160, error) {
	v, err := c.call(ctx, masterconst.GetVaultAddrMethod, receiver)
	if err != nil {
		return util.Uint160{}, err
	}

	addr, ok := v.(util.Uint160)
	if !ok {
		return addr, fmt.Errorf("unexpected result type %T", v)
	}
	return addr, nil
}

// VerifyAxfer invokes `verify_axfer` method of contract with the given asset
// transfer preceding the call.
func (c *ContractReader) VerifyAxfer(ctx context.Context, axfer ledger.Transaction, receiver util.Uint160) error {
	_, err := c.invoker.Simulate(ctx, c.VerifyAxferGroup(axfer, axfer.Sender, receiver)...)
	return err
}

// VerifyAxferGroup returns group of the asset transfer followed by the
// `verify_axfer` call.
func (c *ContractReader) VerifyAxferGroup(axfer ledger.Transaction, sender, receiver util.Uint160) []ledger.Transaction {
	return []ledger.Transaction{
		axfer,
		ledger.NewAppCall(sender, c.id, masterconst.VerifyAxferMethod, receiver),
	}
}

// Vaults passes all registered receivers and their vaults into f until it
// returns false.
func (c *ContractReader) Vaults(f func(receiver util.Uint160, vault ledger.AppID) bool) error {
	var iterErr error

	c.invoker.IterateBoxes(c.id, func(name, value []byte) bool {
		receiver, id, err := mastercontract.ParseRegistry(name, value)
		if err != nil {
			iterErr = err
			return false
		}
		return f(receiver, id)
	})

	return iterErr
}

// CreateVaultCost returns the payment required by `create_vault`.
func CreateVaultCost(p ledger.Params) uint64 {
	return p.AppMinBalance(vault.Schema) +
		p.BoxMinBalance(masterconst.RegistryNameLen, masterconst.RegistryValueLen) +
		p.MinBalance
}

// CreateVaultGroup returns group of the exact balance floor payment followed
// by the `create_vault` call.
func (c *Contract) CreateVaultGroup(receiver util.Uint160) []ledger.Transaction {
	return []ledger.Transaction{
		ledger.NewPayment(c.sender, c.Address(), CreateVaultCost(c.invoker.Params())),
		ledger.NewAppCall(c.sender, c.id, masterconst.CreateVaultMethod, receiver),
	}
}

// CreateVault creates vault of the receiver and returns its ID.
func (c *Contract) CreateVault(ctx context.Context, receiver util.Uint160) (ledger.AppID, error) {
	res, err := c.actor.Submit(ctx, c.CreateVaultGroup(receiver)...)
	if err != nil {
		return 0, err
	}
	return unwrapAppID(res.Txns[1].Return, nil)
}

// DeleteVaultCall returns `delete_vault` call. It must follow the terminal
// vault claim in the same group.
func (c *Contract) DeleteVaultCall(receiver util.Uint160, vault ledger.AppID, creator util.Uint160) ledger.Transaction {
	return ledger.NewAppCall(c.sender, c.id, masterconst.DeleteVaultMethod, receiver, vault, creator)
}

func unwrapAppID(v any, err error) (ledger.AppID, error) {
	if err != nil {
		return 0, err
	}

	id, ok := v.(ledger.AppID)
	if !ok {
		return 0, fmt.Errorf("unexpected result type %T", v)
	}
	return id, nil
}

func unwrapUint64(v any, err error) (uint64, error) {
	if err != nil {
		return 0, err
	}

	n, ok := v.(uint64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type %T", v)
	}
	return n, nil
}
