package ledger

import (
	"bytes"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Env is an execution environment of a single application call. It is valid
// only during the Application.Call it is passed to.
type Env struct {
	x        *execution
	app      AppID
	txn      *Transaction
	caller   AppID
	depth    int
	creating bool
	result   *TxnResult
}

// AppID returns ID of the executing application.
func (e *Env) AppID() AppID {
	return e.app
}

// Address returns account address of the executing application.
func (e *Env) Address() util.Uint160 {
	return AppAddress(e.app)
}

// CallerAppID returns ID of the application that issued the call as an
// inner transaction. Zero for top-level calls.
func (e *Env) CallerAppID() AppID {
	return e.caller
}

// Sender returns sender of the call transaction. For inner calls it is the
// address of the caller application.
func (e *Env) Sender() util.Uint160 {
	return e.txn.Sender
}

// Creating checks whether the call is the application creation call.
func (e *Env) Creating() bool {
	return e.creating
}

// Method returns the called method name.
func (e *Env) Method() string {
	return e.txn.Method
}

// Args returns the call arguments.
func (e *Env) Args() []any {
	return e.txn.Args
}

// OnCompletion returns the action requested by the call.
func (e *Env) OnCompletion() OnCompletion {
	return e.txn.OnCompletion
}

// Accounts returns accounts referenced by the call.
func (e *Env) Accounts() []util.Uint160 {
	return e.txn.Accounts
}

// Params returns protocol constants.
func (e *Env) Params() Params {
	return e.x.l.params
}

// Logger returns logger of the executing group.
func (e *Env) Logger() *zap.Logger {
	return e.x.log.With(zap.Stringer("app", e.app))
}

// PrecedingTxn returns the transaction that precedes the top-level call in
// the group. It is used as a transaction-typed method argument.
func (e *Env) PrecedingTxn() (*Transaction, error) {
	if e.caller != 0 || e.x.index == 0 {
		return nil, ErrNoTxnArgument
	}
	t := e.x.group[e.x.index-1]
	return &t, nil
}

// Balance returns native balance of the account.
func (e *Env) Balance(addr util.Uint160) (uint64, error) {
	return e.x.view.Balance(addr)
}

// MinBalance returns balance floor of the account.
func (e *Env) MinBalance(addr util.Uint160) (uint64, error) {
	return e.x.view.minBalance(addr)
}

// AssetBalance returns asset holding of the account. The flag is false if
// the account is not opted in.
func (e *Env) AssetBalance(addr util.Uint160, asset AssetID) (uint64, bool, error) {
	return e.x.view.holding(addr, asset)
}

// Global returns global value of the executing application or nil if it is
// missing.
func (e *Env) Global(name string) (stackitem.Item, error) {
	return e.x.view.global(e.app, name)
}

// ForeignGlobal returns global value of another application or nil if it
// is missing.
func (e *Env) ForeignGlobal(app AppID, name string) (stackitem.Item, error) {
	ok, err := e.x.view.AppExists(app)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchApp, app)
	}
	return e.x.view.global(app, name)
}

// SetGlobal stores global value of the executing application. Only integers
// and byte arrays are allowed, their number is limited by the program schema.
func (e *Env) SetGlobal(name string, item stackitem.Item) error {
	var isUint bool

	switch item.Type() {
	case stackitem.IntegerT:
		isUint = true
	case stackitem.ByteArrayT:
	default:
		return fmt.Errorf("%w: '%s' of type %s", ErrSchemaViolation, name, item.Type())
	}

	rec, _, err := e.x.view.app(e.app)
	if err != nil {
		return err
	}

	prev, err := e.x.view.global(e.app, name)
	if err != nil {
		return err
	}

	if prev != nil {
		if prev.Type() == stackitem.IntegerT {
			rec.UsedUints--
		} else {
			rec.UsedBytes--
		}
	}

	if isUint {
		rec.UsedUints++
	} else {
		rec.UsedBytes++
	}

	if rec.UsedUints > rec.Schema.NumUint || rec.UsedBytes > rec.Schema.NumByteSlice {
		return fmt.Errorf("%w: '%s' does not fit %d/%d", ErrSchemaViolation, name,
			rec.Schema.NumUint, rec.Schema.NumByteSlice)
	}

	if err = e.x.view.putApp(e.app, rec); err != nil {
		return err
	}
	return e.x.view.putGlobal(e.app, name, item)
}

func (e *Env) checkBoxName(name []byte) error {
	if len(name) == 0 || len(name) > e.x.l.params.MaxBoxNameLen {
		return fmt.Errorf("%w: name length %d", ErrBoxSize, len(name))
	}
	return nil
}

// BoxCreate creates zero-filled box of the given size. It returns false if
// the box already exists with the same size.
func (e *Env) BoxCreate(name []byte, size int) (bool, error) {
	if err := e.checkBoxName(name); err != nil {
		return false, err
	}
	if size <= 0 || size > e.x.l.params.MaxBoxSize {
		return false, fmt.Errorf("%w: %d", ErrBoxSize, size)
	}

	v, ok, err := e.x.view.box(e.app, name)
	if err != nil {
		return false, err
	}
	if ok {
		if len(v) != size {
			return false, fmt.Errorf("%w: %x", ErrBoxExists, name)
		}
		return false, nil
	}

	e.x.view.putBox(e.app, name, make([]byte, size))

	return true, e.x.view.updateAccount(e.Address(), func(a *accountRecord) error {
		a.Boxes++
		a.BoxBytes += uint64(len(name) + size)
		return nil
	})
}

// BoxGet returns box contents. The flag is false if there is no such box.
func (e *Env) BoxGet(name []byte) ([]byte, bool, error) {
	return e.x.view.box(e.app, name)
}

// BoxPut overwrites contents of an existing box. Value must have the box
// size.
func (e *Env) BoxPut(name, value []byte) error {
	v, ok, err := e.x.view.box(e.app, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %x", ErrNoSuchBox, name)
	}
	if len(v) != len(value) {
		return fmt.Errorf("%w: box %x has %d bytes, value has %d", ErrBoxSize, name, len(v), len(value))
	}

	e.x.view.putBox(e.app, name, bytes.Clone(value))
	return nil
}

// BoxDelete removes the box. It returns false if there is no such box.
func (e *Env) BoxDelete(name []byte) (bool, error) {
	v, ok, err := e.x.view.box(e.app, name)
	if err != nil || !ok {
		return false, err
	}

	e.x.view.deleteBox(e.app, name)

	return true, e.x.view.updateAccount(e.Address(), func(a *accountRecord) error {
		a.Boxes--
		a.BoxBytes -= uint64(len(name) + len(v))
		return nil
	})
}

// Submit executes inner transaction on behalf of the application account.
// Sender field is overwritten.
func (e *Env) Submit(t Transaction) (TxnResult, error) {
	e.x.inner++
	if e.x.inner > e.x.l.params.MaxInnerTransactions {
		return TxnResult{}, fmt.Errorf("%w: limit is %d", ErrTooManyInner, e.x.l.params.MaxInnerTransactions)
	}

	t.Sender = e.Address()

	res, err := e.x.apply(&t, e.app, e.depth+1)
	if err != nil {
		return res, fmt.Errorf("inner %s: %w", t.Type, err)
	}

	e.result.Inner = append(e.result.Inner, res)
	return res, nil
}

// Require registers a requirement for the next top-level transaction of the
// group.
func (e *Env) Require(c Companion) error {
	if e.x.pending != nil {
		return ErrCompanionPending
	}
	e.x.pending = c
	return nil
}

// Notify records application event.
func (e *Env) Notify(name string, args ...any) {
	e.result.Events = append(e.result.Events, Event{
		App:  e.app,
		Name: name,
		Args: args,
	})
	e.x.log.Debug("notification", zap.Stringer("app", e.app), zap.String("name", name), zap.Any("args", args))
}
