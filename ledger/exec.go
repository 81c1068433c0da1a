package ledger

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// execution applies a single atomic group to the unit of work.
type execution struct {
	l     *Ledger
	view  *stateView
	group []Transaction
	log   *zap.Logger

	// index of the top-level transaction being executed
	index int
	// inner transactions issued by the current top-level transaction
	inner   int
	pending Companion
}

func (x *execution) run(ctx context.Context) ([]TxnResult, error) {
	results := make([]TxnResult, 0, len(x.group))

	for i := range x.group {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t := &x.group[i]

		companion := x.pending
		x.pending = nil

		if companion != nil {
			if err := companion.Match(t); err != nil {
				return nil, fmt.Errorf("txn #%d: %w", i, err)
			}
		}

		x.index = i
		x.inner = 0

		res, err := x.apply(t, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("txn #%d (%s): %w", i, t.Type, err)
		}

		if companion != nil {
			if err = companion.Verify(x.view); err != nil {
				return nil, fmt.Errorf("txn #%d: %w", i, err)
			}
		}

		results = append(results, res)
	}

	if x.pending != nil {
		if err := x.pending.Match(nil); err != nil {
			return nil, fmt.Errorf("txn #%d: %w", len(x.group)-1, err)
		}
	}

	return results, x.checkFloors()
}

// checkFloors ensures every modified account is either closed or keeps its
// balance floor.
func (x *execution) checkFloors() error {
	addrs := make([]util.Uint160, 0, len(x.view.touched))
	for a := range x.view.touched {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i].BytesBE(), addrs[j].BytesBE()) < 0
	})

	for _, a := range addrs {
		rec, err := x.view.account(a)
		if err != nil {
			return err
		}

		if rec.closed() {
			continue
		}

		if floor := x.l.params.floor(rec); rec.Balance < floor {
			return fmt.Errorf("%w: %s has %d, needs %d", ErrBelowMinBalance,
				address.Uint160ToString(a), rec.Balance, floor)
		}
	}
	return nil
}

// apply executes the transaction issued either by an account (caller is
// zero) or by the caller application.
func (x *execution) apply(t *Transaction, caller AppID, depth int) (TxnResult, error) {
	var res TxnResult

	if err := t.validate(); err != nil {
		return res, err
	}

	var err error

	switch t.Type {
	case PaymentTx:
		err = x.pay(t)
	case AssetTransferTx:
		err = x.transferAsset(t)
	case AssetConfigTx:
		res.CreatedAssetID, err = x.createAsset(t)
	case AppCallTx:
		err = x.callApp(t, caller, depth, &res)
	}

	return res, err
}

func (x *execution) pay(t *Transaction) error {
	err := x.view.updateAccount(t.Sender, func(a *accountRecord) error {
		if a.Balance < t.Amount {
			return fmt.Errorf("%w: %s has %d, sends %d", ErrInsufficientBalance,
				address.Uint160ToString(t.Sender), a.Balance, t.Amount)
		}
		a.Balance -= t.Amount
		return nil
	})
	if err != nil {
		return err
	}

	if !t.Receiver.Equals(ZeroAddress) {
		err = x.view.updateAccount(t.Receiver, func(a *accountRecord) error {
			a.Balance += t.Amount
			return nil
		})
		if err != nil {
			return err
		}
	}

	if t.CloseRemainderTo.Equals(ZeroAddress) {
		return nil
	}

	var remainder uint64

	err = x.view.updateAccount(t.Sender, func(a *accountRecord) error {
		if a.hasResources() {
			return fmt.Errorf("%w: %s", ErrCloseWithHoldings, address.Uint160ToString(t.Sender))
		}
		remainder, a.Balance = a.Balance, 0
		return nil
	})
	if err != nil {
		return err
	}

	return x.view.updateAccount(t.CloseRemainderTo, func(a *accountRecord) error {
		a.Balance += remainder
		return nil
	})
}

func (x *execution) transferAsset(t *Transaction) error {
	asset, ok, err := x.view.asset(t.XferAsset)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchAsset, t.XferAsset)
	}

	if t.IsOptIn() {
		return x.optIn(t.Sender, t.XferAsset)
	}

	senderAmount, ok, err := x.view.holding(t.Sender, t.XferAsset)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: sender %s, asset %d", ErrNotOptedIn, address.Uint160ToString(t.Sender), t.XferAsset)
	}
	if senderAmount < t.AssetAmount {
		return fmt.Errorf("%w: %s has %d, sends %d", ErrInsufficientAsset,
			address.Uint160ToString(t.Sender), senderAmount, t.AssetAmount)
	}

	if err = x.moveAsset(t.XferAsset, t.Sender, t.AssetReceiver, t.AssetAmount); err != nil {
		return err
	}

	if t.AssetCloseTo.Equals(ZeroAddress) {
		return nil
	}

	if t.Sender.Equals(asset.Creator) {
		return ErrCreatorCloseOut
	}

	rest, _, err := x.view.holding(t.Sender, t.XferAsset)
	if err != nil {
		return err
	}

	if err = x.moveAsset(t.XferAsset, t.Sender, t.AssetCloseTo, rest); err != nil {
		return err
	}

	x.view.deleteHolding(t.Sender, t.XferAsset)

	return x.view.updateAccount(t.Sender, func(a *accountRecord) error {
		a.Holdings--
		return nil
	})
}

func (x *execution) optIn(acc util.Uint160, asset AssetID) error {
	_, ok, err := x.view.holding(acc, asset)
	if err != nil || ok {
		return err
	}

	x.view.putHolding(acc, asset, 0)

	return x.view.updateAccount(acc, func(a *accountRecord) error {
		a.Holdings++
		return nil
	})
}

// moveAsset moves amount between existing holdings.
func (x *execution) moveAsset(asset AssetID, from, to util.Uint160, amount uint64) error {
	fromAmount, _, err := x.view.holding(from, asset)
	if err != nil {
		return err
	}

	toAmount, ok, err := x.view.holding(to, asset)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: receiver %s, asset %d", ErrNotOptedIn, address.Uint160ToString(to), asset)
	}

	if from.Equals(to) {
		return nil
	}

	x.view.putHolding(from, asset, fromAmount-amount)
	x.view.putHolding(to, asset, toAmount+amount)

	return nil
}

func (x *execution) createAsset(t *Transaction) (AssetID, error) {
	n, err := x.view.nextID()
	if err != nil {
		return 0, err
	}

	id := AssetID(n)

	err = x.view.putAsset(id, assetRecord{
		Creator:     t.Sender,
		AssetParams: t.AssetParams,
	})
	if err != nil {
		return 0, err
	}

	x.view.putHolding(t.Sender, id, t.Total)

	return id, x.view.updateAccount(t.Sender, func(a *accountRecord) error {
		a.Holdings++
		return nil
	})
}

func (x *execution) callApp(t *Transaction, caller AppID, depth int, res *TxnResult) error {
	if depth > x.l.params.MaxCallDepth {
		return ErrCallDepth
	}

	var (
		id  = t.ApplicationID
		rec appRecord
	)

	if t.IsCreation() {
		prog, ok := x.l.programs[t.Program]
		if !ok {
			return fmt.Errorf("%w: '%s'", ErrUnknownProgram, t.Program)
		}

		n, err := x.view.nextID()
		if err != nil {
			return err
		}

		id = AppID(n)
		rec = appRecord{
			Program: prog.Name,
			Creator: t.Sender,
			Schema:  prog.Global,
		}

		if err = x.view.putApp(id, rec); err != nil {
			return err
		}

		err = x.view.updateAccount(t.Sender, func(a *accountRecord) error {
			a.CreatedApps++
			a.SchemaUints += prog.Global.NumUint
			a.SchemaBytes += prog.Global.NumByteSlice
			return nil
		})
		if err != nil {
			return err
		}

		res.CreatedAppID = id
	} else {
		var (
			ok  bool
			err error
		)

		rec, ok, err = x.view.app(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrNoSuchApp, id)
		}
	}

	prog, ok := x.l.programs[rec.Program]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownProgram, rec.Program)
	}

	env := &Env{
		x:        x,
		app:      id,
		txn:      t,
		caller:   caller,
		depth:    depth,
		creating: t.IsCreation(),
		result:   res,
	}

	ret, err := prog.Handler.Call(env)
	if err != nil {
		return fmt.Errorf("application %d (%s) method '%s': %w", id, rec.Program, t.Method, err)
	}

	res.Return = ret

	if t.OnCompletion == DeleteApplication {
		return x.deleteApp(id)
	}
	return nil
}

func (x *execution) deleteApp(id AppID) error {
	// re-read since the handler could change global state counters
	rec, _, err := x.view.app(id)
	if err != nil {
		return err
	}

	acc, err := x.view.account(AppAddress(id))
	if err != nil {
		return err
	}
	if acc.Boxes != 0 {
		return fmt.Errorf("%w: application %d has %d", ErrAppHasBoxes, id, acc.Boxes)
	}

	x.view.deleteApp(id)

	x.log.Debug("application deleted", zap.Stringer("app", id), zap.String("program", rec.Program))

	return x.view.updateAccount(rec.Creator, func(a *accountRecord) error {
		a.CreatedApps--
		a.SchemaUints -= rec.Schema.NumUint
		a.SchemaBytes -= rec.Schema.NumByteSlice
		return nil
	})
}
