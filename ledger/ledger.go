package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Prm groups parameters of the Ledger.
type Prm struct {
	// Protocol constants. Defaults are used if zero.
	Params Params

	// Persistent backend. In-memory store is used if nil.
	Store storage.Store

	// Logger. No-op logger is used if nil.
	Logger *zap.Logger

	// Initial account balances. Applied only to a fresh store.
	Genesis map[util.Uint160]uint64

	// Programs which may be instantiated by creation calls.
	Programs []Program
}

// Ledger is a deterministic single-node ledger executing atomic transaction
// groups. Each group is applied to its own unit of work which is either
// persisted as a whole or discarded.
type Ledger struct {
	params   Params
	programs map[string]Program
	log      *zap.Logger

	mtx     sync.RWMutex
	backend storage.Store
	base    *storage.MemCachedStore
}

// AccountInfo describes an open account.
type AccountInfo struct {
	Address    util.Uint160
	Balance    uint64
	MinBalance uint64
}

// AssetInfo describes an existing asset.
type AssetInfo struct {
	ID      AssetID
	Creator util.Uint160
	AssetParams
}

// New opens the ledger.
func New(prm Prm) (*Ledger, error) {
	if prm.Params == (Params{}) {
		prm.Params = DefaultParams()
	}

	if err := prm.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	if prm.Store == nil {
		prm.Store = storage.NewMemoryStore()
	}

	l := &Ledger{
		params:   prm.Params,
		programs: make(map[string]Program, len(prm.Programs)),
		log:      prm.Logger,
		backend:  prm.Store,
		base:     storage.NewMemCachedStore(prm.Store),
	}

	for i := range prm.Programs {
		p := prm.Programs[i]
		if p.Name == "" || p.Handler == nil {
			return nil, fmt.Errorf("invalid program #%d", i)
		}
		if _, ok := l.programs[p.Name]; ok {
			return nil, fmt.Errorf("duplicated program '%s'", p.Name)
		}
		l.programs[p.Name] = p
	}

	if err := l.initGenesis(prm.Genesis); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Ledger) initGenesis(alloc map[util.Uint160]uint64) error {
	view := newStateView(l.base, l.params)

	_, ok, err := view.getUint64([]byte{keyRound})
	if err != nil {
		return fmt.Errorf("read ledger round: %w", err)
	}
	if ok {
		if len(alloc) != 0 {
			l.log.Info("ledger is already initialized, genesis allocation is skipped")
		}
		return nil
	}

	for addr, amount := range alloc {
		if amount < l.params.MinBalance {
			return fmt.Errorf("genesis balance of %s is below %d", address.Uint160ToString(addr), l.params.MinBalance)
		}
		if err = view.putAccount(addr, accountRecord{Balance: amount}); err != nil {
			return err
		}
	}

	view.setRound(0)

	if _, err = l.base.PersistSync(); err != nil {
		return fmt.Errorf("persist genesis: %w", err)
	}

	l.log.Info("genesis applied", zap.Int("accounts", len(alloc)))
	return nil
}

// Params returns protocol constants of the ledger.
func (l *Ledger) Params() Params {
	return l.params
}

// Submit executes transactions as a single atomic group. Either all the
// group effects are committed or none.
func (l *Ledger) Submit(ctx context.Context, txs ...Transaction) (GroupResult, error) {
	return l.execute(ctx, txs, true)
}

// Simulate executes the group like Submit does but always discards its
// effects.
func (l *Ledger) Simulate(ctx context.Context, txs ...Transaction) (GroupResult, error) {
	return l.execute(ctx, txs, false)
}

func (l *Ledger) execute(ctx context.Context, txs []Transaction, commit bool) (GroupResult, error) {
	res := GroupResult{ID: uuid.New()}

	switch {
	case len(txs) == 0:
		return res, ErrEmptyGroup
	case len(txs) > l.params.MaxGroupSize:
		return res, fmt.Errorf("%w: %d > %d", ErrGroupTooLarge, len(txs), l.params.MaxGroupSize)
	}

	if commit {
		l.mtx.Lock()
		defer l.mtx.Unlock()
	} else {
		l.mtx.RLock()
		defer l.mtx.RUnlock()
	}

	log := l.log.With(zap.Stringer("group", res.ID), zap.Int("size", len(txs)))

	unit := storage.NewMemCachedStore(l.base)
	x := &execution{
		l:     l,
		view:  newStateView(unit, l.params),
		group: txs,
		log:   log,
	}

	results, err := x.run(ctx)
	if err != nil {
		log.Debug("group rejected", zap.Error(err))
		return res, err
	}

	res.Txns = results

	if !commit {
		return res, nil
	}

	round, err := x.view.round()
	if err != nil {
		return res, err
	}

	round++
	x.view.setRound(round)

	if _, err = unit.PersistSync(); err != nil {
		return res, fmt.Errorf("persist group: %w", err)
	}

	if _, err = l.base.PersistSync(); err != nil {
		// base is in sync with the backend after every commit, so only
		// this group is dropped
		l.base = storage.NewMemCachedStore(l.backend)
		log.Error("can't persist group to the backend", zap.Error(err))
		return res, fmt.Errorf("persist group to the backend: %w", err)
	}

	res.Round = round

	log.Debug("group committed", zap.Uint64("round", round))

	return res, nil
}

func (l *Ledger) view() *stateView {
	return newStateView(l.base, l.params)
}

// Round returns the number of committed groups.
func (l *Ledger) Round() (uint64, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.view().round()
}

// Balance returns native balance of the account. Closed accounts have zero
// balance.
func (l *Ledger) Balance(addr util.Uint160) (uint64, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.view().Balance(addr)
}

// MinBalance returns current balance floor of the account.
func (l *Ledger) MinBalance(addr util.Uint160) (uint64, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.view().minBalance(addr)
}

// AssetHolding returns asset holding of the account. The flag is false if
// the account is not opted in.
func (l *Ledger) AssetHolding(addr util.Uint160, asset AssetID) (uint64, bool, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.view().holding(addr, asset)
}

// Asset returns asset description. The flag is false if there is no such
// asset.
func (l *Ledger) Asset(id AssetID) (AssetInfo, bool, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	rec, ok, err := l.view().asset(id)
	if err != nil || !ok {
		return AssetInfo{}, ok, err
	}

	return AssetInfo{
		ID:          id,
		Creator:     rec.Creator,
		AssetParams: rec.AssetParams,
	}, true, nil
}

// App returns application description. The flag is false if there is no
// such application.
func (l *Ledger) App(id AppID) (AppInfo, bool, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	rec, ok, err := l.view().app(id)
	if err != nil || !ok {
		return AppInfo{}, ok, err
	}

	return appInfo(id, rec), true, nil
}

func appInfo(id AppID, rec appRecord) AppInfo {
	return AppInfo{
		ID:      id,
		Program: rec.Program,
		Creator: rec.Creator,
		Address: AppAddress(id),
		Schema:  rec.Schema,
	}
}

// Global returns global value of the application or nil if it is missing.
func (l *Ledger) Global(id AppID, name string) (stackitem.Item, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.view().global(id, name)
}

// Globals returns all global values of the application.
func (l *Ledger) Globals(id AppID) (map[string]stackitem.Item, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.view().globals(id)
}

// Box returns box contents. The flag is false if there is no such box.
func (l *Ledger) Box(id AppID, name []byte) ([]byte, bool, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.view().box(id, name)
}

// IterateBoxes passes all boxes of the application into f until it returns
// false.
func (l *Ledger) IterateBoxes(id AppID, f func(name, value []byte) bool) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	l.view().boxes(id, f)
}

// IterateApps passes all alive applications into f until it returns false.
func (l *Ledger) IterateApps(f func(AppInfo) bool) error {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	var iterErr error

	l.view().seek([]byte{prefixApp}, func(k, v []byte) bool {
		if len(k) != 8 {
			iterErr = fmt.Errorf("invalid application key length %d", len(k))
			return false
		}

		var rec appRecord
		if err := decodeRecord(v, &rec); err != nil {
			iterErr = fmt.Errorf("decode application: %w", err)
			return false
		}

		return f(appInfo(AppID(binary.BigEndian.Uint64(k)), rec))
	})

	return iterErr
}

// IterateAccounts passes all open accounts into f until it returns false.
func (l *Ledger) IterateAccounts(f func(AccountInfo) bool) error {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	var iterErr error

	l.view().seek([]byte{prefixAccount}, func(k, v []byte) bool {
		addr, err := util.Uint160DecodeBytesBE(k)
		if err != nil {
			iterErr = fmt.Errorf("invalid account key: %w", err)
			return false
		}

		var rec accountRecord
		if err = decodeRecord(v, &rec); err != nil {
			iterErr = fmt.Errorf("decode account: %w", err)
			return false
		}

		return f(AccountInfo{
			Address:    addr,
			Balance:    rec.Balance,
			MinBalance: l.params.floor(rec),
		})
	})

	return iterErr
}

// Close closes the backend store.
func (l *Ledger) Close() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	_, err := l.base.PersistSync()
	if closeErr := l.backend.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}
