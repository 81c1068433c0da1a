package ledger

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Storage key prefixes, see package docs.
const (
	prefixAccount byte = 0x01
	prefixHolding byte = 0x02
	prefixAsset   byte = 0x03
	prefixApp     byte = 0x04
	prefixGlobal  byte = 0x05
	prefixBox     byte = 0x06
	keyCounter    byte = 0x07
	keyRound      byte = 0x08
)

// Reader provides read access to the ledger state for companion
// requirement checks.
type Reader interface {
	// AppExists checks whether the application is alive.
	AppExists(AppID) (bool, error)
}

// kvStore is a part of storage.MemCachedStore used by the ledger.
type kvStore interface {
	Get([]byte) ([]byte, error)
	Put(key, value []byte)
	Delete([]byte)
	Seek(rng storage.SeekRange, f func(k, v []byte) bool)
}

// stateView interprets raw key-value pairs as ledger state. Modified
// accounts are remembered for the balance floor check.
type stateView struct {
	st      kvStore
	params  Params
	touched map[util.Uint160]struct{}
}

func newStateView(st kvStore, p Params) *stateView {
	return &stateView{
		st:      st,
		params:  p,
		touched: make(map[util.Uint160]struct{}),
	}
}

func key(prefix byte, parts ...[]byte) []byte {
	k := []byte{prefix}
	for i := range parts {
		k = append(k, parts[i]...)
	}
	return k
}

func (s *stateView) get(k []byte) ([]byte, bool, error) {
	v, err := s.st.Get(k)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read storage item: %w", err)
	}
	return v, true, nil
}

// seek passes key suffixes after prefix and values into f.
func (s *stateView) seek(prefix []byte, f func(k, v []byte) bool) {
	s.st.Seek(storage.SeekRange{Prefix: prefix}, func(k, v []byte) bool {
		suffix := k
		if bytes.HasPrefix(k, prefix) {
			suffix = k[len(prefix):]
		}
		return f(bytes.Clone(suffix), bytes.Clone(v))
	})
}

func (s *stateView) getUint64(k []byte) (uint64, bool, error) {
	v, ok, err := s.get(k)
	if err != nil || !ok {
		return 0, ok, err
	}
	if len(v) != 8 {
		return 0, false, fmt.Errorf("invalid uint64 item length %d", len(v))
	}
	return binary.BigEndian.Uint64(v), true, nil
}

func (s *stateView) account(addr util.Uint160) (accountRecord, error) {
	var a accountRecord

	v, ok, err := s.get(key(prefixAccount, addr.BytesBE()))
	if err != nil || !ok {
		return a, err
	}

	if err = decodeRecord(v, &a); err != nil {
		return a, fmt.Errorf("decode account %s: %w", addr.StringLE(), err)
	}
	return a, nil
}

func (s *stateView) putAccount(addr util.Uint160, a accountRecord) error {
	s.touched[addr] = struct{}{}

	k := key(prefixAccount, addr.BytesBE())
	if a.closed() {
		s.st.Delete(k)
		return nil
	}

	v, err := encodeRecord(&a)
	if err != nil {
		return fmt.Errorf("encode account %s: %w", addr.StringLE(), err)
	}
	s.st.Put(k, v)
	return nil
}

// updateAccount applies f to the stored account.
func (s *stateView) updateAccount(addr util.Uint160, f func(*accountRecord) error) error {
	a, err := s.account(addr)
	if err != nil {
		return err
	}
	if err = f(&a); err != nil {
		return err
	}
	return s.putAccount(addr, a)
}

// Balance implements Reader.
func (s *stateView) Balance(addr util.Uint160) (uint64, error) {
	a, err := s.account(addr)
	return a.Balance, err
}

func (s *stateView) minBalance(addr util.Uint160) (uint64, error) {
	a, err := s.account(addr)
	if err != nil {
		return 0, err
	}
	return s.params.floor(a), nil
}

func (s *stateView) holding(addr util.Uint160, asset AssetID) (uint64, bool, error) {
	return s.getUint64(key(prefixHolding, addr.BytesBE(), asset.Bytes()))
}

func (s *stateView) putHolding(addr util.Uint160, asset AssetID, amount uint64) {
	s.st.Put(key(prefixHolding, addr.BytesBE(), asset.Bytes()), uint64Bytes(amount))
}

func (s *stateView) deleteHolding(addr util.Uint160, asset AssetID) {
	s.st.Delete(key(prefixHolding, addr.BytesBE(), asset.Bytes()))
}

func (s *stateView) asset(id AssetID) (assetRecord, bool, error) {
	var a assetRecord

	v, ok, err := s.get(key(prefixAsset, id.Bytes()))
	if err != nil || !ok {
		return a, ok, err
	}

	if err = decodeRecord(v, &a); err != nil {
		return a, false, fmt.Errorf("decode asset %d: %w", id, err)
	}
	return a, true, nil
}

func (s *stateView) putAsset(id AssetID, a assetRecord) error {
	v, err := encodeRecord(&a)
	if err != nil {
		return fmt.Errorf("encode asset %d: %w", id, err)
	}
	s.st.Put(key(prefixAsset, id.Bytes()), v)
	return nil
}

func (s *stateView) app(id AppID) (appRecord, bool, error) {
	var a appRecord

	v, ok, err := s.get(key(prefixApp, id.Bytes()))
	if err != nil || !ok {
		return a, ok, err
	}

	if err = decodeRecord(v, &a); err != nil {
		return a, false, fmt.Errorf("decode application %d: %w", id, err)
	}
	return a, true, nil
}

// AppExists implements Reader.
func (s *stateView) AppExists(id AppID) (bool, error) {
	_, ok, err := s.get(key(prefixApp, id.Bytes()))
	return ok, err
}

func (s *stateView) putApp(id AppID, a appRecord) error {
	v, err := encodeRecord(&a)
	if err != nil {
		return fmt.Errorf("encode application %d: %w", id, err)
	}
	s.st.Put(key(prefixApp, id.Bytes()), v)
	return nil
}

// deleteApp removes application record with all its global values.
func (s *stateView) deleteApp(id AppID) {
	var (
		prefix = key(prefixGlobal, id.Bytes())
		keys   [][]byte
	)

	s.seek(prefix, func(k, _ []byte) bool {
		keys = append(keys, k)
		return true
	})

	for i := range keys {
		s.st.Delete(append(bytes.Clone(prefix), keys[i]...))
	}
	s.st.Delete(key(prefixApp, id.Bytes()))
}

func (s *stateView) global(id AppID, name string) (stackitem.Item, error) {
	v, ok, err := s.get(key(prefixGlobal, id.Bytes(), []byte(name)))
	if err != nil || !ok {
		return nil, err
	}

	item, err := stackitem.Deserialize(v)
	if err != nil {
		return nil, fmt.Errorf("decode global '%s' of application %d: %w", name, id, err)
	}
	return item, nil
}

func (s *stateView) putGlobal(id AppID, name string, item stackitem.Item) error {
	v, err := stackitem.Serialize(item)
	if err != nil {
		return fmt.Errorf("encode global '%s' of application %d: %w", name, id, err)
	}
	s.st.Put(key(prefixGlobal, id.Bytes(), []byte(name)), v)
	return nil
}

func (s *stateView) globals(id AppID) (map[string]stackitem.Item, error) {
	var (
		res  = make(map[string]stackitem.Item)
		gErr error
	)

	s.seek(key(prefixGlobal, id.Bytes()), func(k, v []byte) bool {
		item, err := stackitem.Deserialize(v)
		if err != nil {
			gErr = fmt.Errorf("decode global '%s' of application %d: %w", k, id, err)
			return false
		}
		res[string(k)] = item
		return true
	})

	return res, gErr
}

func (s *stateView) box(id AppID, name []byte) ([]byte, bool, error) {
	return s.get(key(prefixBox, id.Bytes(), name))
}

func (s *stateView) putBox(id AppID, name, value []byte) {
	s.st.Put(key(prefixBox, id.Bytes(), name), value)
}

func (s *stateView) deleteBox(id AppID, name []byte) {
	s.st.Delete(key(prefixBox, id.Bytes(), name))
}

func (s *stateView) boxes(id AppID, f func(name, value []byte) bool) {
	s.seek(key(prefixBox, id.Bytes()), f)
}

// nextID allocates identifier shared by assets and applications.
func (s *stateView) nextID() (uint64, error) {
	n, _, err := s.getUint64([]byte{keyCounter})
	if err != nil {
		return 0, err
	}

	n++
	s.st.Put([]byte{keyCounter}, uint64Bytes(n))
	return n, nil
}

func (s *stateView) round() (uint64, error) {
	n, _, err := s.getUint64([]byte{keyRound})
	return n, err
}

func (s *stateView) setRound(n uint64) {
	s.st.Put([]byte{keyRound}, uint64Bytes(n))
}
