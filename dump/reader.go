package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// IterateDumps iterates over all dumps collected by the Creator model in
// the specified directory, and passes ID and Reader of each dump into f.
func IterateDumps(dir string, f func(ID, *Reader)) error {
	var id ID
	var streams dumpStreams

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		}

		if e != nil {
			return e
		}

		if d.IsDir() {
			return nil
		}

		name := d.Name()

		if !strings.HasSuffix(name, statesFileSuffix) {
			return nil
		}

		err := id.decodeString(name)
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", name, err)
		}

		err = initDumpStreams(&streams, filepath.Dir(path), id, true)
		if err != nil {
			return fmt.Errorf("init dump streams ('%s'): %w", name, err)
		}

		var r Reader

		err = r.fromDumpStreams(streams.apps, streams.boxes)
		streams.close()
		if err != nil {
			return fmt.Errorf("init dump reader ('%s'): %w", name, err)
		}

		f(id, &r)

		return nil
	})
}

type kv struct{ k, v []byte }

// Reader reads applications collected in the superior dump.
type Reader struct {
	states []AppState
	boxes  map[ledger.AppID][]kv
}

func (x *Reader) fromDumpStreams(rApps, rBoxes io.Reader) error {
	var raw []dumpAppState

	err := json.NewDecoder(rApps).Decode(&raw)
	if err != nil {
		return fmt.Errorf("decode application states from JSON: %w", err)
	}

	x.states = make([]AppState, 0, len(raw))

	for i := range raw {
		st, err := raw[i].decode()
		if err != nil {
			return fmt.Errorf("decode application %d: %w", raw[i].ID, err)
		}
		x.states = append(x.states, st)
	}

	var rec []string

	_csv := csv.NewReader(rBoxes)
	_csv.FieldsPerRecord = 3
	_csv.ReuseRecord = true

	x.boxes = make(map[ledger.AppID][]kv)

	for {
		rec, err = _csv.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		// out-of-range safety guaranteed by csv settings
		id, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			return fmt.Errorf("decode application ID: %w", err)
		}

		var _kv kv

		_kv.k, err = base58.Decode(rec[1])
		if err != nil {
			return fmt.Errorf("decode box name: %w", err)
		}

		_kv.v, err = _encoding.DecodeString(rec[2])
		if err != nil {
			return fmt.Errorf("decode box value: %w", err)
		}

		x.boxes[ledger.AppID(id)] = append(x.boxes[ledger.AppID(id)], _kv)
	}
}

func (x dumpAppState) decode() (AppState, error) {
	creator, err := address.StringToUint160(x.Creator)
	if err != nil {
		return AppState{}, fmt.Errorf("decode creator: %w", err)
	}

	id := ledger.AppID(x.ID)

	st := AppState{
		Info: ledger.AppInfo{
			ID:      id,
			Program: x.Program,
			Creator: creator,
			Address: ledger.AppAddress(id),
			Schema:  ledger.Schema{NumUint: x.Uints, NumByteSlice: x.Bytes},
		},
		Globals: make(map[string]stackitem.Item, len(x.Globals)),
	}

	for k, v := range x.Globals {
		st.Globals[k], err = stackitem.FromJSONWithTypes(v)
		if err != nil {
			return AppState{}, fmt.Errorf("decode global '%s': %w", k, err)
		}
	}

	return st, nil
}

// IterateApps iterates over all applications from the superior dump and
// passes their states into f.
func (x *Reader) IterateApps(f func(AppState)) {
	for i := range x.states {
		f(x.states[i])
	}
}

// IterateBoxes iterates over all boxes of the given application from the
// superior dump and passes them into f.
func (x *Reader) IterateBoxes(id ledger.AppID, f func(name, value []byte)) {
	for _, b := range x.boxes[id] {
		f(b.k, b.v)
	}
}
