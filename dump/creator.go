package dump

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Creator dumps states of the ledger applications. Box CSV records are
// 'id,name,value' where id stands for decimal application ID, name is
// base58-encoded and value is base64-encoded.
//
// Use IterateDumps to access existing dumps.
type Creator struct {
	dumpStreams

	apps []dumpAppState

	boxesCSV *csv.Writer
}

// NewCreator returns Creator which dumps applications into given directory.
// The dump is identified by specified ID. Resulting Creator should be closed
// when finished working with it.
//
// NewCreator fails if dump with provided ID already exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	var res Creator

	err := initDumpStreams(&res.dumpStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	res.boxesCSV = csv.NewWriter(res.dumpStreams.boxes)

	return &res, nil
}

// AddApp adds given application state to the resulting dump and returns
// BoxWriter for the application boxes. After all needed applications are
// added, they should be flushed via Flush method.
func (x *Creator) AddApp(st AppState) (*BoxWriter, error) {
	d := dumpAppState{
		ID:      uint64(st.Info.ID),
		Program: st.Info.Program,
		Creator: address.Uint160ToString(st.Info.Creator),
		Uints:   st.Info.Schema.NumUint,
		Bytes:   st.Info.Schema.NumByteSlice,
		Globals: make(map[string]json.RawMessage, len(st.Globals)),
	}

	for k, v := range st.Globals {
		b, err := stackitem.ToJSONWithTypes(v)
		if err != nil {
			return nil, fmt.Errorf("encode global '%s' of application %d: %w", k, d.ID, err)
		}
		d.Globals[k] = b
	}

	x.apps = append(x.apps, d)

	return &BoxWriter{
		id:  d.ID,
		csv: x.boxesCSV,
	}, nil
}

// Flush flushes accumulated dump to the file system.
func (x *Creator) Flush() error {
	jEnc := json.NewEncoder(x.dumpStreams.apps)
	jEnc.SetIndent("", " ")

	err := jEnc.Encode(x.apps)
	if err != nil {
		return fmt.Errorf("encode application states to JSON: %w", err)
	}

	x.boxesCSV.Flush()

	err = x.boxesCSV.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.close()
}

// BoxWriter writes data into the superior application's box dump.
type BoxWriter struct {
	id  uint64
	csv *csv.Writer
}

// Write saves given box into the application dump.
func (x *BoxWriter) Write(name, value []byte) error {
	err := x.csv.Write([]string{
		fmt.Sprint(x.id),
		base58.Encode(name),
		_encoding.EncodeToString(value),
	})
	if err != nil {
		return fmt.Errorf("write box as CSV data: %w", err)
	}

	return nil
}
