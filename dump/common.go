package dump

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// ID is a unique identifier of the dump prepared according to the model
// described in the current package.
type ID struct {
	// Label of the dump source (e.g. simnet).
	Label string
	// Ledger round at which the state was pulled.
	Round uint64
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(x.Round, 10)
}

// decodes ID fields from the hyphen-separated string.
func (x *ID) decodeString(s string) error {
	ss := strings.Split(s, sep)
	if len(ss) < 2 {
		return fmt.Errorf("expected '%s'-separated string with at least 2 items", sep)
	}

	n, err := strconv.ParseUint(ss[1], 10, 64)
	if err != nil {
		return fmt.Errorf("decode round number from '%s': %w", ss[1], err)
	}

	x.Label = ss[0]
	x.Round = n

	return nil
}

// global encoding of binary box values. Box names are base58-encoded.
var _encoding = base64.StdEncoding

// AppState describes dumped application.
type AppState struct {
	Info    ledger.AppInfo
	Globals map[string]stackitem.Item
}

// dumpAppState is a JSON-encoded information about the dumped application.
// Globals are stack items serialized via neo-go JSON with types.
type dumpAppState struct {
	ID      uint64                     `json:"id"`
	Program string                     `json:"program"`
	Creator string                     `json:"creator"`
	Uints   uint64                     `json:"uints"`
	Bytes   uint64                     `json:"bytes"`
	Globals map[string]json.RawMessage `json:"globals"`
}

// dumpStreams groups data streams for applications' states and boxes.
type dumpStreams struct {
	apps, boxes io.ReadWriteCloser
}

// close closes all streams.
func (x *dumpStreams) close() {
	_ = x.boxes.Close()
	_ = x.apps.Close()
}

const (
	// word separator used in dump file naming
	sep = "-"
	// suffix of file with applications' states
	statesFileSuffix = "apps.json"
	// suffix of file with applications' boxes
	boxesFileSuffix = "boxes.csv"
)

func dumpPath(dir string, id ID, suffix string) string {
	return filepath.Join(dir, strings.Join([]string{id.String(), suffix}, sep))
}

// initDumpStreams opens data streams for the dump files located in the
// specified directory. If read flag is set, streams are read-only. Otherwise,
// files must not exist, and streams are write only.
func initDumpStreams(d *dumpStreams, dir string, id ID, read bool) error {
	var err error

	pathBoxes := dumpPath(dir, id, boxesFileSuffix)
	pathApps := dumpPath(dir, id, statesFileSuffix)

	if !read {
		if err = checkFileNotExists(pathBoxes); err != nil {
			return err
		}
		if err = checkFileNotExists(pathApps); err != nil {
			return err
		}
	}

	var flag int
	var perm os.FileMode

	if read {
		flag = os.O_RDONLY
	} else {
		flag = os.O_CREATE | os.O_WRONLY
		perm = 0600
	}

	d.boxes, err = os.OpenFile(pathBoxes, flag, perm)
	if err != nil {
		return fmt.Errorf("open file with boxes: %w", err)
	}

	d.apps, err = os.OpenFile(pathApps, flag, perm)
	if err != nil {
		_ = d.boxes.Close()
		return fmt.Errorf("open file with application states: %w", err)
	}

	return nil
}
