package ledger

import (
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// accountRecord is a stored account state. Counters define the balance
// floor, see Params.floor.
type accountRecord struct {
	Balance     uint64
	Holdings    uint64
	CreatedApps uint64
	SchemaUints uint64
	SchemaBytes uint64
	Boxes       uint64
	BoxBytes    uint64
}

// closed checks whether the account has nothing and may be removed.
func (a accountRecord) closed() bool {
	return a == accountRecord{}
}

// hasResources checks whether the account holds anything besides balance.
func (a accountRecord) hasResources() bool {
	return a.Holdings != 0 || a.CreatedApps != 0 || a.Boxes != 0
}

// EncodeBinary implements io.Serializable.
func (a *accountRecord) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(a.Balance)
	w.WriteU64LE(a.Holdings)
	w.WriteU64LE(a.CreatedApps)
	w.WriteU64LE(a.SchemaUints)
	w.WriteU64LE(a.SchemaBytes)
	w.WriteU64LE(a.Boxes)
	w.WriteU64LE(a.BoxBytes)
}

// DecodeBinary implements io.Serializable.
func (a *accountRecord) DecodeBinary(r *io.BinReader) {
	a.Balance = r.ReadU64LE()
	a.Holdings = r.ReadU64LE()
	a.CreatedApps = r.ReadU64LE()
	a.SchemaUints = r.ReadU64LE()
	a.SchemaBytes = r.ReadU64LE()
	a.Boxes = r.ReadU64LE()
	a.BoxBytes = r.ReadU64LE()
}

// appRecord is a stored application state.
type appRecord struct {
	Program string
	Creator util.Uint160
	Schema  Schema
	// Global values currently in use.
	UsedUints uint64
	UsedBytes uint64
}

// EncodeBinary implements io.Serializable.
func (a *appRecord) EncodeBinary(w *io.BinWriter) {
	w.WriteString(a.Program)
	a.Creator.EncodeBinary(w)
	w.WriteU64LE(a.Schema.NumUint)
	w.WriteU64LE(a.Schema.NumByteSlice)
	w.WriteU64LE(a.UsedUints)
	w.WriteU64LE(a.UsedBytes)
}

// DecodeBinary implements io.Serializable.
func (a *appRecord) DecodeBinary(r *io.BinReader) {
	a.Program = r.ReadString()
	a.Creator.DecodeBinary(r)
	a.Schema.NumUint = r.ReadU64LE()
	a.Schema.NumByteSlice = r.ReadU64LE()
	a.UsedUints = r.ReadU64LE()
	a.UsedBytes = r.ReadU64LE()
}

// assetRecord is a stored asset state.
type assetRecord struct {
	Creator util.Uint160
	AssetParams
}

// EncodeBinary implements io.Serializable.
func (a *assetRecord) EncodeBinary(w *io.BinWriter) {
	a.Creator.EncodeBinary(w)
	w.WriteU64LE(a.Total)
	w.WriteB(a.Decimals)
	w.WriteString(a.UnitName)
	w.WriteString(a.Name)
}

// DecodeBinary implements io.Serializable.
func (a *assetRecord) DecodeBinary(r *io.BinReader) {
	a.Creator.DecodeBinary(r)
	a.Total = r.ReadU64LE()
	a.Decimals = r.ReadB()
	a.UnitName = r.ReadString()
	a.Name = r.ReadString()
}

func encodeRecord(v io.Serializable) ([]byte, error) {
	w := io.NewBufBinWriter()
	v.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

func decodeRecord(data []byte, v io.Serializable) error {
	r := io.NewBinReaderFromBuf(data)
	v.DecodeBinary(r)
	return r.Err
}
