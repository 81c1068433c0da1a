package ledger

import (
	"encoding/binary"
	"strconv"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

type (
	// AppID identifies an application instance. Zero is reserved for the
	// application creation call.
	AppID uint64

	// AssetID identifies a fungible asset.
	AssetID uint64
)

// String implements fmt.Stringer.
func (id AppID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// String implements fmt.Stringer.
func (id AssetID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Bytes returns big-endian representation of the application ID.
func (id AppID) Bytes() []byte {
	return uint64Bytes(uint64(id))
}

// Bytes returns big-endian representation of the asset ID.
func (id AssetID) Bytes() []byte {
	return uint64Bytes(uint64(id))
}

// ZeroAddress is an unset account address. It is used as an empty
// close-out target.
var ZeroAddress util.Uint160

const appAddressDomain = "appID"

// AppAddress returns the account address controlled by the application.
func AppAddress(id AppID) util.Uint160 {
	return hash.Hash160(append([]byte(appAddressDomain), id.Bytes()...))
}

func uint64Bytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// TxType is a kind of transaction.
type TxType byte

const (
	// PaymentTx moves native balance.
	PaymentTx TxType = iota + 1
	// AssetTransferTx moves asset balance. A zero-amount transfer from the
	// account to itself opts the account into the asset.
	AssetTransferTx
	// AssetConfigTx creates a new asset.
	AssetConfigTx
	// AppCallTx calls (or creates) an application.
	AppCallTx
)

// String implements fmt.Stringer.
func (t TxType) String() string {
	switch t {
	case PaymentTx:
		return "pay"
	case AssetTransferTx:
		return "axfer"
	case AssetConfigTx:
		return "acfg"
	case AppCallTx:
		return "appl"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// OnCompletion is an action performed after the application call succeeds.
type OnCompletion byte

const (
	// NoOp leaves the application as is.
	NoOp OnCompletion = iota
	// DeleteApplication destroys the application after the call.
	DeleteApplication
)

// String implements fmt.Stringer.
func (c OnCompletion) String() string {
	switch c {
	case NoOp:
		return "NoOp"
	case DeleteApplication:
		return "DeleteApplication"
	default:
		return "unknown(" + strconv.Itoa(int(c)) + ")"
	}
}

// Schema declares how many global values of each type an application may
// hold. Creator's balance floor grows with the declared schema.
type Schema struct {
	NumUint      uint64
	NumByteSlice uint64
}
