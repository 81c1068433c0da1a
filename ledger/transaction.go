package ledger

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

type (
	// PaymentFields are used by PaymentTx.
	PaymentFields struct {
		Receiver util.Uint160
		Amount   uint64
		// If set, all the remaining sender balance is moved to this account
		// after the payment and the sender account is closed.
		CloseRemainderTo util.Uint160
	}

	// AssetTransferFields are used by AssetTransferTx.
	AssetTransferFields struct {
		XferAsset     AssetID
		AssetAmount   uint64
		AssetReceiver util.Uint160
		// If set, all the remaining sender holding is moved to this account
		// after the transfer and the holding is removed.
		AssetCloseTo util.Uint160
	}

	// AssetParams are used by AssetConfigTx.
	AssetParams struct {
		Total    uint64
		Decimals uint8
		UnitName string
		Name     string
	}

	// AppCallFields are used by AppCallTx.
	AppCallFields struct {
		// Zero for the creation call.
		ApplicationID AppID
		OnCompletion  OnCompletion
		// Name of the registered program, creation call only.
		Program string
		Method  string
		Args    []any
		// Accounts referenced by the call.
		Accounts []util.Uint160
	}
)

// Transaction is a single ledger operation. Only the fields matching Type are
// taken into account.
type Transaction struct {
	Type   TxType
	Sender util.Uint160
	Note   []byte

	PaymentFields
	AssetTransferFields
	AssetParams
	AppCallFields
}

// NewPayment returns a payment transaction.
func NewPayment(from, to util.Uint160, amount uint64) Transaction {
	return Transaction{
		Type:   PaymentTx,
		Sender: from,
		PaymentFields: PaymentFields{
			Receiver: to,
			Amount:   amount,
		},
	}
}

// NewAssetTransfer returns an asset transfer transaction.
func NewAssetTransfer(from, to util.Uint160, asset AssetID, amount uint64) Transaction {
	return Transaction{
		Type:   AssetTransferTx,
		Sender: from,
		AssetTransferFields: AssetTransferFields{
			XferAsset:     asset,
			AssetAmount:   amount,
			AssetReceiver: to,
		},
	}
}

// NewAssetOptIn returns a transaction opting the account into the asset.
func NewAssetOptIn(acc util.Uint160, asset AssetID) Transaction {
	return NewAssetTransfer(acc, acc, asset, 0)
}

// NewAppCall returns a NoOp call of the application method.
func NewAppCall(from util.Uint160, app AppID, method string, args ...any) Transaction {
	return Transaction{
		Type:   AppCallTx,
		Sender: from,
		AppCallFields: AppCallFields{
			ApplicationID: app,
			Method:        method,
			Args:          args,
		},
	}
}

// IsOptIn checks whether the transaction is an asset opt-in.
func (t *Transaction) IsOptIn() bool {
	return t.Type == AssetTransferTx &&
		t.AssetAmount == 0 &&
		t.AssetReceiver.Equals(t.Sender) &&
		t.AssetCloseTo.Equals(ZeroAddress)
}

// IsCreation checks whether the transaction creates an application.
func (t *Transaction) IsCreation() bool {
	return t.Type == AppCallTx && t.ApplicationID == 0
}

func (t *Transaction) validate() error {
	switch t.Type {
	case PaymentTx:
		if t.Receiver.Equals(ZeroAddress) && t.CloseRemainderTo.Equals(ZeroAddress) {
			return fmt.Errorf("%w: payment without receiver", ErrMalformedTransaction)
		}
		if !t.CloseRemainderTo.Equals(ZeroAddress) && t.CloseRemainderTo.Equals(t.Sender) {
			return fmt.Errorf("%w: sender closes to itself", ErrMalformedTransaction)
		}
	case AssetTransferTx:
		if t.XferAsset == 0 {
			return fmt.Errorf("%w: missing asset", ErrMalformedTransaction)
		}
		if !t.AssetCloseTo.Equals(ZeroAddress) && t.AssetCloseTo.Equals(t.Sender) {
			return fmt.Errorf("%w: sender closes out asset to itself", ErrMalformedTransaction)
		}
	case AssetConfigTx:
		if t.Total == 0 {
			return fmt.Errorf("%w: zero asset total", ErrMalformedTransaction)
		}
	case AppCallTx:
		if t.IsCreation() {
			if t.Program == "" {
				return fmt.Errorf("%w: creation without program", ErrMalformedTransaction)
			}
			if t.OnCompletion != NoOp {
				return fmt.Errorf("%w: creation with %s", ErrMalformedTransaction, t.OnCompletion)
			}
		}
		if t.OnCompletion > DeleteApplication {
			return fmt.Errorf("%w: on-completion %s", ErrMalformedTransaction, t.OnCompletion)
		}
	default:
		return fmt.Errorf("%w: type %s", ErrMalformedTransaction, t.Type)
	}
	return nil
}
