package ledger

import "errors"

var (
	// ErrMalformedTransaction is returned for transactions with inconsistent fields.
	ErrMalformedTransaction = errors.New("malformed transaction")
	// ErrEmptyGroup is returned when there is nothing to execute.
	ErrEmptyGroup = errors.New("empty transaction group")
	// ErrGroupTooLarge is returned when the group exceeds Params.MaxGroupSize.
	ErrGroupTooLarge = errors.New("transaction group is too large")
	// ErrTooManyInner is returned when a top-level transaction issues more than
	// Params.MaxInnerTransactions inner transactions.
	ErrTooManyInner = errors.New("too many inner transactions")
	// ErrCallDepth is returned when application calls are nested deeper than
	// Params.MaxCallDepth.
	ErrCallDepth = errors.New("application call depth exceeded")

	// ErrInsufficientBalance is returned on native balance overspending.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrBelowMinBalance is returned when an account ends the group under its
	// balance floor.
	ErrBelowMinBalance = errors.New("balance below minimum")
	// ErrCloseWithHoldings is returned on closing an account which still holds
	// assets, applications or boxes.
	ErrCloseWithHoldings = errors.New("account can not be closed")

	// ErrNoSuchAsset is returned for unknown assets.
	ErrNoSuchAsset = errors.New("asset does not exist")
	// ErrNotOptedIn is returned when an account has no holding of the asset.
	ErrNotOptedIn = errors.New("account is not opted in")
	// ErrInsufficientAsset is returned on asset overspending.
	ErrInsufficientAsset = errors.New("insufficient asset balance")
	// ErrCreatorCloseOut is returned when the asset creator tries to close its
	// holding.
	ErrCreatorCloseOut = errors.New("asset creator can not close out")

	// ErrUnknownProgram is returned for creation calls of unregistered programs.
	ErrUnknownProgram = errors.New("unknown program")
	// ErrNoSuchApp is returned for calls of missing applications.
	ErrNoSuchApp = errors.New("application does not exist")
	// ErrSchemaViolation is returned when global state does not fit the
	// declared schema.
	ErrSchemaViolation = errors.New("global state schema violation")
	// ErrAppHasBoxes is returned on deletion of an application with boxes.
	ErrAppHasBoxes = errors.New("application has boxes")

	// ErrBoxExists is returned on creation of an existing box with a
	// different size.
	ErrBoxExists = errors.New("box exists with a different size")
	// ErrNoSuchBox is returned on writes into missing boxes.
	ErrNoSuchBox = errors.New("box does not exist")
	// ErrBoxSize is returned for invalid box sizes and mismatched values.
	ErrBoxSize = errors.New("invalid box size")

	// ErrNoTxnArgument is returned when a method expects a transaction
	// argument but there is no preceding transaction in the group.
	ErrNoTxnArgument = errors.New("no transaction argument")
	// ErrCompanionPending is returned when an application registers the second
	// companion requirement before the first one is resolved.
	ErrCompanionPending = errors.New("companion requirement is already pending")
)
