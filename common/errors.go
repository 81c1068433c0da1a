package common

import "errors"

// Contract errors. Any of them aborts the whole group.
var (
	// ErrDuplicateCustody is returned on opt-in to an asset already
	// custodied by the vault.
	ErrDuplicateCustody = errors.New("asset is already custodied")
	// ErrPaymentMismatch is returned when the floor payment has wrong
	// sender, receiver or type.
	ErrPaymentMismatch = errors.New("payment mismatch")
	// ErrMbrMismatch is returned when the floor payment amount differs from
	// the actual floor increase.
	ErrMbrMismatch = errors.New("balance floor payment mismatch")
	// ErrNoSuchCustody is returned when the asset is not custodied by the
	// vault.
	ErrNoSuchCustody = errors.New("asset is not custodied")
	// ErrFunderMismatch is returned when the passed funder differs from
	// the stored one.
	ErrFunderMismatch = errors.New("funder mismatch")
	// ErrIdentityMismatch is returned when the passed receiver or creator
	// differs from the vault's ones.
	ErrIdentityMismatch = errors.New("identity mismatch")
	// ErrUnauthorized is returned when the method is called by a wrong
	// account or application.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingDeletionCompanion is returned when the terminal claim is not
	// followed by the vault deletion.
	ErrMissingDeletionCompanion = errors.New("missing vault deletion call")
	// ErrNonZeroBalance is returned on vault deletion with funds left.
	ErrNonZeroBalance = errors.New("non-zero vault balance")
	// ErrVaultAlreadyExists is returned when the receiver already has a
	// vault.
	ErrVaultAlreadyExists = errors.New("vault already exists")
	// ErrNoSuchVault is returned when the receiver has no vault.
	ErrNoSuchVault = errors.New("vault not found")
	// ErrInvalidTransfer is returned when the asset transfer does not target
	// the receiver's vault.
	ErrInvalidTransfer = errors.New("invalid asset transfer")
	// ErrIdMismatch is returned when the passed vault differs from the
	// registered one.
	ErrIdMismatch = errors.New("vault id mismatch")
	// ErrCreatorMismatch is returned when the passed creator differs from the
	// vault's one.
	ErrCreatorMismatch = errors.New("creator mismatch")

	// ErrAlreadyInitialized is returned on repeated initialization.
	ErrAlreadyInitialized = errors.New("already initialized")
	// ErrUnknownMethod is returned on call of unsupported method or with
	// unsupported on-completion action.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrInvalidArgument is returned when method arguments have wrong number
	// or type.
	ErrInvalidArgument = errors.New("invalid argument")
)
