package vault

import (
	"fmt"

	"github.com/nspcc-dev/escrow-contract/common"
	"github.com/nspcc-dev/escrow-contract/contracts/master/masterconst"
	"github.com/nspcc-dev/escrow-contract/ledger"
)

// deletionIntent requires the terminal claim to be followed by the vault
// deletion through its Master.
type deletionIntent struct {
	vault  ledger.AppID
	master ledger.AppID
}

// Match implements ledger.Companion.
func (d deletionIntent) Match(next *ledger.Transaction) error {
	if next == nil {
		return fmt.Errorf("%w: group ends after the terminal claim of vault %d", common.ErrMissingDeletionCompanion, d.vault)
	}

	if next.Type != ledger.AppCallTx ||
		next.ApplicationID != d.master ||
		next.OnCompletion != ledger.NoOp ||
		next.Method != masterconst.DeleteVaultMethod {
		return fmt.Errorf("%w: %s transaction follows the terminal claim of vault %d",
			common.ErrMissingDeletionCompanion, next.Type, d.vault)
	}

	if common.CheckArgCount(next.Args, 3) != nil {
		return fmt.Errorf("%w: malformed deletion call follows the terminal claim of vault %d",
			common.ErrMissingDeletionCompanion, d.vault)
	}

	id, err := common.AppArg(next.Args, 1)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrMissingDeletionCompanion, err)
	}

	if id != d.vault {
		return fmt.Errorf("%w: deletion of vault %d follows the terminal claim of vault %d",
			common.ErrMissingDeletionCompanion, id, d.vault)
	}

	return nil
}

// Verify implements ledger.Companion.
func (d deletionIntent) Verify(r ledger.Reader) error {
	ok, err := r.AppExists(d.vault)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: vault %d is still alive", common.ErrMissingDeletionCompanion, d.vault)
	}
	return nil
}
