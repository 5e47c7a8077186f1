package storage

import (
	"context"

	"github.com/chris/split-ledger/pkg/models"
)

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// ListEntriesByExpense retrieves the entries of one expense of the group in
	// insertion order. The read must observe every committed transition, since
	// a reversal mirrors exactly what it returns.
	ListEntriesByExpense(ctx context.Context, groupID, expenseID string) ([]models.LedgerEntry, error)

	// ListEntriesByGroup retrieves every entry of a group in insertion order.
	ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error)
}

// PostingStore defines the privileged interface for committing an expense transition.
// The commit is atomic across expenses, ledger entries and balance pairs:
// either the new expense state, every entry and every pair delta are written,
// or nothing is.
type PostingStore interface {
	// CommitTransition writes exp (already carrying its new status and version)
	// if the stored version equals expectedVersion, appends entries, and applies
	// each entry to its balance pair. Returns ErrVersionConflict on mismatch.
	CommitTransition(ctx context.Context, exp *models.Expense, expectedVersion int64, entries []models.LedgerEntry) error
}
