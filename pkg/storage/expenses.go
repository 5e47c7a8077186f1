package storage

import (
	"context"

	"github.com/chris/split-ledger/pkg/models"
)

// ExpenseReader defines the interface for reading expenses.
type ExpenseReader interface {
	// GetExpense retrieves an expense by its ID. Returns ErrNotFound when missing.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves every expense of a group, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error)

	// ListGroups returns the ID of every group that has at least one expense.
	ListGroups(ctx context.Context) ([]string, error)
}

// ExpenseManager defines the interface for creating and editing draft expenses.
type ExpenseManager interface {
	// CreateExpense stores a new draft. Returns ErrAlreadyExists on an ID clash.
	CreateExpense(ctx context.Context, exp *models.Expense) (*models.Expense, error)

	// UpdateDraft replaces a draft if its stored version equals expectedVersion.
	// exp carries the new state, including the incremented version.
	UpdateDraft(ctx context.Context, exp *models.Expense, expectedVersion int64) (*models.Expense, error)
}

// ExpenseStore combines the reader and manager interfaces.
type ExpenseStore interface {
	ExpenseReader
	ExpenseManager
}
