// Package expenses owns the expense lifecycle: validation of drafts, the
// draft -> confirmed -> reversed state machine, and the Service that commits
// each transition together with its ledger entries.
package expenses

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/money"
	"github.com/chris/split-ledger/pkg/storage"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState is matched by every StateError.
	ErrInvalidState = errors.New("invalid state transition")
)

// ValidationError rejects an expense before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StateError rejects a transition the state machine does not allow.
type StateError struct {
	ExpenseID string
	From      models.ExpenseStatus
	To        models.ExpenseStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("expense %s cannot move from %s to %s", e.ExpenseID, e.From, e.To)
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// ConflictError reports a stale expectedVersion. The caller should re-read
// the expense and retry.
type ConflictError struct {
	ExpenseID string
	Expected  int64
	Actual    int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("expense %s is at version %d, expected %d", e.ExpenseID, e.Actual, e.Expected)
}

func (e *ConflictError) Is(target error) bool {
	return target == storage.ErrVersionConflict
}

var transitions = map[models.ExpenseStatus]models.ExpenseStatus{
	models.DRAFT:     models.CONFIRMED,
	models.CONFIRMED: models.REVERSED,
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to models.ExpenseStatus) bool {
	next, ok := transitions[from]
	return ok && next == to
}

// alreadyApplied reports whether a transition to target issued against
// expectedVersion has already been committed. The call it was issued for
// produced stored.Version == expectedVersion+1; a client that re-read before
// retrying sends stored.Version itself.
func alreadyApplied(stored *models.Expense, target models.ExpenseStatus, expectedVersion int64) bool {
	if stored.Status != target {
		return false
	}
	return expectedVersion == stored.Version || expectedVersion == stored.Version-1
}

// NewExpense is the input of a draft submission.
type NewExpense struct {
	PayerUserID string
	GroupID     string
	TotalAmount int64
	Currency    string
	Splits      []models.Split
	Category    string
	Description string
}

// EqualExpense is a draft whose total is divided evenly across participants.
type EqualExpense struct {
	PayerUserID  string
	GroupID      string
	TotalAmount  int64
	Currency     string
	Participants []string
	Category     string
	Description  string
}

// Validate checks a draft submission. Shares must sum to the total exactly;
// a mismatch is rejected, never rescaled.
func Validate(in NewExpense) error {
	if strings.TrimSpace(in.GroupID) == "" {
		return &ValidationError{Field: "group_id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.PayerUserID) == "" {
		return &ValidationError{Field: "payer_user_id", Reason: "must not be empty"}
	}
	if in.TotalAmount <= 0 {
		return &ValidationError{Field: "total_amount", Reason: fmt.Sprintf("must be positive, got %d", in.TotalAmount)}
	}
	if _, err := money.NormalizeCurrency(in.Currency); err != nil {
		return &ValidationError{Field: "currency", Reason: err.Error()}
	}
	if len(in.Splits) == 0 {
		return &ValidationError{Field: "splits", Reason: "must not be empty"}
	}

	seen := make(map[string]struct{}, len(in.Splits))
	for i, s := range in.Splits {
		if strings.TrimSpace(s.UserID) == "" {
			return &ValidationError{Field: fmt.Sprintf("splits[%d].user_id", i), Reason: "must not be empty"}
		}
		if s.ShareAmount < 0 {
			return &ValidationError{Field: fmt.Sprintf("splits[%d].share_amount", i), Reason: fmt.Sprintf("must not be negative, got %d", s.ShareAmount)}
		}
		if _, dup := seen[s.UserID]; dup {
			return &ValidationError{Field: "splits", Reason: fmt.Sprintf("user %s appears more than once", s.UserID)}
		}
		seen[s.UserID] = struct{}{}
	}

	sum, err := money.Sum(in.Splits)
	if err != nil {
		return &ValidationError{Field: "splits", Reason: err.Error()}
	}
	if sum != in.TotalAmount {
		return &ValidationError{Field: "splits", Reason: fmt.Sprintf("shares sum to %d, total is %d", sum, in.TotalAmount)}
	}
	return nil
}
