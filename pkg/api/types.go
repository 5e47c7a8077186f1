// Package api holds the HTTP request and response models and the router
// binding for the split-ledger service.
package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ExpenseStatus defines model for Expense.Status.
type ExpenseStatus string

// Defines values for ExpenseStatus.
const (
	Draft     ExpenseStatus = "draft"
	Confirmed ExpenseStatus = "confirmed"
	Reversed  ExpenseStatus = "reversed"
)

// Split defines model for Split.
type Split struct {
	UserId      string `json:"user_id" validate:"required"`
	ShareAmount int64  `json:"share_amount" validate:"gte=0"`
}

// NewExpense is the body of POST /expenses. Either Splits or Participants is
// given; Participants asks for an even split of TotalAmount.
type NewExpense struct {
	GroupId      string   `json:"group_id" validate:"required"`
	PayerUserId  string   `json:"payer_user_id" validate:"required"`
	TotalAmount  int64    `json:"total_amount" validate:"gt=0"`
	Currency     string   `json:"currency" validate:"required,len=3"`
	Category     string   `json:"category,omitempty" validate:"max=64"`
	Description  string   `json:"description,omitempty" validate:"max=512"`
	Splits       []Split  `json:"splits,omitempty" validate:"omitempty,dive"`
	Participants []string `json:"participants,omitempty" validate:"omitempty,dive,required"`
}

// Validate checks the request shape. Amount rules are enforced again by the core.
func (n *NewExpense) Validate() error {
	if err := validate.Struct(n); err != nil {
		return err
	}
	if (len(n.Splits) == 0) == (len(n.Participants) == 0) {
		return errors.New("exactly one of splits or participants is required")
	}
	return nil
}

// UpdateExpense is the body of PUT /expenses/{expenseId}.
type UpdateExpense struct {
	ExpectedVersion *int64  `json:"expected_version" validate:"required,gte=0"`
	PayerUserId     string  `json:"payer_user_id" validate:"required"`
	TotalAmount     int64   `json:"total_amount" validate:"gt=0"`
	Currency        string  `json:"currency" validate:"required,len=3"`
	Category        string  `json:"category,omitempty" validate:"max=64"`
	Description     string  `json:"description,omitempty" validate:"max=512"`
	Splits          []Split `json:"splits" validate:"required,dive"`
}

// Validate checks the request shape.
func (u *UpdateExpense) Validate() error {
	return validate.Struct(u)
}

// TransitionRequest is the body of the confirm and reverse endpoints.
type TransitionRequest struct {
	ExpectedVersion *int64 `json:"expected_version" validate:"required,gte=0"`
}

// Validate checks the request shape.
func (t *TransitionRequest) Validate() error {
	return validate.Struct(t)
}

// Expense defines model for Expense.
type Expense struct {
	Id           string        `json:"id"`
	GroupId      string        `json:"group_id"`
	PayerUserId  string        `json:"payer_user_id"`
	TotalAmount  int64         `json:"total_amount"`
	TotalDisplay string        `json:"total_display"`
	Currency     string        `json:"currency"`
	Category     string        `json:"category,omitempty"`
	Description  string        `json:"description,omitempty"`
	Status       ExpenseStatus `json:"status"`
	Splits       []Split       `json:"splits"`
	Version      int64         `json:"version"`
	CreatedAt    time.Time     `json:"created_at"`
	ConfirmedAt  *time.Time    `json:"confirmed_at,omitempty"`
	ReversedAt   *time.Time    `json:"reversed_at,omitempty"`
}

// LedgerEntry defines model for LedgerEntry.
type LedgerEntry struct {
	EntryId           string    `json:"entry_id"`
	ExpenseId         string    `json:"expense_id"`
	GroupId           string    `json:"group_id"`
	DebtorUserId      string    `json:"debtor_user_id"`
	CreditorUserId    string    `json:"creditor_user_id"`
	Amount            int64     `json:"amount"`
	CreatedAt         time.Time `json:"created_at"`
	ReversalOfEntryId *string   `json:"reversal_of_entry_id,omitempty"`
}

// Counterparty defines model for Counterparty.
type Counterparty struct {
	UserId string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// UserBalance defines model for UserBalance.
type UserBalance struct {
	UserId string         `json:"user_id"`
	Owes   []Counterparty `json:"owes"`
	Owed   []Counterparty `json:"owed"`
}

// Transfer defines model for Transfer.
type Transfer struct {
	FromUserId string `json:"from_user_id"`
	ToUserId   string `json:"to_user_id"`
	Amount     int64  `json:"amount"`
}

// SettlementPlan defines model for SettlementPlan.
type SettlementPlan struct {
	GroupId   string     `json:"group_id"`
	Transfers []Transfer `json:"transfers"`
}

// BalancePair defines model for BalancePair.
type BalancePair struct {
	UserA     string `json:"user_a"`
	UserB     string `json:"user_b"`
	NetAmount int64  `json:"net_amount"`
}

// RecomputeResult defines model for RecomputeResult.
type RecomputeResult struct {
	GroupId    string        `json:"group_id"`
	Consistent bool          `json:"consistent"`
	Drifted    int           `json:"drifted_pairs"`
	Pairs      []BalancePair `json:"pairs"`
}

// Error defines model for Error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
