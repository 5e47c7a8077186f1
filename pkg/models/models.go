package models

import (
	"time"
)

// ExpenseStatus defines the possible states of an expense.
type ExpenseStatus string

const (
	DRAFT     ExpenseStatus = "draft"
	CONFIRMED ExpenseStatus = "confirmed"
	REVERSED  ExpenseStatus = "reversed"
)

// Split is one participant's share of an expense, in minor units.
type Split struct {
	UserID      string `json:"user_id" dynamodbav:"user_id"`
	ShareAmount int64  `json:"share_amount" dynamodbav:"share_amount"`
}

// Expense represents the internal domain model for a shared expense.
// It includes dynamodbav tags for marshalling.
type Expense struct {
	ID          string        `dynamodbav:"id"`
	GroupID     string        `dynamodbav:"group_id"`
	PayerUserID string        `dynamodbav:"payer_user_id"`
	TotalAmount int64         `dynamodbav:"total_amount"`
	Currency    string        `dynamodbav:"currency"`
	Category    string        `dynamodbav:"category"`
	Description string        `dynamodbav:"description"`
	Status      ExpenseStatus `dynamodbav:"status"`
	Splits      []Split       `dynamodbav:"splits"`
	Version     int64         `dynamodbav:"version"`
	CreatedAt   time.Time     `dynamodbav:"created_at"`
	ConfirmedAt *time.Time    `dynamodbav:"confirmed_at,omitempty"`
	ReversedAt  *time.Time    `dynamodbav:"reversed_at,omitempty"`
}

// PayerShare returns the share the payer assigned to themselves, zero when the
// payer is not a split participant.
func (e *Expense) PayerShare() int64 {
	for _, s := range e.Splits {
		if s.UserID == e.PayerUserID {
			return s.ShareAmount
		}
	}
	return 0
}

// Clone returns a deep copy so callers can stage a transition without
// touching a stored record.
func (e *Expense) Clone() *Expense {
	c := *e
	c.Splits = append([]Split(nil), e.Splits...)
	if e.ConfirmedAt != nil {
		t := *e.ConfirmedAt
		c.ConfirmedAt = &t
	}
	if e.ReversedAt != nil {
		t := *e.ReversedAt
		c.ReversedAt = &t
	}
	return &c
}

// LedgerEntry is an immutable record of one user owing another.
type LedgerEntry struct {
	EntryID           string    `dynamodbav:"entry_id"`
	ExpenseID         string    `dynamodbav:"expense_id"`
	GroupID           string    `dynamodbav:"group_id"`
	DebtorUserID      string    `dynamodbav:"debtor_user_id"`
	CreditorUserID    string    `dynamodbav:"creditor_user_id"`
	Amount            int64     `dynamodbav:"amount"`
	CreatedAt         time.Time `dynamodbav:"created_at"`
	ReversalOfEntryID *string   `dynamodbav:"reversal_of_entry_id,omitempty"`
	// Seq is the sort key that preserves insertion order within a group.
	Seq string `dynamodbav:"seq"`
}

// IsReversal reports whether the entry mirrors an earlier one.
func (l LedgerEntry) IsReversal() bool {
	return l.ReversalOfEntryID != nil
}

// BalancePair is the cached net amount between two users of a group.
// UserA sorts before UserB; a positive NetAmount means UserA owes UserB.
type BalancePair struct {
	GroupID   string `json:"group_id" dynamodbav:"group_id"`
	UserA     string `json:"user_a" dynamodbav:"user_a"`
	UserB     string `json:"user_b" dynamodbav:"user_b"`
	NetAmount int64  `json:"net_amount" dynamodbav:"net_amount"`
}

// Counterparty is one line of a user's balance view.
type Counterparty struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// UserBalance splits a user's non-zero balances by direction.
type UserBalance struct {
	UserID string         `json:"user_id"`
	Owes   []Counterparty `json:"owes"`
	Owed   []Counterparty `json:"owed"`
}

// Transfer is a single settlement instruction.
type Transfer struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     int64  `json:"amount"`
}
