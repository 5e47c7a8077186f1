package notify

import (
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of a notification.
type EventType string

const (
	// EventExpenseConfirmed is sent once an expense's entries are committed.
	EventExpenseConfirmed EventType = "expenseConfirmed"
	// EventExpenseReversed is sent once an expense's mirror entries are committed.
	EventExpenseReversed EventType = "expenseReversed"
)

// Event is a post-commit notification about one expense.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	ExpenseID    string    `json:"expense_id"`
	GroupID      string    `json:"group_id"`
	Version      int64     `json:"version"`
	Participants []string  `json:"participants"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(eventType EventType, expenseID, groupID string, version int64, participants []string) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		ExpenseID:    expenseID,
		GroupID:      groupID,
		Version:      version,
		Participants: participants,
		OccurredAt:   time.Now(),
	}
}
