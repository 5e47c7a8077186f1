package expenses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/balances"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/money"
	"github.com/chris/split-ledger/pkg/notify"
	"github.com/chris/split-ledger/pkg/posting"
	"github.com/chris/split-ledger/pkg/settlement"
	"github.com/chris/split-ledger/pkg/storage"
	"github.com/google/uuid"
)

//go:generate mockery --name LedgerService --output ./mocks --outpkg mocks

// LedgerService is the set of core operations exposed to transports.
type LedgerService interface {
	CreateExpense(ctx context.Context, in NewExpense) (*models.Expense, error)
	CreateEqualExpense(ctx context.Context, in EqualExpense) (*models.Expense, error)
	UpdateDraft(ctx context.Context, expenseID string, expectedVersion int64, in NewExpense) (*models.Expense, error)
	ConfirmExpense(ctx context.Context, expenseID string, expectedVersion int64) (*models.Expense, error)
	ReverseExpense(ctx context.Context, expenseID string, expectedVersion int64) (*models.Expense, error)
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	ListGroupExpenses(ctx context.Context, groupID string) ([]models.Expense, error)
	ListExpenseEntries(ctx context.Context, expenseID string) ([]models.LedgerEntry, error)
	GetBalanceForUser(ctx context.Context, userID string) (*models.UserBalance, error)
	GetSettlementPlan(ctx context.Context, groupID string) ([]models.Transfer, error)
	RecomputeFromLedger(ctx context.Context, groupID string) (*audit.Report, error)
}

// Service implements LedgerService on top of a storage.Storage.
type Service struct {
	Store    storage.Storage
	Notifier notify.Notifier
	Auditor  *audit.Auditor
	Logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a Service. notifier may be nil.
func NewService(store storage.Storage, notifier notify.Notifier, auditor *audit.Auditor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NoOpNotifier{}
	}
	if auditor == nil {
		auditor = audit.New(store, nil, logger)
	}
	return &Service{
		Store:    store,
		Notifier: notifier,
		Auditor:  auditor,
		Logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Make sure we conform to the interface
var _ LedgerService = (*Service)(nil)

// CreateExpense validates a submission and stores it as a draft at version 0.
func (s *Service) CreateExpense(ctx context.Context, in NewExpense) (*models.Expense, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	currency, _ := money.NormalizeCurrency(in.Currency)

	exp := &models.Expense{
		ID:          s.newID(),
		GroupID:     in.GroupID,
		PayerUserID: in.PayerUserID,
		TotalAmount: in.TotalAmount,
		Currency:    currency,
		Category:    in.Category,
		Description: in.Description,
		Status:      models.DRAFT,
		Splits:      append([]models.Split(nil), in.Splits...),
		Version:     0,
		CreatedAt:   s.now(),
	}

	created, err := s.Store.CreateExpense(ctx, exp)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	s.Logger.Info("expense drafted", "expense_id", created.ID, "group_id", created.GroupID, "total_amount", created.TotalAmount)
	return created, nil
}

// CreateEqualExpense divides the total evenly across participants and drafts
// the result. Remainder units go to the payer first, then in list order.
func (s *Service) CreateEqualExpense(ctx context.Context, in EqualExpense) (*models.Expense, error) {
	if in.TotalAmount <= 0 {
		return nil, &ValidationError{Field: "total_amount", Reason: fmt.Sprintf("must be positive, got %d", in.TotalAmount)}
	}
	splits, err := money.Allocate(in.TotalAmount, in.Participants, in.PayerUserID)
	if err != nil {
		return nil, &ValidationError{Field: "participants", Reason: err.Error()}
	}
	return s.CreateExpense(ctx, NewExpense{
		PayerUserID: in.PayerUserID,
		GroupID:     in.GroupID,
		TotalAmount: in.TotalAmount,
		Currency:    in.Currency,
		Splits:      splits,
		Category:    in.Category,
		Description: in.Description,
	})
}

// UpdateDraft re-submits a still-draft expense. The group cannot change.
func (s *Service) UpdateDraft(ctx context.Context, expenseID string, expectedVersion int64, in NewExpense) (*models.Expense, error) {
	stored, err := s.Store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if stored.Status != models.DRAFT {
		return nil, &StateError{ExpenseID: expenseID, From: stored.Status, To: models.DRAFT}
	}
	if in.GroupID == "" {
		in.GroupID = stored.GroupID
	}
	if in.GroupID != stored.GroupID {
		return nil, &ValidationError{Field: "group_id", Reason: "cannot move a draft to another group"}
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	if stored.Version != expectedVersion {
		return nil, &ConflictError{ExpenseID: expenseID, Expected: expectedVersion, Actual: stored.Version}
	}

	next := stored.Clone()
	next.PayerUserID = in.PayerUserID
	next.TotalAmount = in.TotalAmount
	next.Currency, _ = money.NormalizeCurrency(in.Currency)
	next.Splits = append([]models.Split(nil), in.Splits...)
	next.Category = in.Category
	next.Description = in.Description
	next.Version = stored.Version + 1

	updated, err := s.Store.UpdateDraft(ctx, next, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return updated, nil
}

// ConfirmExpense moves a draft to confirmed and posts its ledger entries in
// the same commit. Repeating a confirm that already succeeded returns the
// stored expense without writing anything.
func (s *Service) ConfirmExpense(ctx context.Context, expenseID string, expectedVersion int64) (*models.Expense, error) {
	return s.transition(ctx, expenseID, expectedVersion, models.CONFIRMED)
}

// ReverseExpense moves a confirmed expense to reversed and posts one mirror
// entry per original entry. Idempotent in the same way as ConfirmExpense.
func (s *Service) ReverseExpense(ctx context.Context, expenseID string, expectedVersion int64) (*models.Expense, error) {
	return s.transition(ctx, expenseID, expectedVersion, models.REVERSED)
}

func (s *Service) transition(ctx context.Context, expenseID string, expectedVersion int64, target models.ExpenseStatus) (*models.Expense, error) {
	// A lost commit race is re-read once: the winner may have been an
	// identical retry, which turns this call into a no-op.
	for attempt := 0; ; attempt++ {
		stored, err := s.Store.GetExpense(ctx, expenseID)
		if err != nil {
			return nil, fmt.Errorf("failed to get expense: %w", err)
		}
		if alreadyApplied(stored, target, expectedVersion) {
			s.Logger.Info("transition already applied", "expense_id", expenseID, "status", stored.Status, "version", stored.Version)
			return stored, nil
		}
		if !CanTransition(stored.Status, target) {
			return nil, &StateError{ExpenseID: expenseID, From: stored.Status, To: target}
		}
		if stored.Version != expectedVersion {
			return nil, &ConflictError{ExpenseID: expenseID, Expected: expectedVersion, Actual: stored.Version}
		}

		next, entries, err := s.stage(ctx, stored, target)
		if err != nil {
			return nil, err
		}

		err = s.Store.CommitTransition(ctx, next, expectedVersion, entries)
		if errors.Is(err, storage.ErrVersionConflict) && attempt == 0 {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to commit %s transition: %w", target, err)
		}

		s.Logger.Info("expense transitioned",
			"expense_id", next.ID,
			"status", next.Status,
			"version", next.Version,
			"entries", len(entries),
		)
		s.notify(next, entries)
		return next, nil
	}
}

// stage builds the new expense state and the entries that go with it.
func (s *Service) stage(ctx context.Context, stored *models.Expense, target models.ExpenseStatus) (*models.Expense, []models.LedgerEntry, error) {
	now := s.now()
	next := stored.Clone()
	next.Status = target
	next.Version = stored.Version + 1

	switch target {
	case models.CONFIRMED:
		next.ConfirmedAt = &now
		entries, err := posting.Post(next, now, s.newID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to post expense %s: %w", stored.ID, err)
		}
		return next, entries, nil
	case models.REVERSED:
		next.ReversedAt = &now
		originals, err := s.Store.ListEntriesByExpense(ctx, stored.GroupID, stored.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list entries to reverse: %w", err)
		}
		// Reversed is terminal, so mirrors of a partial read could never be completed.
		if err := posting.Match(stored, originals); err != nil {
			return nil, nil, fmt.Errorf("failed to reverse expense %s: %w", stored.ID, err)
		}
		entries, err := posting.Reverse(next, originals, now, s.newID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to reverse expense %s: %w", stored.ID, err)
		}
		return next, entries, nil
	default:
		return nil, nil, &StateError{ExpenseID: stored.ID, From: stored.Status, To: target}
	}
}

func (s *Service) notify(exp *models.Expense, entries []models.LedgerEntry) {
	eventType := notify.EventExpenseConfirmed
	if exp.Status == models.REVERSED {
		eventType = notify.EventExpenseReversed
	}
	participants := make([]string, 0, len(exp.Splits)+1)
	participants = append(participants, exp.PayerUserID)
	for _, e := range entries {
		if e.DebtorUserID != exp.PayerUserID {
			participants = append(participants, e.DebtorUserID)
		} else {
			participants = append(participants, e.CreditorUserID)
		}
	}
	s.Notifier.Notify(notify.NewEvent(eventType, exp.ID, exp.GroupID, exp.Version, participants))
}

// GetExpense returns a single expense.
func (s *Service) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	exp, err := s.Store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return exp, nil
}

// ListGroupExpenses returns every expense of a group, oldest first.
func (s *Service) ListGroupExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	exps, err := s.Store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return exps, nil
}

// ListExpenseEntries returns the ledger history of one expense.
func (s *Service) ListExpenseEntries(ctx context.Context, expenseID string) ([]models.LedgerEntry, error) {
	exp, err := s.Store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	entries, err := s.Store.ListEntriesByExpense(ctx, exp.GroupID, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// GetBalanceForUser nets the user's pairs across every group.
func (s *Service) GetBalanceForUser(ctx context.Context, userID string) (*models.UserBalance, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	pairs, err := s.Store.ListPairsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	balance := balances.Summarize(userID, pairs)
	return &balance, nil
}

// GetSettlementPlan simplifies a group's current balances into transfers.
func (s *Service) GetSettlementPlan(ctx context.Context, groupID string) ([]models.Transfer, error) {
	pairs, err := s.Store.ListPairsForGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	plan, err := settlement.Plan(pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to plan settlement for group %s: %w", groupID, err)
	}
	return plan, nil
}

// RecomputeFromLedger rebuilds a group's balances from its ledger. Drift is
// repaired and reported as an error matching audit.ErrConsistency.
func (s *Service) RecomputeFromLedger(ctx context.Context, groupID string) (*audit.Report, error) {
	return s.Auditor.Recompute(ctx, groupID)
}
