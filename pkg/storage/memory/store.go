// Package memory is an in-process implementation of storage.Storage. It keeps
// the same atomicity guarantees as the database stores and backs the tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chris/split-ledger/pkg/balances"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/storage"
)

// Store holds expenses and the ledger under one mutex. Balance pairs live in a
// balances.Book, so pair reads never wait on that mutex.
type Store struct {
	mu        sync.Mutex
	expenses  map[string]*models.Expense
	entries   []models.LedgerEntry
	byExpense map[string][]int
	byGroup   map[string][]int
	book      *balances.Book
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		expenses:  make(map[string]*models.Expense),
		byExpense: make(map[string][]int),
		byGroup:   make(map[string][]int),
		book:      balances.NewBook(),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) CreateExpense(ctx context.Context, exp *models.Expense) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[exp.ID]; ok {
		return nil, fmt.Errorf("expense %s: %w", exp.ID, storage.ErrAlreadyExists)
	}
	s.expenses[exp.ID] = exp.Clone()
	return exp.Clone(), nil
}

func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expenses[expenseID]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return exp.Clone(), nil
}

func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Expense
	for _, exp := range s.expenses {
		if exp.GroupID == groupID {
			out = append(out, *exp.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, exp := range s.expenses {
		seen[exp.GroupID] = struct{}{}
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups, nil
}

func (s *Store) UpdateDraft(ctx context.Context, exp *models.Expense, expectedVersion int64) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVersion(exp.ID, expectedVersion); err != nil {
		return nil, err
	}
	s.expenses[exp.ID] = exp.Clone()
	return exp.Clone(), nil
}

func (s *Store) CommitTransition(ctx context.Context, exp *models.Expense, expectedVersion int64, entries []models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVersion(exp.ID, expectedVersion); err != nil {
		return err
	}

	s.expenses[exp.ID] = exp.Clone()
	for _, e := range entries {
		idx := len(s.entries)
		e.Seq = fmt.Sprintf("%020d", idx+1)
		s.entries = append(s.entries, e)
		s.byExpense[e.ExpenseID] = append(s.byExpense[e.ExpenseID], idx)
		s.byGroup[e.GroupID] = append(s.byGroup[e.GroupID], idx)
		s.book.Apply(e)
	}
	return nil
}

// checkVersion must be called with s.mu held.
func (s *Store) checkVersion(expenseID string, expectedVersion int64) error {
	stored, ok := s.expenses[expenseID]
	if !ok {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("expense %s at version %d, expected %d: %w", expenseID, stored.Version, expectedVersion, storage.ErrVersionConflict)
	}
	return nil
}

func (s *Store) ListEntriesByExpense(ctx context.Context, groupID, expenseID string) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.LedgerEntry{}
	for _, e := range s.collect(s.byExpense[expenseID]) {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(s.byGroup[groupID]), nil
}

func (s *Store) collect(idx []int) []models.LedgerEntry {
	out := make([]models.LedgerEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.entries[i])
	}
	return out
}

func (s *Store) ListPairsForUser(ctx context.Context, userID string) ([]models.BalancePair, error) {
	return s.book.UserPairs(userID), nil
}

func (s *Store) ListPairsForGroup(ctx context.Context, groupID string) ([]models.BalancePair, error) {
	return s.book.GroupPairs(groupID), nil
}

func (s *Store) RebuildGroupBalances(ctx context.Context, groupID string) ([]models.BalancePair, []models.BalancePair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached := s.book.GroupPairs(groupID)
	rebuilt := balances.Replay(s.collect(s.byGroup[groupID]))
	s.book.ReplaceGroup(groupID, rebuilt)
	return cached, rebuilt, nil
}

// Corrupt adds delta to a cached pair without a ledger entry. It exists so
// tests can exercise drift detection.
func (s *Store) Corrupt(key balances.PairKey, delta int64) {
	s.book.Add(key, delta)
}
