package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/chris/split-ledger/pkg/balances"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocker struct {
	held     map[string]bool
	released []string
}

func (l *fakeLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	if l.held[key] {
		return nil, ErrAuditInProgress
	}
	return func(context.Context) error {
		l.released = append(l.released, key)
		return nil
	}, nil
}

func seed(t *testing.T, store *memory.Store, id, group string) {
	t.Helper()
	ctx := context.Background()
	exp := &models.Expense{
		ID: id, GroupID: group, PayerUserID: "U1", TotalAmount: 300, Currency: "USD", Status: models.DRAFT,
		Splits: []models.Split{{UserID: "U1", ShareAmount: 100}, {UserID: "U2", ShareAmount: 100}, {UserID: "U3", ShareAmount: 100}},
	}
	_, err := store.CreateExpense(ctx, exp)
	require.NoError(t, err)

	confirmed := exp.Clone()
	confirmed.Status = models.CONFIRMED
	confirmed.Version = 1
	require.NoError(t, store.CommitTransition(ctx, confirmed, 0, []models.LedgerEntry{
		{EntryID: id + "-1", ExpenseID: id, GroupID: group, DebtorUserID: "U2", CreditorUserID: "U1", Amount: 100},
		{EntryID: id + "-2", ExpenseID: id, GroupID: group, DebtorUserID: "U3", CreditorUserID: "U1", Amount: 100},
	}))
}

func TestRecompute(t *testing.T) {
	ctx := context.Background()

	t.Run("Clean", func(t *testing.T) {
		store := memory.New()
		seed(t, store, "x1", "g1")
		locker := &fakeLocker{}
		auditor := New(store, locker, nil)

		report, err := auditor.Recompute(ctx, "g1")

		require.NoError(t, err)
		assert.Empty(t, report.Drifts)
		assert.Len(t, report.Pairs, 2)
		assert.Equal(t, []string{"audit:g1"}, locker.released)
	})

	t.Run("Drift Is Repaired And Reported", func(t *testing.T) {
		store := memory.New()
		seed(t, store, "x1", "g1")
		store.Corrupt(balances.PairKey{GroupID: "g1", UserA: "U1", UserB: "U2"}, 25)
		auditor := New(store, nil, nil)

		report, err := auditor.Recompute(ctx, "g1")

		assert.ErrorIs(t, err, ErrConsistency)
		var ce *ConsistencyError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, []balances.Drift{{Key: balances.PairKey{GroupID: "g1", UserA: "U1", UserB: "U2"}, Cached: -75, Expected: -100}}, ce.Drifts)
		require.NotNil(t, report)
		assert.True(t, report.Repaired)

		pairs, _ := store.ListPairsForGroup(ctx, "g1")
		assert.Equal(t, report.Pairs, pairs)

		_, err = auditor.Recompute(ctx, "g1")
		assert.NoError(t, err)
	})

	t.Run("Lock Held", func(t *testing.T) {
		store := memory.New()
		auditor := New(store, &fakeLocker{held: map[string]bool{"audit:g1": true}}, nil)

		_, err := auditor.Recompute(ctx, "g1")

		assert.ErrorIs(t, err, ErrAuditInProgress)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "x1", "g1")
	store.Corrupt(balances.PairKey{GroupID: "g1", UserA: "U1", UserB: "U3"}, -1)
	auditor := New(store, nil, nil)

	_, err := auditor.Verify(ctx, "g1")
	assert.ErrorIs(t, err, ErrConsistency)

	// Verify never writes, so the drift is still there.
	_, err = auditor.Verify(ctx, "g1")
	assert.ErrorIs(t, err, ErrConsistency)
}

// racingStore commits a new expense to the group just before the pairs are
// read, the first `races` times.
type racingStore struct {
	*memory.Store
	t       *testing.T
	races   int
	commits int
}

func (s *racingStore) ListPairsForGroup(ctx context.Context, groupID string) ([]models.BalancePair, error) {
	if s.commits < s.races {
		s.commits++
		seed(s.t, s.Store, fmt.Sprintf("race-%d", s.commits), groupID)
	}
	return s.Store.ListPairsForGroup(ctx, groupID)
}

func TestVerifyConcurrentCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit Between Reads Is Not Drift", func(t *testing.T) {
		store := &racingStore{Store: memory.New(), t: t, races: 1}
		seed(t, store.Store, "x1", "g1")
		auditor := New(store, nil, nil)

		report, err := auditor.Verify(ctx, "g1")

		require.NoError(t, err)
		assert.Empty(t, report.Drifts)
		assert.Equal(t, 1, store.commits)
		assert.Equal(t, []models.BalancePair{
			{GroupID: "g1", UserA: "U1", UserB: "U2", NetAmount: -200},
			{GroupID: "g1", UserA: "U1", UserB: "U3", NetAmount: -200},
		}, report.Pairs)
	})

	t.Run("Group Never Settles", func(t *testing.T) {
		store := &racingStore{Store: memory.New(), t: t, races: verifyAttempts}
		seed(t, store.Store, "x1", "g1")
		auditor := New(store, nil, nil)

		_, err := auditor.Verify(ctx, "g1")

		assert.ErrorIs(t, err, ErrGroupBusy)
		assert.NotErrorIs(t, err, ErrConsistency)
	})
}

func TestRecomputeAll(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, "x1", "g1")
	seed(t, store, "x2", "g2")
	store.Corrupt(balances.PairKey{GroupID: "g2", UserA: "U1", UserB: "U2"}, 3)
	auditor := New(store, nil, nil)

	reports, err := auditor.RecomputeAll(ctx)

	assert.ErrorIs(t, err, ErrConsistency)
	require.Len(t, reports, 2)
	assert.Empty(t, reports[0].Drifts)
	assert.Len(t, reports[1].Drifts, 1)
}
