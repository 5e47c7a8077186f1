package memory

import (
	"context"
	"testing"
	"time"

	"github.com/chris/split-ledger/pkg/balances"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draft(id, group string) *models.Expense {
	return &models.Expense{
		ID:          id,
		GroupID:     group,
		PayerUserID: "U1",
		TotalAmount: 200,
		Currency:    "USD",
		Status:      models.DRAFT,
		Splits:      []models.Split{{UserID: "U1", ShareAmount: 100}, {UserID: "U2", ShareAmount: 100}},
		CreatedAt:   time.Now(),
	}
}

func TestCreateAndGetExpense(t *testing.T) {
	ctx := context.Background()
	store := New()

	t.Run("Success", func(t *testing.T) {
		_, err := store.CreateExpense(ctx, draft("x1", "g1"))
		require.NoError(t, err)

		got, err := store.GetExpense(ctx, "x1")
		require.NoError(t, err)
		assert.Equal(t, "g1", got.GroupID)

		// Mutating the returned copy must not leak into the store.
		got.Splits[0].ShareAmount = 999
		again, _ := store.GetExpense(ctx, "x1")
		assert.Equal(t, int64(100), again.Splits[0].ShareAmount)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := store.CreateExpense(ctx, draft("x1", "g1"))
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := store.GetExpense(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCommitTransition(t *testing.T) {
	ctx := context.Background()
	store := New()
	_, err := store.CreateExpense(ctx, draft("x1", "g1"))
	require.NoError(t, err)

	confirmed := draft("x1", "g1")
	confirmed.Status = models.CONFIRMED
	confirmed.Version = 1
	entries := []models.LedgerEntry{{EntryID: "e1", ExpenseID: "x1", GroupID: "g1", DebtorUserID: "U2", CreditorUserID: "U1", Amount: 100}}

	t.Run("Version Conflict Writes Nothing", func(t *testing.T) {
		err := store.CommitTransition(ctx, confirmed, 5, entries)
		assert.ErrorIs(t, err, storage.ErrVersionConflict)

		got, _ := store.ListEntriesByExpense(ctx, "g1", "x1")
		assert.Empty(t, got)
		pairs, _ := store.ListPairsForGroup(ctx, "g1")
		assert.Empty(t, pairs)
	})

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, store.CommitTransition(ctx, confirmed, 0, entries))

		exp, _ := store.GetExpense(ctx, "x1")
		assert.Equal(t, models.CONFIRMED, exp.Status)
		assert.Equal(t, int64(1), exp.Version)

		got, _ := store.ListEntriesByGroup(ctx, "g1")
		require.Len(t, got, 1)
		assert.NotEmpty(t, got[0].Seq)

		pairs, _ := store.ListPairsForUser(ctx, "U2")
		assert.Equal(t, []models.BalancePair{{GroupID: "g1", UserA: "U1", UserB: "U2", NetAmount: -100}}, pairs)
	})

	t.Run("Unknown Expense", func(t *testing.T) {
		err := store.CommitTransition(ctx, draft("nope", "g1"), 0, nil)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestRebuildGroupBalances(t *testing.T) {
	ctx := context.Background()
	store := New()
	_, err := store.CreateExpense(ctx, draft("x1", "g1"))
	require.NoError(t, err)

	confirmed := draft("x1", "g1")
	confirmed.Status = models.CONFIRMED
	confirmed.Version = 1
	require.NoError(t, store.CommitTransition(ctx, confirmed, 0, []models.LedgerEntry{
		{EntryID: "e1", ExpenseID: "x1", GroupID: "g1", DebtorUserID: "U2", CreditorUserID: "U1", Amount: 100},
	}))

	store.Corrupt(balances.PairKey{GroupID: "g1", UserA: "U1", UserB: "U2"}, 7)

	cached, rebuilt, err := store.RebuildGroupBalances(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(-93), cached[0].NetAmount)
	assert.Equal(t, int64(-100), rebuilt[0].NetAmount)

	pairs, _ := store.ListPairsForGroup(ctx, "g1")
	assert.Equal(t, rebuilt, pairs)
}

func TestListGroupsAndExpenses(t *testing.T) {
	ctx := context.Background()
	store := New()
	first := draft("b", "g2")
	second := draft("a", "g2")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	for _, exp := range []*models.Expense{first, second, draft("c", "g1")} {
		_, err := store.CreateExpense(ctx, exp)
		require.NoError(t, err)
	}

	groups, err := store.ListGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, groups)

	exps, err := store.ListExpensesByGroup(ctx, "g2")
	require.NoError(t, err)
	require.Len(t, exps, 2)
	assert.Equal(t, "b", exps[0].ID)
	assert.Equal(t, "a", exps[1].ID)
}
