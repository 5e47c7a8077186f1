package expenses

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/balances"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/notify"
	"github.com/chris/split-ledger/pkg/posting"
	"github.com/chris/split-ledger/pkg/storage"
	"github.com/chris/split-ledger/pkg/storage/memory"
	"github.com/chris/split-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(e notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func threeWay() NewExpense {
	return NewExpense{
		PayerUserID: "U1",
		GroupID:     "g1",
		TotalAmount: 300,
		Currency:    "usd",
		Category:    "food",
		Description: "dinner",
		Splits: []models.Split{
			{UserID: "U1", ShareAmount: 100},
			{UserID: "U2", ShareAmount: 100},
			{UserID: "U3", ShareAmount: 100},
		},
	}
}

func newService() (*Service, *memory.Store, *recordingNotifier) {
	store := memory.New()
	notifier := &recordingNotifier{}
	return NewService(store, notifier, nil, nil), store, notifier
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*NewExpense)
		field  string
	}{
		{"Zero Total", func(in *NewExpense) { in.TotalAmount = 0 }, "total_amount"},
		{"Negative Total", func(in *NewExpense) { in.TotalAmount = -5 }, "total_amount"},
		{"Empty Splits", func(in *NewExpense) { in.Splits = nil }, "splits"},
		{"Negative Share", func(in *NewExpense) { in.Splits[1].ShareAmount = -100; in.Splits[2].ShareAmount = 300 }, "splits[1].share_amount"},
		{"Sum Mismatch", func(in *NewExpense) { in.Splits[2].ShareAmount = 99 }, "splits"},
		{"Duplicate User", func(in *NewExpense) { in.Splits[2].UserID = "U2" }, "splits"},
		{"Empty User", func(in *NewExpense) { in.Splits[0].UserID = " " }, "splits[0].user_id"},
		{"Missing Payer", func(in *NewExpense) { in.PayerUserID = "" }, "payer_user_id"},
		{"Missing Group", func(in *NewExpense) { in.GroupID = "" }, "group_id"},
		{"Unknown Currency", func(in *NewExpense) { in.Currency = "ZZZ" }, "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := threeWay()
			tt.modify(&in)

			err := Validate(in)

			assert.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	t.Run("Zero Shares Allowed", func(t *testing.T) {
		in := threeWay()
		in.Splits = []models.Split{{UserID: "U1", ShareAmount: 0}, {UserID: "U2", ShareAmount: 300}}
		assert.NoError(t, Validate(in))
	})
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.DRAFT, models.CONFIRMED))
	assert.True(t, CanTransition(models.CONFIRMED, models.REVERSED))
	assert.False(t, CanTransition(models.DRAFT, models.REVERSED))
	assert.False(t, CanTransition(models.CONFIRMED, models.DRAFT))
	assert.False(t, CanTransition(models.REVERSED, models.DRAFT))
	assert.False(t, CanTransition(models.REVERSED, models.CONFIRMED))
	assert.False(t, CanTransition(models.CONFIRMED, models.CONFIRMED))
}

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, _, _ := newService()

		exp, err := svc.CreateExpense(ctx, threeWay())

		require.NoError(t, err)
		assert.NotEmpty(t, exp.ID)
		assert.Equal(t, models.DRAFT, exp.Status)
		assert.Equal(t, int64(0), exp.Version)
		assert.Equal(t, "USD", exp.Currency)
	})

	t.Run("Validation Error Writes Nothing", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		svc := NewService(mockStorage, nil, nil, nil)
		in := threeWay()
		in.Splits[0].ShareAmount = 1

		_, err := svc.CreateExpense(ctx, in)

		assert.ErrorIs(t, err, ErrValidation)
		mockStorage.AssertNotCalled(t, "CreateExpense", mock.Anything, mock.Anything)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateExpense", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
		svc := NewService(mockStorage, nil, nil, nil)

		_, err := svc.CreateExpense(ctx, threeWay())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create expense")
		mockStorage.AssertExpectations(t)
	})
}

func TestCreateEqualExpense(t *testing.T) {
	svc, _, _ := newService()

	exp, err := svc.CreateEqualExpense(context.Background(), EqualExpense{
		PayerUserID:  "U3",
		GroupID:      "g1",
		TotalAmount:  100,
		Currency:     "EUR",
		Participants: []string{"U1", "U2", "U3"},
	})

	require.NoError(t, err)
	assert.Equal(t, []models.Split{{UserID: "U1", ShareAmount: 33}, {UserID: "U2", ShareAmount: 33}, {UserID: "U3", ShareAmount: 34}}, exp.Splits)

	_, err = svc.CreateEqualExpense(context.Background(), EqualExpense{PayerUserID: "U1", GroupID: "g1", TotalAmount: 100, Currency: "EUR"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConfirmAndReverse(t *testing.T) {
	ctx := context.Background()
	svc, store, notifier := newService()

	exp, err := svc.CreateExpense(ctx, threeWay())
	require.NoError(t, err)

	confirmed, err := svc.ConfirmExpense(ctx, exp.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.CONFIRMED, confirmed.Status)
	assert.Equal(t, int64(1), confirmed.Version)
	assert.NotNil(t, confirmed.ConfirmedAt)

	entries, err := svc.ListExpenseEntries(ctx, exp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "U2", entries[0].DebtorUserID)
	assert.Equal(t, "U1", entries[0].CreditorUserID)
	assert.Equal(t, int64(100), entries[0].Amount)
	assert.Equal(t, "U3", entries[1].DebtorUserID)

	var owedToPayer int64
	for _, e := range entries {
		owedToPayer += e.Amount
	}
	assert.Equal(t, confirmed.TotalAmount-confirmed.PayerShare(), owedToPayer)

	balance, err := svc.GetBalanceForUser(ctx, "U2")
	require.NoError(t, err)
	assert.Equal(t, []models.Counterparty{{UserID: "U1", Amount: 100}}, balance.Owes)
	assert.Empty(t, balance.Owed)

	payer, err := svc.GetBalanceForUser(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, []models.Counterparty{{UserID: "U2", Amount: 100}, {UserID: "U3", Amount: 100}}, payer.Owed)

	reversed, err := svc.ReverseExpense(ctx, exp.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.REVERSED, reversed.Status)
	assert.Equal(t, int64(2), reversed.Version)
	assert.NotNil(t, reversed.ReversedAt)

	entries, err = svc.ListExpenseEntries(ctx, exp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, mirror := range entries[2:] {
		require.NotNil(t, mirror.ReversalOfEntryID)
		assert.Equal(t, entries[i].EntryID, *mirror.ReversalOfEntryID)
		assert.Equal(t, entries[i].DebtorUserID, mirror.CreditorUserID)
		assert.Equal(t, entries[i].CreditorUserID, mirror.DebtorUserID)
		assert.Equal(t, entries[i].Amount, mirror.Amount)
	}

	pairs, err := store.ListPairsForGroup(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, pairs)

	balance, err = svc.GetBalanceForUser(ctx, "U2")
	require.NoError(t, err)
	assert.Empty(t, balance.Owes)

	require.Len(t, notifier.events, 2)
	assert.Equal(t, notify.EventExpenseConfirmed, notifier.events[0].Type)
	assert.Equal(t, notify.EventExpenseReversed, notifier.events[1].Type)
	assert.ElementsMatch(t, []string{"U1", "U2", "U3"}, notifier.events[1].Participants)
}

func TestConfirmIdempotence(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newService()
	exp, err := svc.CreateExpense(ctx, threeWay())
	require.NoError(t, err)

	first, err := svc.ConfirmExpense(ctx, exp.ID, 0)
	require.NoError(t, err)

	t.Run("Same Version Replay", func(t *testing.T) {
		again, err := svc.ConfirmExpense(ctx, exp.ID, 0)

		require.NoError(t, err)
		assert.Equal(t, first, again)
	})

	t.Run("Re-read Version Replay", func(t *testing.T) {
		again, err := svc.ConfirmExpense(ctx, exp.ID, 1)

		require.NoError(t, err)
		assert.Equal(t, first, again)
	})

	entries, err := svc.ListExpenseEntries(ctx, exp.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Len(t, notifier.events, 1)

	t.Run("Reverse Replay", func(t *testing.T) {
		reversed, err := svc.ReverseExpense(ctx, exp.ID, 1)
		require.NoError(t, err)

		again, err := svc.ReverseExpense(ctx, exp.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, reversed, again)

		entries, err := svc.ListExpenseEntries(ctx, exp.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 4)
	})
}

func TestTransitionErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	draft, err := svc.CreateExpense(ctx, threeWay())
	require.NoError(t, err)

	t.Run("Reverse Draft", func(t *testing.T) {
		_, err := svc.ReverseExpense(ctx, draft.ID, 0)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("Stale Version", func(t *testing.T) {
		_, err := svc.ConfirmExpense(ctx, draft.ID, 3)
		assert.ErrorIs(t, err, storage.ErrVersionConflict)
		var ce *ConflictError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, int64(0), ce.Actual)
	})

	t.Run("Unknown Expense", func(t *testing.T) {
		_, err := svc.ConfirmExpense(ctx, "missing", 0)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Confirm Reversed", func(t *testing.T) {
		exp, err := svc.CreateExpense(ctx, threeWay())
		require.NoError(t, err)
		_, err = svc.ConfirmExpense(ctx, exp.ID, 0)
		require.NoError(t, err)
		_, err = svc.ReverseExpense(ctx, exp.ID, 1)
		require.NoError(t, err)

		_, err = svc.ConfirmExpense(ctx, exp.ID, 2)
		assert.ErrorIs(t, err, ErrInvalidState)

		stored, err := svc.GetExpense(ctx, exp.ID)
		require.NoError(t, err)
		assert.Equal(t, models.REVERSED, stored.Status)
		assert.Equal(t, int64(2), stored.Version)
	})
}

func TestConfirmLostRace(t *testing.T) {
	ctx := context.Background()
	draft := &models.Expense{ID: "x1", GroupID: "g1", PayerUserID: "U1", TotalAmount: 100, Currency: "USD", Status: models.DRAFT,
		Splits: []models.Split{{UserID: "U2", ShareAmount: 100}}}
	confirmed := draft.Clone()
	confirmed.Status = models.CONFIRMED
	confirmed.Version = 1

	t.Run("Winner Was An Identical Retry", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetExpense", mock.Anything, "x1").Return(draft, nil).Once()
		mockStorage.On("CommitTransition", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(storage.ErrVersionConflict).Once()
		mockStorage.On("GetExpense", mock.Anything, "x1").Return(confirmed, nil).Once()
		svc := NewService(mockStorage, nil, nil, nil)

		got, err := svc.ConfirmExpense(ctx, "x1", 0)

		require.NoError(t, err)
		assert.Equal(t, confirmed, got)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Commit Fails", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetExpense", mock.Anything, "x1").Return(draft, nil)
		mockStorage.On("CommitTransition", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(errors.New("transaction aborted"))
		svc := NewService(mockStorage, nil, nil, nil)

		_, err := svc.ConfirmExpense(ctx, "x1", 0)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit confirmed transition")
		mockStorage.AssertExpectations(t)
	})
}

func TestReverseRequiresCompleteLedger(t *testing.T) {
	ctx := context.Background()
	confirmed := &models.Expense{ID: "x1", GroupID: "g1", PayerUserID: "U1", TotalAmount: 300, Currency: "USD",
		Status: models.CONFIRMED, Version: 1,
		Splits: []models.Split{{UserID: "U1", ShareAmount: 100}, {UserID: "U2", ShareAmount: 100}, {UserID: "U3", ShareAmount: 100}}}
	posted := []models.LedgerEntry{
		{EntryID: "e1", ExpenseID: "x1", GroupID: "g1", DebtorUserID: "U2", CreditorUserID: "U1", Amount: 100},
		{EntryID: "e2", ExpenseID: "x1", GroupID: "g1", DebtorUserID: "U3", CreditorUserID: "U1", Amount: 100},
	}

	tests := []struct {
		name    string
		entries []models.LedgerEntry
	}{
		{"No Entries Visible", []models.LedgerEntry{}},
		{"Some Entries Visible", posted[:1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStorage := new(mocks.Storage)
			mockStorage.On("GetExpense", mock.Anything, "x1").Return(confirmed, nil)
			mockStorage.On("ListEntriesByExpense", mock.Anything, "g1", "x1").Return(tt.entries, nil)
			svc := NewService(mockStorage, nil, nil, nil)

			_, err := svc.ReverseExpense(ctx, "x1", 1)

			assert.ErrorIs(t, err, posting.ErrIncompleteLedger)
			mockStorage.AssertNotCalled(t, "CommitTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("Complete Ledger Commits Every Mirror", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetExpense", mock.Anything, "x1").Return(confirmed, nil)
		mockStorage.On("ListEntriesByExpense", mock.Anything, "g1", "x1").Return(posted, nil)
		mockStorage.On("CommitTransition", mock.Anything, mock.Anything, int64(1), mock.MatchedBy(func(entries []models.LedgerEntry) bool {
			return len(entries) == 2 && len(balances.Replay(append(append([]models.LedgerEntry{}, posted...), entries...))) == 0
		})).Return(nil)
		svc := NewService(mockStorage, nil, nil, nil)

		got, err := svc.ReverseExpense(ctx, "x1", 1)

		require.NoError(t, err)
		assert.Equal(t, models.REVERSED, got.Status)
		mockStorage.AssertExpectations(t)
	})
}

func TestConcurrentConfirmOfSameExpense(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	exp, err := svc.CreateExpense(ctx, threeWay())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ConfirmExpense(ctx, exp.ID, 0)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	entries, err := svc.ListExpenseEntries(ctx, exp.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIncrementalMatchesReplayUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()
	users := []string{"ana", "ben", "cho", "dev", "eli"}

	var ids []string
	for i := 0; i < 40; i++ {
		payer := users[i%len(users)]
		exp, err := svc.CreateEqualExpense(ctx, EqualExpense{
			PayerUserID:  payer,
			GroupID:      fmt.Sprintf("g%d", i%2),
			TotalAmount:  int64(1000 + i*37),
			Currency:     "USD",
			Participants: users[:2+i%4],
		})
		require.NoError(t, err)
		ids = append(ids, exp.ID)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, err := svc.ConfirmExpense(ctx, id, 0)
			assert.NoError(t, err)
			if i%3 == 0 {
				_, err = svc.ReverseExpense(ctx, id, 1)
				assert.NoError(t, err)
			}
		}(i, id)
	}
	wg.Wait()

	for _, g := range []string{"g0", "g1"} {
		entries, err := store.ListEntriesByGroup(ctx, g)
		require.NoError(t, err)
		cached, err := store.ListPairsForGroup(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, balances.Replay(entries), cached)

		report, err := svc.RecomputeFromLedger(ctx, g)
		require.NoError(t, err)
		assert.Empty(t, report.Drifts)

		plan, err := svc.GetSettlementPlan(ctx, g)
		require.NoError(t, err)
		positions := map[string]int64{}
		for _, p := range cached {
			positions[p.UserA] += p.NetAmount
			positions[p.UserB] -= p.NetAmount
		}
		for _, tr := range plan {
			positions[tr.FromUserID] -= tr.Amount
			positions[tr.ToUserID] += tr.Amount
		}
		for user, left := range positions {
			assert.Zero(t, left, "user %s in %s", user, g)
		}
	}
}

func TestUpdateDraft(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	exp, err := svc.CreateExpense(ctx, threeWay())
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		in := threeWay()
		in.GroupID = ""
		in.TotalAmount = 200
		in.Splits = []models.Split{{UserID: "U1", ShareAmount: 50}, {UserID: "U2", ShareAmount: 150}}

		updated, err := svc.UpdateDraft(ctx, exp.ID, 0, in)

		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.Version)
		assert.Equal(t, int64(200), updated.TotalAmount)
		assert.Equal(t, "g1", updated.GroupID)
	})

	t.Run("Stale Version", func(t *testing.T) {
		_, err := svc.UpdateDraft(ctx, exp.ID, 0, threeWay())
		assert.ErrorIs(t, err, storage.ErrVersionConflict)
	})

	t.Run("Group Change", func(t *testing.T) {
		in := threeWay()
		in.GroupID = "g2"
		_, err := svc.UpdateDraft(ctx, exp.ID, 1, in)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Confirmed Is Frozen", func(t *testing.T) {
		_, err := svc.ConfirmExpense(ctx, exp.ID, 1)
		require.NoError(t, err)

		_, err = svc.UpdateDraft(ctx, exp.ID, 2, threeWay())
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestGetSettlementPlan(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	// U2 pays 50 for U1 and U3 pays 100 for U1: U1 ends up owing 150.
	for _, in := range []NewExpense{
		{PayerUserID: "U2", GroupID: "g1", TotalAmount: 50, Currency: "USD", Splits: []models.Split{{UserID: "U1", ShareAmount: 50}}},
		{PayerUserID: "U3", GroupID: "g1", TotalAmount: 100, Currency: "USD", Splits: []models.Split{{UserID: "U1", ShareAmount: 100}}},
	} {
		exp, err := svc.CreateExpense(ctx, in)
		require.NoError(t, err)
		_, err = svc.ConfirmExpense(ctx, exp.ID, 0)
		require.NoError(t, err)
	}

	plan, err := svc.GetSettlementPlan(ctx, "g1")

	require.NoError(t, err)
	assert.Equal(t, []models.Transfer{
		{FromUserID: "U1", ToUserID: "U3", Amount: 100},
		{FromUserID: "U1", ToUserID: "U2", Amount: 50},
	}, plan)
}

func TestRecomputeFromLedgerReportsDrift(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()
	exp, err := svc.CreateExpense(ctx, threeWay())
	require.NoError(t, err)
	_, err = svc.ConfirmExpense(ctx, exp.ID, 0)
	require.NoError(t, err)

	store.Corrupt(balances.PairKey{GroupID: "g1", UserA: "U1", UserB: "U3"}, 11)

	report, err := svc.RecomputeFromLedger(ctx, "g1")

	assert.ErrorIs(t, err, audit.ErrConsistency)
	require.NotNil(t, report)
	assert.Len(t, report.Drifts, 1)

	balance, err := svc.GetBalanceForUser(ctx, "U3")
	require.NoError(t, err)
	assert.Equal(t, []models.Counterparty{{UserID: "U1", Amount: 100}}, balance.Owes)
}
