// Package posting turns expense transitions into ledger entries.
package posting

import (
	"errors"
	"fmt"
	"time"

	"github.com/chris/split-ledger/pkg/models"
)

// ErrNotPostable is returned when an expense is not in the state a posting requires.
var ErrNotPostable = errors.New("expense cannot be posted in its current state")

// ErrIncompleteLedger is returned when the stored entries of a confirmed
// expense are not the ones confirming it posted.
var ErrIncompleteLedger = errors.New("ledger entries do not match the confirmed expense")

// IDFunc generates entry IDs.
type IDFunc func() string

// Post emits the entries for a confirmed expense: one per split whose user is
// not the payer and whose share is positive. The debtor is the participant and
// the creditor is the payer.
func Post(exp *models.Expense, now time.Time, newID IDFunc) ([]models.LedgerEntry, error) {
	if exp.Status != models.CONFIRMED {
		return nil, fmt.Errorf("%w: post requires %s, got %s", ErrNotPostable, models.CONFIRMED, exp.Status)
	}

	var entries []models.LedgerEntry
	for _, s := range exp.Splits {
		if s.UserID == exp.PayerUserID || s.ShareAmount <= 0 {
			continue
		}
		entries = append(entries, models.LedgerEntry{
			EntryID:        newID(),
			ExpenseID:      exp.ID,
			GroupID:        exp.GroupID,
			DebtorUserID:   s.UserID,
			CreditorUserID: exp.PayerUserID,
			Amount:         s.ShareAmount,
			CreatedAt:      now,
		})
	}
	return entries, nil
}

// Reverse emits one mirror entry for every original entry of a reversed
// expense. Entries that are themselves reversals are skipped.
func Reverse(exp *models.Expense, originals []models.LedgerEntry, now time.Time, newID IDFunc) ([]models.LedgerEntry, error) {
	if exp.Status != models.REVERSED {
		return nil, fmt.Errorf("%w: reverse requires %s, got %s", ErrNotPostable, models.REVERSED, exp.Status)
	}

	var mirrors []models.LedgerEntry
	for _, orig := range originals {
		if orig.IsReversal() {
			continue
		}
		if orig.ExpenseID != exp.ID {
			return nil, fmt.Errorf("entry %s belongs to expense %s, not %s", orig.EntryID, orig.ExpenseID, exp.ID)
		}
		origID := orig.EntryID
		mirrors = append(mirrors, models.LedgerEntry{
			EntryID:           newID(),
			ExpenseID:         exp.ID,
			GroupID:           exp.GroupID,
			DebtorUserID:      orig.CreditorUserID,
			CreditorUserID:    orig.DebtorUserID,
			Amount:            orig.Amount,
			CreatedAt:         now,
			ReversalOfEntryID: &origID,
		})
	}
	return mirrors, nil
}

// Match checks that the non-reversal entries in originals are exactly those
// Post emits for the confirmed expense, ignoring IDs and timestamps.
func Match(confirmed *models.Expense, originals []models.LedgerEntry) error {
	want, err := Post(confirmed, time.Time{}, func() string { return "" })
	if err != nil {
		return err
	}

	type leg struct {
		debtor, creditor string
		amount           int64
	}
	pending := make(map[leg]int, len(want))
	for _, e := range want {
		pending[leg{e.DebtorUserID, e.CreditorUserID, e.Amount}]++
	}

	var n int
	for _, e := range originals {
		if e.IsReversal() {
			continue
		}
		k := leg{e.DebtorUserID, e.CreditorUserID, e.Amount}
		if e.ExpenseID != confirmed.ID || pending[k] == 0 {
			return fmt.Errorf("%w: unexpected entry %s for expense %s", ErrIncompleteLedger, e.EntryID, confirmed.ID)
		}
		pending[k]--
		n++
	}
	if n != len(want) {
		return fmt.Errorf("%w: expense %s has %d of %d entries", ErrIncompleteLedger, confirmed.ID, n, len(want))
	}
	return nil
}

// OwedToPayer sums what non-payer participants owe the payer across entries.
// For a confirmed expense this equals TotalAmount minus the payer's share.
func OwedToPayer(exp *models.Expense, entries []models.LedgerEntry) int64 {
	var total int64
	for _, e := range entries {
		if e.ExpenseID != exp.ID {
			continue
		}
		switch {
		case e.CreditorUserID == exp.PayerUserID:
			total += e.Amount
		case e.DebtorUserID == exp.PayerUserID:
			total -= e.Amount
		}
	}
	return total
}
