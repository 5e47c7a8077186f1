package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/chris/split-ledger/pkg/balances"
	"github.com/chris/split-ledger/pkg/models"
)

const entryColumns = `seq, entry_id, expense_id, group_id, debtor_user_id, creditor_user_id,
	amount, created_at, reversal_of_entry_id`

// CommitTransition writes the expense, its entries and their pair deltas in
// one transaction.
func (s *Store) CommitTransition(ctx context.Context, exp *models.Expense, expectedVersion int64, entries []models.LedgerEntry) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock_shared(hashtext($1))`, exp.GroupID); err != nil {
		return fmt.Errorf("failed to lock group %s: %w", exp.GroupID, err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE expenses
		SET status = $1, version = $2, confirmed_at = $3, reversed_at = $4
		WHERE id = $5 AND version = $6`,
		exp.Status, exp.Version, exp.ConfirmedAt, exp.ReversedAt, exp.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n == 0 {
		return missOrConflict(ctx, tx, exp.ID, expectedVersion)
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `INSERT INTO ledger_entries
			(entry_id, expense_id, group_id, debtor_user_id, creditor_user_id, amount, created_at, reversal_of_entry_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.EntryID, e.ExpenseID, e.GroupID, e.DebtorUserID, e.CreditorUserID, e.Amount, e.CreatedAt, e.ReversalOfEntryID)
		if err != nil {
			return fmt.Errorf("failed to insert ledger entry %s: %w", e.EntryID, err)
		}
	}

	// Sorted so concurrent commits lock pair rows in the same order.
	deltas := balances.Deltas(entries)
	sort.Slice(deltas, func(i, j int) bool {
		a, b := deltas[i].Key, deltas[j].Key
		if a.UserA != b.UserA {
			return a.UserA < b.UserA
		}
		return a.UserB < b.UserB
	})
	for _, d := range deltas {
		if d.Amount == 0 {
			continue
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO balance_pairs (group_id, user_a, user_b, net_amount)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (group_id, user_a, user_b)
			DO UPDATE SET net_amount = balance_pairs.net_amount + EXCLUDED.net_amount`,
			d.Key.GroupID, d.Key.UserA, d.Key.UserB, d.Amount)
		if err != nil {
			return fmt.Errorf("failed to apply balance delta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transition: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]models.LedgerEntry, error) {
	defer rows.Close()

	out := []models.LedgerEntry{}
	for rows.Next() {
		var (
			e   models.LedgerEntry
			seq int64
		)
		err := rows.Scan(&seq, &e.EntryID, &e.ExpenseID, &e.GroupID, &e.DebtorUserID,
			&e.CreditorUserID, &e.Amount, &e.CreatedAt, &e.ReversalOfEntryID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Seq = fmt.Sprintf("%020d", seq)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) ListEntriesByExpense(ctx context.Context, groupID, expenseID string) ([]models.LedgerEntry, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE group_id = $1 AND expense_id = $2 ORDER BY seq`, groupID, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return scanEntries(rows)
}

func (s *Store) ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE group_id = $1 ORDER BY seq`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return scanEntries(rows)
}
