package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/storage"
)

const expenseColumns = `id, group_id, payer_user_id, total_amount, currency, category, description,
	status, splits, version, created_at, confirmed_at, reversed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		exp    models.Expense
		splits []byte
	)
	err := row.Scan(&exp.ID, &exp.GroupID, &exp.PayerUserID, &exp.TotalAmount, &exp.Currency,
		&exp.Category, &exp.Description, &exp.Status, &splits, &exp.Version, &exp.CreatedAt,
		&exp.ConfirmedAt, &exp.ReversedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(splits, &exp.Splits); err != nil {
		return nil, fmt.Errorf("failed to decode splits of expense %s: %w", exp.ID, err)
	}
	return &exp, nil
}

func (s *Store) CreateExpense(ctx context.Context, exp *models.Expense) (*models.Expense, error) {
	splits, err := json.Marshal(exp.Splits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode splits: %w", err)
	}

	query := `INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = s.DB.ExecContext(ctx, query,
		exp.ID, exp.GroupID, exp.PayerUserID, exp.TotalAmount, exp.Currency, exp.Category,
		exp.Description, exp.Status, splits, exp.Version, exp.CreatedAt, exp.ConfirmedAt, exp.ReversedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("expense %s: %w", exp.ID, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}
	return exp.Clone(), nil
}

func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, expenseID)
	exp, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return exp, nil
}

func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = $1 ORDER BY created_at, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, *exp)
	}
	return out, rows.Err()
}

func (s *Store) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT DISTINCT group_id FROM expenses ORDER BY group_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *Store) UpdateDraft(ctx context.Context, exp *models.Expense, expectedVersion int64) (*models.Expense, error) {
	splits, err := json.Marshal(exp.Splits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode splits: %w", err)
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE expenses
		SET payer_user_id = $1, total_amount = $2, currency = $3, category = $4, description = $5,
			splits = $6, version = $7
		WHERE id = $8 AND version = $9 AND status = 'draft'`,
		exp.PayerUserID, exp.TotalAmount, exp.Currency, exp.Category, exp.Description,
		splits, exp.Version, exp.ID, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	if n == 0 {
		return nil, missOrConflict(ctx, s.DB, exp.ID, expectedVersion)
	}
	return exp.Clone(), nil
}
