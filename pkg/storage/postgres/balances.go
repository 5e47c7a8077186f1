package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chris/split-ledger/pkg/balances"
	"github.com/chris/split-ledger/pkg/models"
)

type rowsQueryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryPairs(ctx context.Context, q rowsQueryer, query string, arg string) ([]models.BalancePair, error) {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance pairs: %w", err)
	}
	defer rows.Close()

	var out []models.BalancePair
	for rows.Next() {
		var p models.BalancePair
		if err := rows.Scan(&p.GroupID, &p.UserA, &p.UserB, &p.NetAmount); err != nil {
			return nil, fmt.Errorf("failed to scan balance pair: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListPairsForUser(ctx context.Context, userID string) ([]models.BalancePair, error) {
	return queryPairs(ctx, s.DB, `SELECT group_id, user_a, user_b, net_amount FROM balance_pairs
		WHERE (user_a = $1 OR user_b = $1) AND net_amount <> 0
		ORDER BY group_id, user_a, user_b`, userID)
}

func (s *Store) ListPairsForGroup(ctx context.Context, groupID string) ([]models.BalancePair, error) {
	return queryPairs(ctx, s.DB, `SELECT group_id, user_a, user_b, net_amount FROM balance_pairs
		WHERE group_id = $1 AND net_amount <> 0
		ORDER BY user_a, user_b`, groupID)
}

// RebuildGroupBalances replays the group's ledger under the exclusive group
// lock and replaces its pair rows.
func (s *Store) RebuildGroupBalances(ctx context.Context, groupID string) ([]models.BalancePair, []models.BalancePair, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, groupID); err != nil {
		return nil, nil, fmt.Errorf("failed to lock group %s: %w", groupID, err)
	}

	cached, err := queryPairs(ctx, tx, `SELECT group_id, user_a, user_b, net_amount FROM balance_pairs
		WHERE group_id = $1 AND net_amount <> 0
		ORDER BY user_a, user_b`, groupID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE group_id = $1 ORDER BY seq`, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, nil, err
	}
	rebuilt := balances.Replay(entries)

	if _, err := tx.ExecContext(ctx, `DELETE FROM balance_pairs WHERE group_id = $1`, groupID); err != nil {
		return nil, nil, fmt.Errorf("failed to clear balance pairs: %w", err)
	}
	for _, p := range rebuilt {
		_, err := tx.ExecContext(ctx, `INSERT INTO balance_pairs (group_id, user_a, user_b, net_amount)
			VALUES ($1, $2, $3, $4)`, p.GroupID, p.UserA, p.UserB, p.NetAmount)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to write balance pair: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit rebuild: %w", err)
	}
	return cached, rebuilt, nil
}
