// Package postgres implements storage.Storage on PostgreSQL through lib/pq.
//
// Commits hold a shared advisory lock on their group and rebuilds hold the
// exclusive one, so a rebuild never observes a half-applied transition.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/chris/split-ledger/pkg/storage"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// Store is a PostgreSQL-backed storage.Storage.
type Store struct {
	DB *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Open connects with the lib/pq driver and checks the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db), nil
}

// Migrate creates the tables when they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// missOrConflict explains why a version-conditioned UPDATE touched no row.
func missOrConflict(ctx context.Context, q queryer, expenseID string, expectedVersion int64) error {
	var version int64
	err := q.QueryRowContext(ctx, `SELECT version FROM expenses WHERE id = $1`, expenseID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read expense version: %w", err)
	}
	return fmt.Errorf("expense %s at version %d, expected %d: %w", expenseID, version, expectedVersion, storage.ErrVersionConflict)
}
