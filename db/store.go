// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/danielhkuo/pollgate/engine"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists polls and payments in PostgreSQL or SQLite.
type Store struct {
	db      *sql.DB
	dialect string
	logger  *slog.Logger
}

func NewStore(db *sql.DB, dialect string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, dialect: dialect, logger: logger}
}

// lockClause locks selected rows until commit where the dialect supports it.
// SQLite needs none: the pool holds a single connection.
func (s *Store) lockClause() string {
	if s.dialect == TypePostgres {
		return " FOR UPDATE"
	}
	return ""
}

// withTx runs fn in a transaction. Errors from fn are returned unchanged;
// begin and commit failures are storage errors.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail(op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return s.fail(op, err)
	}
	return nil
}

func (s *Store) fail(op string, err error, attrs ...any) error {
	fields := append([]any{"op", op, "error", err}, attrs...)
	s.logger.Error("database operation failed", fields...)
	return storageErr(op, err)
}

var (
	_ engine.PollRepository    = (*Store)(nil)
	_ engine.PaymentRepository = (*Store)(nil)
)
