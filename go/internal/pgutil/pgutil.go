// Package pgutil holds small helpers shared by the repositories for working
// with pgx result and error types.
package pgutil

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. The unique indexes on registrations and team members are the
// real mutual-exclusion mechanism for concurrent inserts, so repositories
// use this to classify the losing insert.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsNoRows reports whether err means the query matched no rows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// WithTx executes fn inside a transaction on the pool.
// If fn returns an error the tx rolls back, else it commits.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
