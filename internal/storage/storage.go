// Package storage is the persistence layer. Repositories hold a pool for
// plain reads and take an explicit transaction wherever row locks or
// multi-statement atomicity matter.
package storage

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"slotbook/libs/db"
)

//go:embed schema.sql
var schemaSQL string

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, for
// statements that run the same inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Migrate applies the embedded schema. Statements are idempotent, so
// re-running on boot is safe. They are executed one at a time because the
// extended protocol rejects multi-statement strings.
func Migrate(ctx context.Context, pool *db.Pool) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsConflict reports whether err is a contention error: unique or
// exclusion violation, lock timeout, or serialization failure. Callers
// surface these as booking conflicts rather than server faults.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "23505", "23P01", "55P03", "40001":
		return true
	}
	return false
}
