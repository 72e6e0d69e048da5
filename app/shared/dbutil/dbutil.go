// Package dbutil opens the bun connection and interprets Postgres errors
// independently of the driver in use.
package dbutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Open connects to Postgres through pgdriver and verifies the connection.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// IsUniqueViolation reports whether err is a unique constraint violation. When
// constraint is non-empty the violated constraint must also match.
func IsUniqueViolation(err error, constraint string) bool {
	code, name := pgErrorFields(err)
	if code != uniqueViolation {
		return false
	}
	return constraint == "" || strings.EqualFold(name, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign key violation, such as
// deleting a row that a RESTRICT reference still points at. When constraint is
// non-empty the violated constraint must also match.
func IsForeignKeyViolation(err error, constraint string) bool {
	code, name := pgErrorFields(err)
	if code != foreignKeyViolation {
		return false
	}
	return constraint == "" || strings.EqualFold(name, constraint)
}

// UniqueViolationDetail returns the DETAIL text of a unique violation, e.g.
// "Key (event_date, rider_id)=(2025-11-04, 7) already exists."
func UniqueViolationDetail(err error) string {
	var pgdErr pgdriver.Error
	if errors.As(err, &pgdErr) {
		return pgdErr.Field('D')
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Detail
	}
	return ""
}

func pgErrorFields(err error) (code, constraint string) {
	if err == nil {
		return "", ""
	}
	var pgdErr pgdriver.Error
	if errors.As(err, &pgdErr) {
		return pgdErr.Field('C'), pgdErr.Field('n')
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName
	}
	return "", ""
}

// AdvisoryXactLock takes a transaction-scoped advisory lock on key. It must run
// inside a transaction; the lock is released at commit or rollback.
func AdvisoryXactLock(ctx context.Context, db bun.IDB, key string) error {
	if _, err := db.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key); err != nil {
		return fmt.Errorf("failed to acquire advisory lock %q: %w", key, err)
	}
	return nil
}
