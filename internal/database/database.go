package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens the database for driver ("sqlite" or "pgx"), applies pending migrations and
// configures the pool.
func New(driver, connStr string) (*sql.DB, error) {
	if err := Migrate(driver, connStr); err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if driver == "sqlite" {
		// SQLite allows one writer; a single connection keeps writers queued in the pool
		// instead of failing with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

// Date columns are stored as ISO-8601 text so both engines compare them lexically.

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// NullDate formats an optional date for a nullable column.
func NullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: FormatDate(*t), Valid: true}
}

// ParseNullDate is the inverse of NullDate.
func ParseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}

	t, err := ParseDate(s.String)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
