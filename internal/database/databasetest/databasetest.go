// Package databasetest opens throwaway migrated SQLite databases for store tests.
package databasetest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/database"
)

// New returns a migrated SQLite database living in t's temp dir, closed on cleanup.
func New(t testing.TB) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tally.db")
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := database.New("sqlite", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}
