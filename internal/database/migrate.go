package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending migration for driver. It uses its own connection because
// closing the migrate instance closes the database handle it was given.
func Migrate(driver, connStr string) error {
	migrateDB, err := sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("opening migration database: %w", err)
	}
	defer migrateDB.Close()

	var (
		instance migratedb.Driver
		dir      string
	)

	switch driver {
	case "sqlite":
		instance, err = sqlite.WithInstance(migrateDB, &sqlite.Config{})
		dir = "migrations/sqlite"
	case "pgx":
		instance, err = migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
		dir = "migrations/postgres"
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	if err != nil {
		return fmt.Errorf("creating %s migration driver: %w", driver, err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
