package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationSource maps a database driver to its migrations directory and the
// URL scheme golang-migrate expects.
var migrationSource = map[string]struct {
	dir    string
	scheme string
}{
	"postgres": {dir: "postgresql", scheme: "postgres"},
	"mysql":    {dir: "mysql", scheme: "mysql"},
	"sqlite3":  {dir: "sqlite3", scheme: "sqlite3"},
}

// RunMigrations applies every pending migration for driver. Returns nil when
// the schema is already current.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	source, ok := migrationSource[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver: %s", driver)
	}

	logger.Info("running database migrations", slog.String("driver", driver))

	m, err := migrate.New("file://migrations/"+source.dir, migrationURL(source.scheme, connectionString))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrationURL prefixes bare DSNs (mysql, sqlite file paths) with the scheme
// golang-migrate uses to pick its database driver.
func migrationURL(scheme, connectionString string) string {
	if strings.Contains(connectionString, "://") {
		return connectionString
	}
	return scheme + "://" + connectionString
}
