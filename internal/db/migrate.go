package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// dialectMap maps database drivers to Goose dialect names
var dialectMap = map[string]goose.Dialect{
	"sqlite": goose.DialectSQLite3,
	"pgx":    goose.DialectPostgres,
}

// migrationDirs maps database drivers to their migration directory
var migrationDirs = map[string]string{
	"sqlite": "migrations/sqlite",
	"pgx":    "migrations/postgres",
}

// newProvider builds a goose provider for the driver's dialect and migration set
func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	dialect, ok := dialectMap[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	migrationsDir, err := fs.Sub(migrationsFS, migrationDirs[driver])
	if err != nil {
		return nil, fmt.Errorf("failed to get migrations directory: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	provider, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("migrations completed successfully", "applied", len(results))
	return nil
}

func MigrateDown(ctx context.Context, db *sql.DB, driver string) error {
	provider, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	result, err := provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	if result != nil {
		slog.Info("rolled back one migration", "version", result.Source.Version)
	}
	return nil
}

// MigrationStatus reports each known migration version and whether it is applied
func MigrationStatus(ctx context.Context, db *sql.DB, driver string) (map[int64]bool, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make(map[int64]bool, len(statuses))
	for _, s := range statuses {
		out[s.Source.Version] = s.State == goose.StateApplied
	}
	return out, nil
}
