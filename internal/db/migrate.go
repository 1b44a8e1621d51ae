package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/metaember/habitsv2/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// setupGoose configures goose with the postgres dialect and the embedded
// migrations filesystem.
func setupGoose() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}
	goose.SetBaseFS(migrationsDir)
	return nil
}

// RunMigrations applies all pending migrations. It opens a short-lived
// database/sql connection via the pgx stdlib driver since goose does not
// speak the pgx pool API directly.
func RunMigrations(databaseURL string) error {
	if err := setupGoose(); err != nil {
		return err
	}

	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer conn.Close()

	if err := goose.Up(conn, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(databaseURL string) error {
	if err := setupGoose(); err != nil {
		return err
	}

	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer conn.Close()

	if err := goose.Down(conn, "."); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	logger.Info("rolled back one migration")
	return nil
}
