package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/applytrack/applytrack/internal/pkg/logger"
)

// Migrator applies file-based SQL migrations, tracking applied
// versions in a schema_migrations table.
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{db: db}
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

func (m *Migrator) recordMigration(ctx context.Context, version string) error {
	_, err := m.db.Exec(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`, version, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// MigrateFromFile applies a single migration file. The version is the
// filename prefix before the first underscore; already-applied
// versions are skipped.
func (m *Migrator) MigrateFromFile(filePath string) error {
	ctx := context.Background()

	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	filename := filepath.Base(filePath)
	version := strings.Split(filename, "_")[0]

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		logger.Debug().Str("migration", filename).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("error applying migration %s: %w", filename, err)
	}

	if err := m.recordMigration(ctx, version); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	logger.Info().Str("migration", filename).Msg("Migration applied")
	return nil
}

// MigrateFromDirectory applies every .sql file in a directory in
// lexical order.
func (m *Migrator) MigrateFromDirectory(dirPath string) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		if err := m.MigrateFromFile(filepath.Join(dirPath, file)); err != nil {
			return err
		}
	}

	return nil
}
