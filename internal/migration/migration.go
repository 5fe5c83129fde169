package migration

import (
	"context"

	"pspicdash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the preference store schema. Statements are written
// to run unchanged on Postgres and SQLite.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order; it is safe to run repeatedly
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSchemaVersionTable(ctx, db); err != nil {
		return errors.Storage("failed to create schema_version table", err)
	}

	if err := r.createPreferencesTable(ctx, db); err != nil {
		return errors.Storage("failed to create ui_preferences table", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Storage("failed to create indexes", err)
	}

	if err := r.recordVersion(ctx, db); err != nil {
		return errors.Storage("failed to record schema version", err)
	}

	return nil
}

func (r *MigrationRunner) createSchemaVersionTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version VARCHAR(32) PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (r *MigrationRunner) createPreferencesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ui_preferences (
			session_id VARCHAR(64) PRIMARY KEY,
			active_section VARCHAR(64) NOT NULL DEFAULT 'home',
			expanded_year VARCHAR(8) NOT NULL DEFAULT '2025',
			updated_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_ui_preferences_updated_at ON ui_preferences(updated_at)
	`)
	return err
}

func (r *MigrationRunner) recordVersion(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx,
		db.Rebind(`INSERT INTO schema_version (version) VALUES (?) ON CONFLICT (version) DO NOTHING`),
		r.version)
	return err
}

// AppliedVersions lists the recorded schema versions
func AppliedVersions(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var versions []string
	if err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_version ORDER BY version`); err != nil {
		return nil, errors.Storage("failed to read schema versions", err)
	}
	return versions, nil
}
