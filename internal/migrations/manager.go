package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/Pledgebase/pledgebase/pkg/logger"
)

const (
	selectDBVersion = `SELECT value FROM settings WHERE key = 'db_version'`
	upsertDBVersion = `INSERT INTO settings (key, value) VALUES ('db_version', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`
)

// Manager brings the schema version stored in settings.db_version up to the
// code version
type Manager struct {
	logger   logger.Logger
	registry *Registry
}

// NewManager creates a manager over the schema migrations of this package
func NewManager(logger logger.Logger) *Manager {
	return &Manager{logger: logger, registry: schemaMigrations}
}

// DBVersion returns the stored schema version; ok is false on a fresh database
func (m *Manager) DBVersion(ctx context.Context, db DBExecutor) (version int, ok bool, err error) {
	var raw string
	if err := db.QueryRowContext(ctx, selectDBVersion).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read database version: %w", err)
	}
	version, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid database version format '%s': %w", raw, err)
	}
	return version, true, nil
}

func (m *Manager) setDBVersion(ctx context.Context, db DBExecutor, version int) error {
	if _, err := db.ExecContext(ctx, upsertDBVersion, strconv.Itoa(version)); err != nil {
		return fmt.Errorf("failed to set database version to %d: %w", version, err)
	}
	return nil
}

// RunMigrations applies every pending migration, each in its own transaction
// together with the version bump. A fresh database starts at BaselineVersion.
func (m *Manager) RunMigrations(ctx context.Context, db *sql.DB) error {
	current, ok, err := m.DBVersion(ctx, db)
	if err != nil {
		return err
	}
	target, err := CodeVersion()
	if err != nil {
		return fmt.Errorf("failed to get current code version: %w", err)
	}
	if !ok {
		m.logger.WithField("baseline", BaselineVersion).Info("First run detected, starting from baseline schema")
		current = BaselineVersion
	}

	m.logger.WithFields(map[string]interface{}{
		"db_version":   current,
		"code_version": target,
	}).Info("Checking schema version")

	pending := m.registry.Between(current, target)
	for _, migration := range pending {
		if err := m.apply(ctx, db, migration); err != nil {
			return fmt.Errorf("migration failed for version %d: %w", migration.Version(), err)
		}
		current = migration.Version()
	}

	// versions without a migration still need recording
	switch {
	case current < target:
		if err := m.setDBVersion(ctx, db, target); err != nil {
			return err
		}
	case !ok && len(pending) == 0:
		if err := m.setDBVersion(ctx, db, current); err != nil {
			return err
		}
	}

	if len(pending) == 0 {
		m.logger.Info("Database is up to date, no migrations needed")
	}
	return nil
}

func (m *Manager) apply(ctx context.Context, db *sql.DB, migration Migration) error {
	log := m.logger.WithField("version", migration.Version())
	log.WithField("description", migration.Description()).Info("Executing migration")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := migration.Up(ctx, tx); err != nil {
		return err
	}
	if err := m.setDBVersion(ctx, tx, migration.Version()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	log.Info("Migration completed")
	return nil
}
