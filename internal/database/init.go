package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Pledgebase/pledgebase/internal/database/schema"
)

// InitializeDatabase creates the baseline schema in a single transaction.
// Every statement is idempotent so it runs on each start.
func InitializeDatabase(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schema.TableDefinitions {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create %s: %w", statementTarget(i), err)
		}
	}
	return tx.Commit()
}

// statementTarget names the table a definition creates; trailing
// definitions are indexes
func statementTarget(i int) string {
	if i < len(schema.TableNames) {
		return "table " + schema.TableNames[i]
	}
	return fmt.Sprintf("schema object #%d", i+1)
}
