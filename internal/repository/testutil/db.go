package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// SetupMockDB creates a mock database connection for testing. Queries are
// matched as regular expressions.
func SetupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return db, mock, cleanup
}

// SetupStrictMockDB is SetupMockDB with an expectation check on cleanup
func SetupStrictMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, cleanup := SetupMockDB(t)
	return db, mock, func() {
		require.NoError(t, mock.ExpectationsWereMet())
		cleanup()
	}
}
