package migrations

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV2Migration(t *testing.T) {
	ctx := context.Background()

	t.Run("folds duplicates before indexing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO user_groups").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("UPDATE contacts c").WillReturnResult(sqlmock.NewResult(0, 5))
		mock.ExpectExec("DELETE FROM groups g").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS groups_one_default_per_team").WillReturnResult(sqlmock.NewResult(0, 0))

		m := &V2Migration{}
		assert.Equal(t, 2, m.Version())
		require.NoError(t, m.Up(ctx, db))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO user_groups").WillReturnError(errors.New("deadlock detected"))

		err = (&V2Migration{}).Up(ctx, db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to move memberships")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
