package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/repository/testutil"
)

type atLeast float64

func (a atLeast) Match(v driver.Value) bool {
	f, ok := v.(float64)
	return ok && f >= float64(a)
}

type atMost float64

func (a atMost) Match(v driver.Value) bool {
	f, ok := v.(float64)
	return ok && f <= float64(a)
}

func TestPostalCentroidRepository_PostalCodesWithinRadius(t *testing.T) {
	t.Run("normalizes the origin and filters by distance", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupStrictMockDB(t)
		defer cleanup()

		repo := NewPostalCentroidRepository(db)

		mock.ExpectQuery(`SELECT latitude, longitude FROM postal_code_centroids WHERE country_code = \$1 AND postal_code = \$2`).
			WithArgs("US", "94107").
			WillReturnRows(sqlmock.NewRows([]string{"latitude", "longitude"}).AddRow(37.7697, -122.3933))
		mock.ExpectQuery(`SELECT country_code, postal_code FROM postal_code_centroids WHERE latitude BETWEEN \$1 AND \$2 AND longitude BETWEEN \$3 AND \$4 AND \(2 \* \$5 \* asin(.+)\) <= \$9 ORDER BY country_code ASC, postal_code ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"country_code", "postal_code"}).
				AddRow("US", "94103").
				AddRow("US", "94107"))

		keys, err := repo.PostalCodesWithinRadius(context.Background(),
			domain.PostalCodeKey{CountryCode: "usa", PostalCode: " 94107-1234 "}, 5)
		require.NoError(t, err)
		assert.Equal(t, []domain.PostalCodeKey{
			{CountryCode: "US", PostalCode: "94103"},
			{CountryCode: "US", PostalCode: "94107"},
		}, keys)
	})

	t.Run("high latitude prefilter keeps the whole circle", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupStrictMockDB(t)
		defer cleanup()

		repo := NewPostalCentroidRepository(db)

		mock.ExpectQuery(`SELECT latitude, longitude FROM postal_code_centroids`).
			WithArgs("NO", "9000").
			WillReturnRows(sqlmock.NewRows([]string{"latitude", "longitude"}).AddRow(70.0, 20.0))
		anyArg := sqlmock.AnyArg()
		mock.ExpectQuery(`SELECT country_code, postal_code FROM postal_code_centroids WHERE latitude BETWEEN`).
			WithArgs(anyArg, anyArg, atMost(-6.9), atLeast(46.9), anyArg, anyArg, anyArg, anyArg, anyArg).
			WillReturnRows(sqlmock.NewRows([]string{"country_code", "postal_code"}).
				AddRow("NO", "9000").
				AddRow("RU", "183000"))

		keys, err := repo.PostalCodesWithinRadius(context.Background(),
			domain.PostalCodeKey{CountryCode: "NO", PostalCode: "9000"}, 1000)
		require.NoError(t, err)
		assert.Len(t, keys, 2)
	})

	t.Run("unknown origin", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupStrictMockDB(t)
		defer cleanup()

		repo := NewPostalCentroidRepository(db)

		mock.ExpectQuery(`FROM postal_code_centroids WHERE country_code`).
			WithArgs("DE", "99999").
			WillReturnRows(sqlmock.NewRows([]string{"latitude", "longitude"}))

		_, err := repo.PostalCodesWithinRadius(context.Background(),
			domain.PostalCodeKey{CountryCode: "DE", PostalCode: "99999"}, 10)
		assert.ErrorIs(t, err, domain.ErrCentroidNotFound)
	})

	t.Run("database failure is not a missing centroid", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupStrictMockDB(t)
		defer cleanup()

		repo := NewPostalCentroidRepository(db)

		mock.ExpectQuery(`FROM postal_code_centroids`).WillReturnError(errors.New("timeout"))

		_, err := repo.PostalCodesWithinRadius(context.Background(),
			domain.PostalCodeKey{CountryCode: "DE", PostalCode: "10115"}, 10)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrCentroidNotFound)
	})
}

func TestPostalCentroidRepository_ListAndUpsert(t *testing.T) {
	db, mock, cleanup := testutil.SetupStrictMockDB(t)
	defer cleanup()

	repo := NewPostalCentroidRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO postal_code_centroids \(country_code,postal_code,latitude,longitude\) VALUES \(\$1,\$2,\$3,\$4\) ON CONFLICT`).
		WithArgs("DE", "10115", 52.532, 13.3849).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpsertCentroids(ctx, []domain.PostalCodeCentroid{
		{Key: domain.PostalCodeKey{CountryCode: "deu", PostalCode: "10115"}, Latitude: 52.532, Longitude: 13.3849},
	}))
	require.NoError(t, repo.UpsertCentroids(ctx, nil))

	mock.ExpectQuery(`SELECT country_code, postal_code, latitude, longitude FROM postal_code_centroids`).
		WillReturnRows(sqlmock.NewRows([]string{"country_code", "postal_code", "latitude", "longitude"}).
			AddRow("DE", "10115", 52.532, 13.3849))
	centroids, err := repo.ListCentroids(ctx)
	require.NoError(t, err)
	require.Len(t, centroids, 1)
	assert.Equal(t, "DE", centroids[0].CountryCode)
}
