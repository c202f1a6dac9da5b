package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/geo"
)

// haversineKm is the great-circle distance in km between the row's centroid
// and a point. Placeholders: earth radius, latitude, latitude, longitude.
const haversineKm = `(2 * ? * asin(sqrt(
	power(sin(radians(latitude - ?) / 2), 2) +
	cos(radians(?)) * cos(radians(latitude)) * power(sin(radians(longitude - ?) / 2), 2)
)))`

// PostalCentroidRepository answers radius queries over postal_code_centroids
type PostalCentroidRepository struct {
	db *sql.DB
}

// NewPostalCentroidRepository creates a SQL backed centroid locator
func NewPostalCentroidRepository(db *sql.DB) *PostalCentroidRepository {
	return &PostalCentroidRepository{db: db}
}

// GetCentroid returns the centroid of the normalized key
func (r *PostalCentroidRepository) GetCentroid(ctx context.Context, key domain.PostalCodeKey) (*domain.PostalCodeCentroid, error) {
	key = geo.NormalizeKey(key)

	centroid := domain.PostalCodeCentroid{Key: key}
	err := r.db.QueryRowContext(ctx,
		`SELECT latitude, longitude FROM postal_code_centroids WHERE country_code = $1 AND postal_code = $2`,
		key.CountryCode, key.PostalCode,
	).Scan(&centroid.Latitude, &centroid.Longitude)
	if err == sql.ErrNoRows {
		return nil, domain.ErrCentroidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get postal centroid: %w", err)
	}
	return &centroid, nil
}

// PostalCodesWithinRadius returns the postal keys within radiusKm of the
// origin centroid. A bounding box narrows the scan before the exact distance.
func (r *PostalCentroidRepository) PostalCodesWithinRadius(ctx context.Context, origin domain.PostalCodeKey, radiusKm float64) ([]domain.PostalCodeKey, error) {
	center, err := r.GetCentroid(ctx, origin)
	if err != nil {
		return nil, err
	}

	point := geo.Point{Latitude: center.Latitude, Longitude: center.Longitude}
	box := geo.BoundingBoxAround(point, radiusKm)

	query, args, err := psql.Select("country_code", "postal_code").
		From("postal_code_centroids").
		Where(sq.Expr("latitude BETWEEN ? AND ?", box.MinLatitude, box.MaxLatitude)).
		Where(sq.Expr("longitude BETWEEN ? AND ?", box.MinLongitude, box.MaxLongitude)).
		Where(sq.Expr(haversineKm+" <= ?",
			geo.EarthRadiusKm, point.Latitude, point.Latitude, point.Longitude, radiusKm,
		)).
		OrderBy("country_code ASC", "postal_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build radius query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query postal centroids: %w", err)
	}
	defer rows.Close()

	keys := make([]domain.PostalCodeKey, 0)
	for rows.Next() {
		var key domain.PostalCodeKey
		if err := rows.Scan(&key.CountryCode, &key.PostalCode); err != nil {
			return nil, fmt.Errorf("failed to scan postal centroid: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postal centroids: %w", err)
	}
	return keys, nil
}

// ListCentroids returns the whole centroid table, used to load the in-memory locator
func (r *PostalCentroidRepository) ListCentroids(ctx context.Context) ([]domain.PostalCodeCentroid, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT country_code, postal_code, latitude, longitude FROM postal_code_centroids`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list postal centroids: %w", err)
	}
	defer rows.Close()

	centroids := make([]domain.PostalCodeCentroid, 0)
	for rows.Next() {
		var c domain.PostalCodeCentroid
		if err := rows.Scan(&c.CountryCode, &c.PostalCode, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan postal centroid: %w", err)
		}
		centroids = append(centroids, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postal centroids: %w", err)
	}
	return centroids, nil
}

// UpsertCentroids stores centroids under their normalized keys
func (r *PostalCentroidRepository) UpsertCentroids(ctx context.Context, centroids []domain.PostalCodeCentroid) error {
	if len(centroids) == 0 {
		return nil
	}

	insert := psql.Insert("postal_code_centroids").
		Columns("country_code", "postal_code", "latitude", "longitude")
	for _, c := range centroids {
		key := geo.NormalizeKey(c.Key)
		insert = insert.Values(key.CountryCode, key.PostalCode, c.Latitude, c.Longitude)
	}
	query, args, err := insert.
		Suffix("ON CONFLICT (country_code, postal_code) DO UPDATE SET latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert postal centroids: %w", err)
	}
	return nil
}
