package domain

import (
	"context"

	"github.com/Pledgebase/pledgebase/pkg/geo"
)

//go:generate mockgen -destination mocks/mock_centroid_locator.go -package mocks github.com/Pledgebase/pledgebase/internal/domain CentroidLocator

// PostalCodeKey identifies a postal area in its normalized form
type PostalCodeKey = geo.Key

// PostalCodeCentroid maps (country, postal code) to a coordinate
type PostalCodeCentroid = geo.Centroid

// CentroidLocator answers radius queries over the postal centroid table.
// Implementations return ErrCentroidNotFound when the origin has no centroid.
type CentroidLocator interface {
	// PostalCodesWithinRadius returns every postal area whose centroid lies
	// within radiusKm of the origin's centroid, the origin included.
	PostalCodesWithinRadius(ctx context.Context, origin PostalCodeKey, radiusKm float64) ([]PostalCodeKey, error)
}
