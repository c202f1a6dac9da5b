package geo

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrCentroidNotFound is returned when no coordinates are known for a postal code
var ErrCentroidNotFound = errors.New("postal code centroid not found")

// Key identifies a postal area in its normalized form
type Key struct {
	CountryCode string `json:"country_code"`
	PostalCode  string `json:"postal_code"`
}

// Centroid maps a postal area to its centroid
type Centroid struct {
	Key
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MemoryLocator answers radius queries over a centroid table held in memory
type MemoryLocator struct {
	mu        sync.RWMutex
	centroids map[Key]Point
}

// NewMemoryLocator builds a locator from centroids; keys are normalized on load
func NewMemoryLocator(centroids []Centroid) *MemoryLocator {
	l := &MemoryLocator{centroids: make(map[Key]Point, len(centroids))}
	for _, c := range centroids {
		l.Put(c)
	}
	return l
}

// Put adds or replaces a centroid
func (l *MemoryLocator) Put(c Centroid) {
	key := NormalizeKey(c.Key)
	l.mu.Lock()
	l.centroids[key] = Point{Latitude: c.Latitude, Longitude: c.Longitude}
	l.mu.Unlock()
}

// Len returns the number of loaded centroids
func (l *MemoryLocator) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.centroids)
}

// PostalCodesWithinRadius returns every postal area within radiusKm of the
// origin centroid, sorted, or ErrCentroidNotFound
func (l *MemoryLocator) PostalCodesWithinRadius(ctx context.Context, origin Key, radiusKm float64) ([]Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	center, ok := l.centroids[NormalizeKey(origin)]
	if !ok {
		return nil, ErrCentroidNotFound
	}

	box := BoundingBoxAround(center, radiusKm)
	var keys []Key
	for key, p := range l.centroids {
		if !box.Contains(p) {
			continue
		}
		if DistanceKm(center, p) <= radiusKm {
			keys = append(keys, key)
		}
	}
	SortKeys(keys)
	return keys, nil
}

// NormalizeKey returns the canonical form of a postal key
func NormalizeKey(key Key) Key {
	country := NormalizeCountryCode(key.CountryCode)
	return Key{
		CountryCode: country,
		PostalCode:  NormalizePostalCode(country, key.PostalCode),
	}
}

// SortKeys orders keys by country then postal code
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CountryCode != keys[j].CountryCode {
			return keys[i].CountryCode < keys[j].CountryCode
		}
		return keys[i].PostalCode < keys[j].PostalCode
	})
}
