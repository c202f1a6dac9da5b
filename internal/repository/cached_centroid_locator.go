package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/cache"
	"github.com/Pledgebase/pledgebase/pkg/geo"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

// cachedRadius is the cached outcome of one radius lookup
type cachedRadius struct {
	Keys    []domain.PostalCodeKey `json:"keys,omitempty"`
	Missing bool                   `json:"missing,omitempty"`
}

// CachedCentroidLocator memoizes radius lookups of another locator. Unknown
// origins are cached too. Cache failures are logged and the lookup falls
// through to the wrapped locator.
type CachedCentroidLocator struct {
	next   domain.CentroidLocator
	cache  cache.Cache
	ttl    time.Duration
	logger logger.Logger
	group  singleflight.Group
}

// NewCachedCentroidLocator wraps next with a cache
func NewCachedCentroidLocator(next domain.CentroidLocator, c cache.Cache, ttl time.Duration, log logger.Logger) *CachedCentroidLocator {
	return &CachedCentroidLocator{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: log,
	}
}

func (l *CachedCentroidLocator) PostalCodesWithinRadius(ctx context.Context, origin domain.PostalCodeKey, radiusKm float64) ([]domain.PostalCodeKey, error) {
	origin = geo.NormalizeKey(origin)
	key := radiusCacheKey(origin, radiusKm)

	if raw, ok, err := l.cache.Get(ctx, key); err != nil {
		l.logger.WithField("cache_key", key).WithField("error", err.Error()).Warn("Centroid cache read failed")
	} else if ok {
		var cached cachedRadius
		if err := json.Unmarshal(raw, &cached); err == nil {
			if cached.Missing {
				return nil, domain.ErrCentroidNotFound
			}
			return cached.Keys, nil
		}
		l.logger.WithField("cache_key", key).Warn("Discarding undecodable centroid cache entry")
	}

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		keys, err := l.next.PostalCodesWithinRadius(ctx, origin, radiusKm)
		switch {
		case errors.Is(err, domain.ErrCentroidNotFound):
			l.store(ctx, key, cachedRadius{Missing: true})
		case err == nil:
			l.store(ctx, key, cachedRadius{Keys: keys})
		}
		return keys, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.PostalCodeKey), nil
}

func (l *CachedCentroidLocator) store(ctx context.Context, key string, value cachedRadius) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, key, raw, l.ttl); err != nil {
		l.logger.WithField("cache_key", key).WithField("error", err.Error()).Warn("Centroid cache write failed")
	}
}

func radiusCacheKey(origin domain.PostalCodeKey, radiusKm float64) string {
	return fmt.Sprintf("centroids:within:%s:%s:%s",
		origin.CountryCode, origin.PostalCode, strconv.FormatFloat(radiusKm, 'f', -1, 64))
}
