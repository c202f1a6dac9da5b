package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/domain/mocks"
	"github.com/Pledgebase/pledgebase/pkg/cache"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("redis down")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis down")
}

func (failingCache) Delete(context.Context, string) error { return nil }

func TestCachedCentroidLocator(t *testing.T) {
	berlin := domain.PostalCodeKey{CountryCode: "DE", PostalCode: "10115"}
	nearby := []domain.PostalCodeKey{berlin, {CountryCode: "DE", PostalCode: "10117"}}

	t.Run("second lookup is served from the cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		next := mocks.NewMockCentroidLocator(ctrl)
		next.EXPECT().PostalCodesWithinRadius(gomock.Any(), berlin, 5.0).Return(nearby, nil).Times(1)

		c := cache.NewInMemoryCache(time.Minute)
		defer c.Stop()
		locator := NewCachedCentroidLocator(next, c, time.Hour, logger.NewTestLogger(t))

		for i := 0; i < 2; i++ {
			// lower case alpha-3 normalizes to the same cache key
			keys, err := locator.PostalCodesWithinRadius(context.Background(),
				domain.PostalCodeKey{CountryCode: "deu", PostalCode: " 10115 "}, 5)
			require.NoError(t, err)
			assert.Equal(t, nearby, keys)
		}
		assert.Equal(t, 1, c.Size())
	})

	t.Run("radius is part of the key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		next := mocks.NewMockCentroidLocator(ctrl)
		next.EXPECT().PostalCodesWithinRadius(gomock.Any(), berlin, 5.0).Return(nearby, nil)
		next.EXPECT().PostalCodesWithinRadius(gomock.Any(), berlin, 2.5).Return(nearby[:1], nil)

		c := cache.NewInMemoryCache(time.Minute)
		defer c.Stop()
		locator := NewCachedCentroidLocator(next, c, time.Hour, logger.NewTestLogger(t))

		keys, err := locator.PostalCodesWithinRadius(context.Background(), berlin, 5)
		require.NoError(t, err)
		assert.Len(t, keys, 2)

		keys, err = locator.PostalCodesWithinRadius(context.Background(), berlin, 2.5)
		require.NoError(t, err)
		assert.Len(t, keys, 1)
	})

	t.Run("unknown origins are cached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		next := mocks.NewMockCentroidLocator(ctrl)
		next.EXPECT().PostalCodesWithinRadius(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, domain.ErrCentroidNotFound).Times(1)

		c := cache.NewInMemoryCache(time.Minute)
		defer c.Stop()
		locator := NewCachedCentroidLocator(next, c, time.Hour, logger.NewTestLogger(t))

		for i := 0; i < 2; i++ {
			_, err := locator.PostalCodesWithinRadius(context.Background(),
				domain.PostalCodeKey{CountryCode: "DE", PostalCode: "00000"}, 5)
			assert.ErrorIs(t, err, domain.ErrCentroidNotFound)
		}
	})

	t.Run("other errors are not cached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		next := mocks.NewMockCentroidLocator(ctrl)
		next.EXPECT().PostalCodesWithinRadius(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("timeout")).Times(2)

		c := cache.NewInMemoryCache(time.Minute)
		defer c.Stop()
		locator := NewCachedCentroidLocator(next, c, time.Hour, logger.NewTestLogger(t))

		for i := 0; i < 2; i++ {
			_, err := locator.PostalCodesWithinRadius(context.Background(), berlin, 5)
			assert.Error(t, err)
		}
		assert.Equal(t, 0, c.Size())
	})

	t.Run("cache failures fall through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		next := mocks.NewMockCentroidLocator(ctrl)
		next.EXPECT().PostalCodesWithinRadius(gomock.Any(), berlin, 5.0).Return(nearby, nil).Times(2)

		locator := NewCachedCentroidLocator(next, failingCache{}, time.Hour, logger.NewTestLogger(t))
		for i := 0; i < 2; i++ {
			keys, err := locator.PostalCodesWithinRadius(context.Background(), berlin, 5)
			require.NoError(t, err)
			assert.Equal(t, nearby, keys)
		}
	})

	t.Run("undecodable entries are ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		next := mocks.NewMockCentroidLocator(ctrl)
		next.EXPECT().PostalCodesWithinRadius(gomock.Any(), berlin, 5.0).Return(nearby, nil)

		c := cache.NewInMemoryCache(time.Minute)
		defer c.Stop()
		require.NoError(t, c.Set(context.Background(), radiusCacheKey(berlin, 5), []byte("not json"), time.Hour))

		locator := NewCachedCentroidLocator(next, c, time.Hour, logger.NewTestLogger(t))
		keys, err := locator.PostalCodesWithinRadius(context.Background(), berlin, 5)
		require.NoError(t, err)
		assert.Equal(t, nearby, keys)
	})
}

func TestRadiusCacheKey(t *testing.T) {
	assert.Equal(t, "centroids:within:DE:10115:12.5",
		radiusCacheKey(domain.PostalCodeKey{CountryCode: "DE", PostalCode: "10115"}, 12.5))
}
