package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache_BasicOperations(t *testing.T) {
	cache := NewInMemoryCache(10 * time.Millisecond)
	defer cache.Stop()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key1", []byte("value1"), time.Second))
	value, found, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value1"), value)

	_, found, err = cache.Get(ctx, "nonexistent")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryCache_ValuesAreCopied(t *testing.T) {
	cache := NewInMemoryCache(time.Second)
	defer cache.Stop()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, cache.Set(ctx, "k", original, time.Second))
	original[0] = 'x'

	got, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestInMemoryCache_Expiration(t *testing.T) {
	cache := NewInMemoryCache(10 * time.Millisecond)
	defer cache.Stop()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "expire", []byte("value"), 50*time.Millisecond))
	_, found, _ := cache.Get(ctx, "expire")
	assert.True(t, found)

	time.Sleep(60 * time.Millisecond)

	_, found, _ = cache.Get(ctx, "expire")
	assert.False(t, found)

	// the cleanup goroutine drops expired items
	assert.Eventually(t, func() bool { return cache.Size() == 0 }, time.Second, 10*time.Millisecond)
}

func TestInMemoryCache_DeleteAndClear(t *testing.T) {
	cache := NewInMemoryCache(time.Second)
	defer cache.Stop()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Second))
	assert.Equal(t, 2, cache.Size())

	require.NoError(t, cache.Delete(ctx, "a"))
	_, found, _ := cache.Get(ctx, "a")
	assert.False(t, found)
	assert.Equal(t, 1, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestInMemoryCache_Concurrency(t *testing.T) {
	cache := NewInMemoryCache(5 * time.Millisecond)
	defer cache.Stop()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%5)
			for j := 0; j < 100; j++ {
				_ = cache.Set(ctx, key, []byte{byte(j)}, time.Second)
				_, _, _ = cache.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, cache.Size())
}

func TestInMemoryCache_StopTwice(t *testing.T) {
	cache := NewInMemoryCache(time.Millisecond)
	cache.Stop()
	assert.NotPanics(t, cache.Stop)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, "geo:")

		mock.ExpectGet("geo:k").SetVal("payload")
		value, found, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("payload"), value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, "geo:")

		mock.ExpectGet("geo:k").RedisNil()
		value, found, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, "geo:")

		mock.ExpectGet("geo:k").SetErr(errors.New("connection refused"))
		_, found, err := c.Get(ctx, "k")
		assert.Error(t, err)
		assert.False(t, found)
	})

	t.Run("set and delete", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, "geo:")

		mock.ExpectSet("geo:k", []byte("v"), time.Hour).SetVal("OK")
		mock.ExpectDel("geo:k").SetVal(1)

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
		require.NoError(t, c.Delete(ctx, "k"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, "geo:")

		mock.ExpectSet("geo:k", []byte("v"), time.Hour).SetErr(errors.New("readonly"))
		assert.Error(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	})
}
