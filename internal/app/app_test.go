package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pledgebase/pledgebase/config"
	"github.com/Pledgebase/pledgebase/internal/repository"
	"github.com/Pledgebase/pledgebase/pkg/cache"
	"github.com/Pledgebase/pledgebase/pkg/geo"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

func createTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			CORSAllowOrigin: "https://app.pledgebase.org",
		},
		Security: config.SecurityConfig{JWTSecret: []byte("test-secret")},
		Geo:      config.GeoConfig{Locator: "sql", CacheTTL: time.Hour},
		LogLevel: "debug",
		Version:  config.VERSION,
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := cache.NewInMemoryCache(time.Minute)
	t.Cleanup(c.Stop)

	a := NewApp(cfg, WithMockDB(db), WithLogger(logger.NewTestLogger(t)), WithCache(c)).(*App)
	return a, mock
}

func TestNewApp_Options(t *testing.T) {
	a, _ := newTestApp(t, createTestConfig())

	assert.NotNil(t, a.GetDB())
	assert.NotNil(t, a.GetMux())
	assert.Equal(t, "https://app.pledgebase.org", a.GetConfig().Server.CORSAllowOrigin)
	assert.False(t, a.IsServerCreated())
	assert.Equal(t, int64(0), a.GetActiveRequestCount())
	assert.NoError(t, a.GetShutdownContext().Err())
}

func TestApp_InitRepositories_Locator(t *testing.T) {
	t.Run("sql locator behind the cache", func(t *testing.T) {
		a, _ := newTestApp(t, createTestConfig())
		require.NoError(t, a.InitRepositories())

		_, cached := a.GetCentroidLocator().(*repository.CachedCentroidLocator)
		assert.True(t, cached)
		assert.NotNil(t, a.GetContactRepository())
		assert.NotNil(t, a.GetContactListRepository())
		assert.NotNil(t, a.GetGroupRepository())
	})

	t.Run("memory locator without cache ttl", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Geo = config.GeoConfig{Locator: "memory"}
		a, mock := newTestApp(t, cfg)
		mock.ExpectQuery(`SELECT country_code, postal_code, latitude, longitude FROM postal_code_centroids`).
			WillReturnRows(sqlmock.NewRows([]string{"country_code", "postal_code", "latitude", "longitude"}).
				AddRow("DE", "10115", 52.5323, 13.3846))

		require.NoError(t, a.InitRepositories())

		_, inMemory := a.GetCentroidLocator().(*geo.MemoryLocator)
		assert.True(t, inMemory)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("memory locator load failure", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Geo.Locator = "memory"
		a, mock := newTestApp(t, cfg)
		mock.ExpectQuery(`FROM postal_code_centroids`).WillReturnError(assert.AnError)

		err := a.InitRepositories()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load postal code centroids")
	})
}

func TestApp_InitServices_RequiresSecret(t *testing.T) {
	cfg := createTestConfig()
	cfg.Security.JWTSecret = nil
	a, _ := newTestApp(t, cfg)
	require.NoError(t, a.InitRepositories())

	err := a.InitServices()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create auth service")
}

func TestApp_Initialize_RegistersRoutes(t *testing.T) {
	a, _ := newTestApp(t, createTestConfig())
	require.NoError(t, a.Initialize())

	handler := a.Handler()

	t.Run("health is public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://app.pledgebase.org", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("api routes require a token", func(t *testing.T) {
		for _, path := range []string{
			"/api/contacts.search",
			"/api/contactLists.list",
			"/api/groups.list",
			"/api/teams.addMember",
			"/api/events.participants",
		} {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path+"?team_id=t1", nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/contacts.search", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestApp_GracefulShutdownMiddleware(t *testing.T) {
	a, _ := newTestApp(t, createTestConfig())

	release := make(chan struct{})
	entered := make(chan struct{})
	slow := a.gracefulShutdownMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	rec := httptest.NewRecorder()
	go func() {
		defer wg.Done()
		slow.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	}()

	<-entered
	assert.Equal(t, int64(1), a.GetActiveRequestCount())

	a.shutdownCancel()

	refused := httptest.NewRecorder()
	slow.ServeHTTP(refused, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, refused.Code)
	assert.Contains(t, refused.Body.String(), "Server is shutting down")

	close(release)
	wg.Wait()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), a.GetActiveRequestCount())
}

func TestApp_Shutdown(t *testing.T) {
	t.Run("without server closes the database", func(t *testing.T) {
		a, mock := newTestApp(t, createTestConfig())
		mock.ExpectClose()

		require.NoError(t, a.Shutdown(context.Background()))
		assert.Error(t, a.GetShutdownContext().Err())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("running server", func(t *testing.T) {
		a, mock := newTestApp(t, createTestConfig())
		a.SetShutdownTimeout(2 * time.Second)
		mock.ExpectClose()

		errCh := make(chan error, 1)
		go func() { errCh <- a.Start() }()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.True(t, a.WaitForServerStart(ctx))

		require.NoError(t, a.Shutdown(ctx))
		assert.ErrorIs(t, <-errCh, http.ErrServerClosed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApp_WaitForServerStart_Timeout(t *testing.T) {
	a, _ := newTestApp(t, createTestConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, a.WaitForServerStart(ctx))
}
