package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Environment: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg = &Config{Environment: "production"}
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestLoadWithOptions(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("DB_HOST", "testhost")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "test_crm")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("GEO_LOCATOR", "memory")
	t.Setenv("GEO_CACHE_TTL", "90m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOW_ORIGIN", "https://app.pledgebase.org")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "https://app.pledgebase.org", cfg.Server.CORSAllowOrigin)
	assert.Equal(t, "testhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "testuser", cfg.Database.User)
	assert.Equal(t, "testpass", cfg.Database.Password)
	assert.Equal(t, "test_crm", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, []byte("test-secret"), cfg.Security.JWTSecret)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "memory", cfg.Geo.Locator)
	assert.Equal(t, 90*time.Minute, cfg.Geo.CacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadWithOptions_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "*", cfg.Server.CORSAllowOrigin)
	assert.Equal(t, "pledgebase", cfg.Database.DBName)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "sql", cfg.Geo.Locator)
	assert.Equal(t, 24*time.Hour, cfg.Geo.CacheTTL)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "pledgebase-api", cfg.Tracing.ServiceName)
	assert.Equal(t, "none", cfg.Tracing.TraceExporter)
	assert.Equal(t, 9464, cfg.Tracing.PrometheusPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, VERSION, cfg.Version)
	assert.True(t, cfg.IsProduction())
}

func TestLoadWithOptions_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadWithOptions(LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestLoadWithOptions_InvalidGeoLocator(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GEO_LOCATOR", "postgis")

	_, err := LoadWithOptions(LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEO_LOCATOR")
}

func TestLoadWithOptions_EnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("JWT_SECRET=from-file\nDB_NAME=file_db\n"), 0o600))

	t.Chdir(dir)

	cfg, err := LoadWithOptions(LoadOptions{EnvFile: ".env.test"})
	require.NoError(t, err)
	assert.Equal(t, []byte("from-file"), cfg.Security.JWTSecret)
	assert.Equal(t, "file_db", cfg.Database.DBName)
}

func TestLoadWithOptions_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Chdir(t.TempDir())

	_, err := LoadWithOptions(LoadOptions{EnvFile: ".env.absent"})
	assert.NoError(t, err)
}
