package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "employee-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:3000", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "*", cfg.App.CORSAllowOrigins)
	assert.Equal(t, "employees.events", cfg.Redis.EventsChannel)
	assert.Equal(t, 500*time.Millisecond, cfg.Redis.Timeout)
	assert.Equal(t, 1, cfg.Redis.MaxRetries)
	assert.Equal(t, 0, cfg.App.RateLimitRPS)
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported STORE_DRIVER")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("HTTP_RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.SQLite.Path)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, 0, cfg.App.RateLimitRPS)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_DB", "x")

	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_DB")
}
