package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, key := range []string{"APP_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_SSLMODE", "REDIS_HOST", "REDIS_PORT", "CACHE_TTL_SECONDS", "LOG_DIR", "RATE_LIMIT_MAX"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, 3004, cfg.AppPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "todo", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 3600, cfg.CacheTTLSeconds)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("DB_USER", "peter")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "todo_test")
	t.Setenv("DB_SSLMODE", "disable")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg := LoadConfig()

	assert.Equal(t, "host=db port=15432 user=peter password=secret dbname=todo_test sslmode=disable", cfg.DSN())
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}

func TestLoadConfigBadIntFallsBack(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DB_PORT", "not-a-port")

	assert.Equal(t, 5432, LoadConfig().DBPort)
}
