package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("AI_PROVIDER")
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("MIGRATION_BATCH_SIZE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "none", cfg.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2*time.Second, cfg.AI.MinCallInterval)
	assert.Equal(t, 10, cfg.Migration.BatchSize)
	assert.Equal(t, " | Minik Tarifler", cfg.Migration.BrandSuffix)
	assert.Equal(t, 30*time.Minute, cfg.Migration.LockTTL)
}

func TestLoad_AIConfig(t *testing.T) {
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("AI_API_KEY", "test-key")
	t.Setenv("AI_MODEL", "claude-sonnet-4-5")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("AI_MIN_CALL_INTERVAL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.Equal(t, "claude-sonnet-4-5", cfg.AI.Model)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.AI.MinCallInterval)
}

func TestLoad_ProviderWithoutKeyFails(t *testing.T) {
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("AI_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnknownDriverFails(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SQLiteDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/recipes.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/recipes.db", cfg.Database.SQLitePath)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("MIGRATION_LOCK_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Migration.LockTTL)
}
