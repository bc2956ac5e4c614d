package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, time.Minute, cfg.Feeds.CacheTTL)
	assert.Equal(t, 256, cfg.Feeds.CacheSize)
	assert.Equal(t, 128, cfg.MaxSessions)
	assert.True(t, cfg.Metrics)
}

func TestParseRejectsNonPositiveMaxSessions(t *testing.T) {
	_, err := Parse(env.Options{Environment: map[string]string{"LANDING_MAX_SESSIONS": "0"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_SESSIONS")
}

func TestParseNestedPrefixes(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{
		"LANDING_ADDR":              ":9090",
		"LANDING_STORE_BACKEND":     "SQLite",
		"LANDING_STORE_SQLITE_PATH": "/tmp/pages.db",
		"LANDING_FEEDS_BASE_URL":    "https://api.example.org",
		"LANDING_FEEDS_CACHE_TTL":   "30s",
		"LANDING_CHART_THEME":       "dark",
		"LANDING_METRICS":           "false",
	}})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StoreSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/pages.db", cfg.Store.SQLitePath)
	assert.Equal(t, "https://api.example.org", cfg.Feeds.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Feeds.CacheTTL)
	assert.Equal(t, "dark", cfg.Chart.Theme)
	assert.False(t, cfg.Metrics)
}

func TestParseValidation(t *testing.T) {
	_, err := Parse(env.Options{Environment: map[string]string{"LANDING_STORE_BACKEND": "postgres"}})
	require.Error(t, err)

	_, err = Parse(env.Options{Environment: map[string]string{"LANDING_STORE_BACKEND": "http"}})
	require.Error(t, err)

	_, err = Parse(env.Options{Environment: map[string]string{"LANDING_FEEDS_TIMEOUT": "soon"}})
	require.Error(t, err)
}

func TestLoadReadsDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LANDING_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("LANDING_LOG_LEVEL") })

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
}
