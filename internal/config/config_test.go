package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"HISTORY_DB_PATH", "LOG_LEVEL", "SLOW_QUERY_THRESHOLD_MS",
		"HISTORY_RETENTION_DAYS", "RETENTION_CRON", "ALERT_RPS", "ALERT_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "semql_history.sqlite", cfg.HistoryDBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.SlowQueryThreshold)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryRetention)
	assert.Equal(t, "15 3 * * *", cfg.RetentionCron)
	assert.Equal(t, 1.0, cfg.AlertRPS)
	assert.Equal(t, 5, cfg.AlertBurst)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestLoadFromEnv_ExplicitValues(t *testing.T) {
	t.Setenv("HISTORY_DB_PATH", "/tmp/history.sqlite")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SLOW_QUERY_THRESHOLD_MS", "250")
	t.Setenv("HISTORY_RETENTION_DAYS", "7")
	t.Setenv("ALERT_RPS", "2.5")
	t.Setenv("ALERT_BURST", "10")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/history.sqlite", cfg.HistoryDBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 7*24*time.Hour, cfg.HistoryRetention)
	assert.Equal(t, 2.5, cfg.AlertRPS)
	assert.Equal(t, 10, cfg.AlertBurst)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_RejectsBadNumbers(t *testing.T) {
	t.Setenv("SLOW_QUERY_THRESHOLD_MS", "fast")
	_, err := LoadFromEnv()
	require.Error(t, err)

	t.Setenv("SLOW_QUERY_THRESHOLD_MS", "")
	t.Setenv("HISTORY_RETENTION_DAYS", "-1")
	_, err = LoadFromEnv()
	require.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nHISTORY_DB_PATH=/data/h.sqlite\nLOG_LEVEL=\"debug\"\n\nBROKEN LINE\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("HISTORY_DB_PATH", "")
	t.Setenv("LOG_LEVEL", "warn")

	require.NoError(t, LoadDotEnv(path))

	// Unset variables are filled; existing environment wins.
	assert.Equal(t, "/data/h.sqlite", os.Getenv("HISTORY_DB_PATH"))
	assert.Equal(t, "warn", os.Getenv("LOG_LEVEL"))
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}
