// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the compiler host: the history store
// and tracker tuning knobs.
type Config struct {
	HistoryDBPath string // path to the SQLite history file
	LogLevel      string // log level: debug, info, warn, error (default "info")

	// Tracker settings.
	SlowQueryThreshold time.Duration // executions at or above are flagged (default 1s)
	HistoryRetention   time.Duration // purge executions older than this (default 30 days)
	RetentionCron      string        // cron spec for the retention sweep (default nightly)
	AlertRPS           float64       // sustained slow-query alert log lines per second
	AlertBurst         int           // alert burst capacity

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		HistoryDBPath: os.Getenv("HISTORY_DB_PATH"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		RetentionCron: os.Getenv("RETENTION_CRON"),
	}

	if v := os.Getenv("SLOW_QUERY_THRESHOLD_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("SLOW_QUERY_THRESHOLD_MS must be a positive integer, got %q", v)
		}
		cfg.SlowQueryThreshold = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("HISTORY_RETENTION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("HISTORY_RETENTION_DAYS must be a positive integer, got %q", v)
		}
		cfg.HistoryRetention = time.Duration(days) * 24 * time.Hour
	}
	if v := os.Getenv("ALERT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.AlertRPS = f
		}
	}
	if v := os.Getenv("ALERT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AlertBurst = n
		}
	}

	// Defaults
	if cfg.HistoryDBPath == "" {
		cfg.HistoryDBPath = "semql_history.sqlite"
		cfg.Warnings = append(cfg.Warnings, "HISTORY_DB_PATH not set, using ./semql_history.sqlite")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.SlowQueryThreshold == 0 {
		cfg.SlowQueryThreshold = time.Second
	}
	if cfg.HistoryRetention == 0 {
		cfg.HistoryRetention = 30 * 24 * time.Hour
	}
	if cfg.RetentionCron == "" {
		cfg.RetentionCron = "15 3 * * *" // nightly, off the busy hours
	}
	if cfg.AlertRPS == 0 {
		cfg.AlertRPS = 1
	}
	if cfg.AlertBurst == 0 {
		cfg.AlertBurst = 5
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
