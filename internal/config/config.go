// Package config loads settings from an optional focusflow.yaml overlaid by
// environment variables; env wins.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds everything the binaries need at startup.
type Config struct {
	// Server
	Port int `yaml:"port"`

	// Shared
	DBPath   string `yaml:"dbPath"`
	LogLevel string `yaml:"logLevel"`

	// Client engine
	RemoteBaseURL       string `yaml:"remoteBaseUrl"`
	RemoteTimeoutSecs   int    `yaml:"remoteTimeoutSecs"`
	SyncIntervalSecs    int    `yaml:"syncIntervalSecs"`
	LegacySnapshotPath  string `yaml:"legacySnapshotPath"`
	CurrentUser         string `yaml:"currentUser"`
	CalendarWindowDays  int    `yaml:"calendarWindowDays"`
	DefaultTargetMinute int    `yaml:"defaultTargetMinutes"`
}

// Load reads the YAML file at path (skipped when absent or path is empty),
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:                8731,
		DBPath:              defaultDBPath(),
		LogLevel:            "info",
		RemoteBaseURL:       "http://localhost:8731",
		RemoteTimeoutSecs:   10,
		SyncIntervalSecs:    60,
		CalendarWindowDays:  28,
		DefaultTargetMinute: 120,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.Port = envInt("FOCUSFLOW_PORT", cfg.Port)
	cfg.DBPath = envStr("FOCUSFLOW_DB_PATH", cfg.DBPath)
	cfg.LogLevel = envStr("FOCUSFLOW_LOG_LEVEL", cfg.LogLevel)
	cfg.RemoteBaseURL = envStr("FOCUSFLOW_REMOTE_URL", cfg.RemoteBaseURL)
	cfg.RemoteTimeoutSecs = envInt("FOCUSFLOW_REMOTE_TIMEOUT_SECS", cfg.RemoteTimeoutSecs)
	cfg.SyncIntervalSecs = envInt("FOCUSFLOW_SYNC_INTERVAL_SECS", cfg.SyncIntervalSecs)
	cfg.LegacySnapshotPath = envStr("FOCUSFLOW_LEGACY_SNAPSHOT", cfg.LegacySnapshotPath)
	cfg.CurrentUser = envStr("FOCUSFLOW_USER", cfg.CurrentUser)
	cfg.CalendarWindowDays = envInt("FOCUSFLOW_CALENDAR_WINDOW_DAYS", cfg.CalendarWindowDays)
	cfg.DefaultTargetMinute = envInt("FOCUSFLOW_DEFAULT_TARGET_MINUTES", cfg.DefaultTargetMinute)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("dbPath must not be empty")
	}
	if c.RemoteTimeoutSecs < 1 {
		return fmt.Errorf("remoteTimeoutSecs must be positive, got %d", c.RemoteTimeoutSecs)
	}
	if c.SyncIntervalSecs < 1 {
		return fmt.Errorf("syncIntervalSecs must be positive, got %d", c.SyncIntervalSecs)
	}
	if c.CalendarWindowDays < 1 {
		return fmt.Errorf("calendarWindowDays must be positive, got %d", c.CalendarWindowDays)
	}
	if c.DefaultTargetMinute < 1 {
		return fmt.Errorf("defaultTargetMinutes must be positive, got %d", c.DefaultTargetMinute)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "focusflow.db"
	}
	return filepath.Join(home, ".focusflow", "focusflow.db")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
