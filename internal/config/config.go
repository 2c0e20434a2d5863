package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/roach88/contactstore/internal/retention"
	"github.com/roach88/contactstore/internal/store"
)

// Config holds all configuration for the contact store
type Config struct {
	Database  DatabaseConfig   `toml:"database"`
	Retention retention.Policy `toml:"retention"`
	Sweeper   SweeperConfig    `toml:"sweeper"`
	Log       LogConfig        `toml:"log"`
}

// DatabaseConfig holds the store location and open options
type DatabaseConfig struct {
	Path           string `toml:"path"`
	BusyTimeoutMS  int    `toml:"busy_timeout_ms"`
	IntegrityCheck bool   `toml:"integrity_check"`
}

// SweeperConfig holds the retention sweep schedule
type SweeperConfig struct {
	// Interval is a Go duration string, e.g. "6h".
	Interval string `toml:"interval"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Load loads configuration from TOML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &config, nil
}

// Save saves configuration to TOML file
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EnsureDirs creates the directory holding the database file
func (c *Config) EnsureDirs() error {
	dir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if err := c.Retention.Validate(); err != nil {
		return err
	}
	if c.Database.BusyTimeoutMS < 0 {
		return fmt.Errorf("busy_timeout_ms must not be negative, got %d", c.Database.BusyTimeoutMS)
	}
	if _, err := c.SweepInterval(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SweepInterval parses the sweeper interval
func (c *Config) SweepInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Sweeper.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid sweeper interval %q: %w", c.Sweeper.Interval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("sweeper interval must be positive, got %s", d)
	}
	return d, nil
}

// LogLevel parses the configured log level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// StoreOptions converts the database section into store open options
func (c *Config) StoreOptions() []store.Option {
	return []store.Option{
		store.WithBusyTimeout(c.Database.BusyTimeoutMS),
		store.WithIntegrityCheck(c.Database.IntegrityCheck),
	}
}

func (c *Config) setDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join("data", "contacts.db")
	}
	if c.Database.BusyTimeoutMS == 0 {
		c.Database.BusyTimeoutMS = store.DefaultBusyTimeoutMS
	}
	if c.Retention.DataDays == 0 {
		c.Retention.DataDays = retention.DefaultDataDays
	}
	if c.Retention.ExposureDays == 0 {
		c.Retention.ExposureDays = retention.DefaultExposureDays
	}
	if c.Sweeper.Interval == "" {
		c.Sweeper.Interval = "6h"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}
