package config

import (
	"fmt"
	"time"
)

// Database drivers accepted by the server.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds server configuration values.
type Config struct {
	Addr              string         `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration  `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration  `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string         `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string         `mapstructure:"log_format" yaml:"log_format"`
	MetricsEnabled    bool           `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
	Database          DatabaseConfig `mapstructure:"database" yaml:"database"`
}

// DatabaseConfig selects and locates the backing store.
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver"`
	DSN         string `mapstructure:"dsn" yaml:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate" yaml:"auto_migrate"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		MetricsEnabled:    true,
		Database: DatabaseConfig{
			Driver:      DriverSQLite,
			DSN:         "socialmedia.db",
			AutoMigrate: true,
		},
	}
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}
