// Package config loads application configuration from a YAML file, falling
// back to defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"inventario-go/infrastructure/logging"
	"inventario-go/infrastructure/repository"
)

// AppConfig is the root application configuration.
type AppConfig struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Company  CompanyConfig  `yaml:"company"`
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	// Path is the database file path. Empty means the default location
	// under the user's config directory.
	Path string `yaml:"path"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Dir is the log directory (prod builds only).
	Dir string `yaml:"dir"`
	// MaxSizeMB caps a single log file before rotation.
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxBackups caps how many rotated files are kept.
	MaxBackups int `yaml:"max_backups"`
}

// CompanyConfig identifies the company operating the system; it appears on
// tickets and reports.
type CompanyConfig struct {
	Name        string `yaml:"name"`
	Responsible string `yaml:"responsible"`
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	lc := logging.DefaultConfig()
	return &AppConfig{
		Database: DatabaseConfig{Path: ""},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
		},
		Company: CompanyConfig{Name: "Copy Point S.A."},
	}
}

// DefaultPath returns where the configuration file is looked up by default.
func DefaultPath() string {
	return filepath.Join(repository.DefaultDataDir(), "config.yaml")
}

// Load reads configuration from path. A missing file is not an error: the
// defaults are returned so a fresh install starts without setup.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// LogConfig converts the YAML logging section into the logging package's
// config, validating the level name.
func (c *AppConfig) LogConfig() (*logging.Config, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Dir = c.Logging.Dir
	if c.Logging.MaxSizeMB > 0 {
		lc.MaxSizeMB = c.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups > 0 {
		lc.MaxBackups = c.Logging.MaxBackups
	}
	return lc, nil
}

// DatabaseConfigOrDefault converts the YAML database section into the
// repository package's config.
func (c *AppConfig) DatabaseConfigOrDefault() *repository.SQLiteConfig {
	dc := repository.DefaultSQLiteConfig()
	if c.Database.Path != "" {
		dc.Path = c.Database.Path
	}
	return dc
}
