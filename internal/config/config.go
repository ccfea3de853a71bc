// Package config handles resolving configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultMaxUploadBytes is the server-side hard cap on an uploaded photo.
// The registration form also carries a smaller advisory limit checked in the
// browser, which is never trusted.
const DefaultMaxUploadBytes = 5 << 20

// Config carries the application settings. Zero fields are filled with
// defaults by Load.
type Config struct {
	LogLevel       string `yaml:"log_level"`
	WebAddress     string `yaml:"web_address"`
	DBFilepath     string `yaml:"db_filepath"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	DevMode        bool   `yaml:"dev_mode"`
}

// Default returns a version of the config with all default values populated.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		WebAddress:     "localhost:3000",
		DBFilepath:     filepath.Join(xdg.DataHome, "suffragio", "db.sqlite"),
		MaxUploadBytes: DefaultMaxUploadBytes,
		DevMode:        false,
	}
}

// Load reads a YAML configuration file from path, merges it with defaults and
// environment overrides, and validates it. When explicit is false a missing
// file is not an error; the defaults are used instead.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// fall through to defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SUFFRAGIO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SUFFRAGIO_WEB_ADDRESS"); v != "" {
		cfg.WebAddress = v
	}
	if v := os.Getenv("SUFFRAGIO_DB_FILEPATH"); v != "" {
		cfg.DBFilepath = v
	}
	if v := os.Getenv("SUFFRAGIO_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("SUFFRAGIO_DEV_MODE"); v != "" {
		cfg.DevMode = v == "true" || v == "1"
	}
}

func (c *Config) validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if strings.TrimSpace(c.WebAddress) == "" {
		return errors.New("web_address is required")
	}
	if strings.TrimSpace(c.DBFilepath) == "" {
		return errors.New("db_filepath is required")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	return nil
}

// SlogLevel resolves the configured log level name.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}
