// Package config loads and validates mirador's YAML configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ivanmoreno/mirador/internal/logging"
)

// Config represents the main configuration.
type Config struct {
	Version   string           `yaml:"version"`
	API       *APIConfig       `yaml:"api"`
	Dashboard *DashboardConfig `yaml:"dashboard"`
	Watch     *WatchConfig     `yaml:"watch"`
	Logging   *logging.Config  `yaml:"logging"`

	// path is the file this config was loaded from (or would have been,
	// when the file does not exist yet). Reload watchers must watch this
	// path, not the default location.
	path string
}

// Path returns the file path this config was loaded from. Empty for a
// config built via DefaultConfig without Load.
func (c *Config) Path() string { return c.path }

// APIConfig points at the agent backend.
type APIConfig struct {
	// BaseURL is the root of the backend's read API. Empty means the
	// local development default.
	BaseURL string `yaml:"base_url"`
}

// DashboardConfig holds TUI settings.
type DashboardConfig struct {
	// RefreshInterval is the overview poll cadence in seconds.
	RefreshInterval int `yaml:"refresh_interval"`
}

// WatchConfig holds headless-mode settings.
type WatchConfig struct {
	// Schedule is a cron spec (robfig/cron syntax, "@every 10s" style
	// descriptors included) for the headless poll.
	Schedule string `yaml:"schedule"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API:     &APIConfig{BaseURL: ""},
		Dashboard: &DashboardConfig{
			RefreshInterval: 10,
		},
		Watch: &WatchConfig{
			Schedule: "@every 1m",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".mirador.yaml"
	}
	return filepath.Join(homeDir, ".mirador", "config.yaml")
}

// Load reads the config file at path. A missing file yields the defaults;
// present sections override, absent sections keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults restores any section the file nulled out.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.API == nil {
		c.API = def.API
	}
	if c.Dashboard == nil {
		c.Dashboard = def.Dashboard
	}
	if c.Dashboard.RefreshInterval == 0 {
		c.Dashboard.RefreshInterval = def.Dashboard.RefreshInterval
	}
	if c.Watch == nil {
		c.Watch = def.Watch
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = def.Watch.Schedule
	}
	if c.Logging == nil {
		c.Logging = def.Logging
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Dashboard.RefreshInterval < 1 {
		return fmt.Errorf("dashboard.refresh_interval must be at least 1 second, got %d", c.Dashboard.RefreshInterval)
	}
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL)
		}
	}
	return nil
}
