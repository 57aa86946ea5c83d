// Package config loads and stores the client's own configuration (server
// address, polling cadence, request limits) from a TOML file under
// ~/.pickdesk. Server-provided thresholds live in picking.ServerConfig,
// not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the client configuration.
type Config struct {
	// Server connection settings
	Server ServerConfig `toml:"server"`

	// Sync cadence settings
	Sync SyncConfig `toml:"sync"`

	// Application settings
	App AppConfig `toml:"app"`
}

// ServerConfig contains picking-server connection settings.
type ServerConfig struct {
	URL               string  `toml:"url"`                 // Base URL of the picking server
	RequestTimeout    string  `toml:"request_timeout"`     // Per-request timeout (e.g. "15s")
	RequestsPerSecond float64 `toml:"requests_per_second"` // API rate cap (0 = unlimited)
}

// SyncConfig contains refresh cadence settings.
type SyncConfig struct {
	PollInterval    string `toml:"poll_interval"`    // Board poll interval (e.g. "30s")
	CompletionDelay string `toml:"completion_delay"` // Overlay time before auto-close (e.g. "1500ms")
}

// AppConfig contains general application settings.
type AppConfig struct {
	PreviewLines int  `toml:"preview_lines"` // Lines shown on a board card
	DebugMode    bool `toml:"debug_mode"`    // Enable debug logging
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:               "http://localhost:8000",
			RequestTimeout:    "15s",
			RequestsPerSecond: 10,
		},
		Sync: SyncConfig{
			PollInterval:    "30s",
			CompletionDelay: "1500ms",
		},
		App: AppConfig{
			PreviewLines: 3,
			DebugMode:    false,
		},
	}
}

// Dir returns the pickdesk dot-directory, creating it when missing.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".pickdesk")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the path of the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns the default config when
// the file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server url is required")
	}
	if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", c.Server.RequestTimeout, err)
	}
	if _, err := time.ParseDuration(c.Sync.PollInterval); err != nil {
		return fmt.Errorf("invalid poll interval %q: %w", c.Sync.PollInterval, err)
	}
	if _, err := time.ParseDuration(c.Sync.CompletionDelay); err != nil {
		return fmt.Errorf("invalid completion delay %q: %w", c.Sync.CompletionDelay, err)
	}
	if c.Server.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative: %v", c.Server.RequestsPerSecond)
	}
	if c.App.PreviewLines < 0 {
		return fmt.Errorf("preview lines cannot be negative: %d", c.App.PreviewLines)
	}
	return nil
}

// RequestTimeout returns the request timeout as a duration.
func (c *Config) RequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.RequestTimeout)
}

// PollInterval returns the board poll interval as a duration.
func (c *Config) PollInterval() (time.Duration, error) {
	return time.ParseDuration(c.Sync.PollInterval)
}

// CompletionDelay returns the completion overlay delay as a duration.
func (c *Config) CompletionDelay() (time.Duration, error) {
	return time.ParseDuration(c.Sync.CompletionDelay)
}
