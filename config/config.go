// Package config provides configuration loading and management for the
// SEM-I tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete SEM-I tool configuration
type Config struct {
	SemI   SemIConfig   `yaml:"semi"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// SemIConfig configures which SEM-I files to load
type SemIConfig struct {
	// Paths are the SEM-I file paths or glob patterns to load, in
	// order. Later files win on conflicting declarations.
	Paths []string `yaml:"paths"`
	// Watch enables reloading when loaded files change
	Watch bool `yaml:"watch"`
	// WatchDebounce is how long to wait for further changes before
	// reloading
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// ServerConfig configures the HTTP inspection server
type ServerConfig struct {
	// Listen is the address the server binds to
	Listen string `yaml:"listen"`
	// ReadTimeout bounds request reading
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout bounds response writing
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		SemI: SemIConfig{
			Paths:         nil,
			Watch:         false,
			WatchDebounce: 500 * time.Millisecond,
		},
		Server: ServerConfig{
			Listen:       ":8753",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.SemI.WatchDebounce < 0 {
		return fmt.Errorf("semi.watch_debounce must not be negative")
	}
	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// SemI
	if len(other.SemI.Paths) > 0 {
		c.SemI.Paths = other.SemI.Paths
	}
	if other.SemI.Watch {
		c.SemI.Watch = true
	}
	if other.SemI.WatchDebounce != 0 {
		c.SemI.WatchDebounce = other.SemI.WatchDebounce
	}

	// Server
	if other.Server.Listen != "" {
		c.Server.Listen = other.Server.Listen
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
