// Package main provides the Foundry server CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Notify   NotifyConfig   `yaml:"notify"`
	Verbose  bool           `yaml:"-"` // set via CLI flag
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address          string `yaml:"address"`             // HTTP listen address (default: :8080)
	RateLimitPerIP   int    `yaml:"rate_limit_per_ip"`   // login attempts per minute per IP
	RateLimitPerUser int    `yaml:"rate_limit_per_user"` // requests per minute per user
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database path (default: ./data/foundry.db)
}

// AuthConfig contains token settings. The signing secret comes from
// the FOUNDRY_JWT_SECRET environment variable, never from the file.
type AuthConfig struct {
	AccessTokenTTL string `yaml:"access_token_ttl"` // token lifetime (default: 15m)
}

// MetricsConfig contains the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // expose /metrics (default: true)
	Address string `yaml:"address"` // metrics listen address (default: :9090)
}

// NotifyConfig contains notification dispatch settings.
type NotifyConfig struct {
	QueueSize int `yaml:"queue_size"` // pending deliveries before drops (default: 256)
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.RateLimitPerIP == 0 {
		c.Server.RateLimitPerIP = 5
	}
	if c.Server.RateLimitPerUser == 0 {
		c.Server.RateLimitPerUser = 100
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/foundry.db"
	}
	if c.Auth.AccessTokenTTL == "" {
		c.Auth.AccessTokenTTL = "15m"
	}
	if c.Metrics.Address == "" {
		c.Metrics.Address = ":9090"
	}
	if c.Notify.QueueSize == 0 {
		c.Notify.QueueSize = 256
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if _, err := c.TokenTTL(); err != nil {
		return fmt.Errorf("auth.access_token_ttl: %w", err)
	}
	if c.Server.RateLimitPerIP < 0 {
		return fmt.Errorf("server.rate_limit_per_ip must not be negative")
	}
	if c.Server.RateLimitPerUser < 0 {
		return fmt.Errorf("server.rate_limit_per_user must not be negative")
	}
	if c.Notify.QueueSize < 0 {
		return fmt.Errorf("notify.queue_size must not be negative")
	}
	return nil
}

// TokenTTL parses the configured access token lifetime.
func (c *Config) TokenTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.Auth.AccessTokenTTL)
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", c.Auth.AccessTokenTTL)
	}
	return ttl, nil
}
