package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvSessionsMaxAge          = "COLD_SESSIONS_MAX_AGE"
	EnvSessionsCleanupInterval = "COLD_SESSIONS_CLEANUP_INTERVAL"
)

// SessionsConfig holds session retention settings. Sessions idle longer
// than MaxAge are removed every CleanupInterval.
type SessionsConfig struct {
	MaxAge          string `toml:"max_age"`
	CleanupInterval string `toml:"cleanup_interval"`
}

// MaxAgeDuration returns MaxAge as a time.Duration.
func (c *SessionsConfig) MaxAgeDuration() time.Duration {
	d, _ := time.ParseDuration(c.MaxAge)
	return d
}

// CleanupIntervalDuration returns CleanupInterval as a time.Duration.
func (c *SessionsConfig) CleanupIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.CleanupInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SessionsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *SessionsConfig) Merge(overlay *SessionsConfig) {
	if overlay.MaxAge != "" {
		c.MaxAge = overlay.MaxAge
	}
	if overlay.CleanupInterval != "" {
		c.CleanupInterval = overlay.CleanupInterval
	}
}

func (c *SessionsConfig) loadDefaults() {
	if c.MaxAge == "" {
		c.MaxAge = "168h"
	}
	if c.CleanupInterval == "" {
		c.CleanupInterval = "1h"
	}
}

func (c *SessionsConfig) loadEnv() {
	if v := os.Getenv(EnvSessionsMaxAge); v != "" {
		c.MaxAge = v
	}
	if v := os.Getenv(EnvSessionsCleanupInterval); v != "" {
		c.CleanupInterval = v
	}
}

func (c *SessionsConfig) validate() error {
	if _, err := time.ParseDuration(c.MaxAge); err != nil {
		return fmt.Errorf("invalid max_age: %w", err)
	}
	if _, err := time.ParseDuration(c.CleanupInterval); err != nil {
		return fmt.Errorf("invalid cleanup_interval: %w", err)
	}
	return nil
}
