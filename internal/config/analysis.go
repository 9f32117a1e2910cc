package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/extraction"
)

const (
	EnvAnalysisWorkers       = "COLD_ANALYSIS_WORKERS"
	EnvAnalysisThemeAttempts = "COLD_ANALYSIS_THEME_ATTEMPTS"
)

// AnalysisConfig holds workflow execution settings.
type AnalysisConfig struct {
	Workers       int `toml:"workers"`
	ThemeAttempts int `toml:"theme_attempts"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalysisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.ThemeAttempts != 0 {
		c.ThemeAttempts = overlay.ThemeAttempts
	}
}

func (c *AnalysisConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = analysis.MinWorkers
	}
	if c.ThemeAttempts == 0 {
		c.ThemeAttempts = extraction.DefaultThemeAttempts
	}
}

func (c *AnalysisConfig) loadEnv() {
	if v := os.Getenv(EnvAnalysisWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvAnalysisThemeAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ThemeAttempts = n
		}
	}
}

func (c *AnalysisConfig) validate() error {
	if c.Workers < analysis.MinWorkers {
		return fmt.Errorf("workers must be at least %d", analysis.MinWorkers)
	}
	if c.ThemeAttempts < 1 {
		return fmt.Errorf("theme_attempts must be positive")
	}
	return nil
}
