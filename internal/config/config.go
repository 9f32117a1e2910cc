package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/cold/internal/llm"
	"github.com/JaimeStill/cold/pkg/database"
	"github.com/JaimeStill/cold/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvColdEnv             = "COLD_ENV"
	EnvColdShutdownTimeout = "COLD_SHUTDOWN_TIMEOUT"
	EnvColdVersion         = "COLD_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "COLD_DB_HOST",
	Port:            "COLD_DB_PORT",
	Name:            "COLD_DB_NAME",
	User:            "COLD_DB_USER",
	Password:        "COLD_DB_PASSWORD",
	SSLMode:         "COLD_DB_SSL_MODE",
	MaxOpenConns:    "COLD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "COLD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "COLD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "COLD_DB_CONN_TIMEOUT",
	ApplicationName: "COLD_DB_APPLICATION_NAME",
}

var storageEnv = &storage.Env{
	ContainerName:    "COLD_STORAGE_CONTAINER_NAME",
	ConnectionString: "COLD_STORAGE_CONNECTION_STRING",
	AccountURL:       "COLD_STORAGE_ACCOUNT_URL",
}

var llmEnv = &llm.Env{
	Provider:    "COLD_LLM_PROVIDER",
	APIKey:      "COLD_LLM_API_KEY",
	BaseURL:     "COLD_LLM_BASE_URL",
	Model:       "COLD_LLM_MODEL",
	Timeout:     "COLD_LLM_TIMEOUT",
	MaxAttempts: "COLD_LLM_MAX_ATTEMPTS",
	MaxTokens:   "COLD_LLM_MAX_TOKENS",
}

// Config is the root configuration for the case analyzer.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	LLM             llm.Config      `toml:"llm"`
	Analysis        AnalysisConfig  `toml:"analysis"`
	Sessions        SessionsConfig  `toml:"sessions"`
	Logging         LoggingConfig   `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the COLD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvColdEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadLocal finalizes only the sections a standalone analysis needs: the
// language model, the analysis pool and logging. Database and storage
// settings are not required.
func LoadLocal() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.LLM.Finalize(llmEnv); err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	if err := cfg.Analysis.Finalize(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	if err := cfg.Logging.Finalize(); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return cfg, nil
}

// LoadDatabase finalizes only the database section, for tooling such as
// the migrator that never touches storage or the language model.
func LoadDatabase() (*database.Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	cfg.loadDefaults()
	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &cfg.Database, nil
}

func read() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.LLM.Merge(&overlay.LLM)
	c.Analysis.Merge(&overlay.Analysis)
	c.Sessions.Merge(&overlay.Sessions)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Analysis.Finalize(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := c.Sessions.Finalize(); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.Database.ApplicationName == "" {
		c.Database.ApplicationName = "cold"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvColdShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvColdVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvColdEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
