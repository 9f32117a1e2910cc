package llm

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

var providers = []string{ProviderOpenAI, ProviderAnthropic, ProviderGoogle}

// Fallback variables read when the COLD_LLM_* overrides are unset.
const (
	EnvOpenAIKey        = "OPENAI_API_KEY"
	EnvOpenAIModel      = "OPENAI_MODEL"
	EnvOpenAITimeout    = "OPENAI_TIMEOUT"
	EnvOpenAIMaxRetries = "OPENAI_MAX_RETRIES"
	EnvAnthropicKey     = "ANTHROPIC_API_KEY"
	EnvGoogleKey        = "GEMINI_API_KEY"
)

// Config holds language model provider settings.
type Config struct {
	Provider    string   `toml:"provider"`
	APIKey      string   `toml:"api_key"`
	BaseURL     string   `toml:"base_url"`
	Model       string   `toml:"model"`
	Timeout     string   `toml:"timeout"`
	MaxAttempts int      `toml:"max_attempts"`
	BackoffBase string   `toml:"backoff_base"`
	MaxBackoff  string   `toml:"max_backoff"`
	MaxTokens   int      `toml:"max_tokens"`
	Temperature *float64 `toml:"temperature"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     string
	MaxAttempts string
	MaxTokens   string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Retry returns the retry policy described by the config.
func (c *Config) Retry() RetryConfig {
	r := DefaultRetryConfig()
	r.MaxAttempts = c.MaxAttempts
	if d, err := time.ParseDuration(c.BackoffBase); err == nil {
		r.BackoffBase = d
	}
	if d, err := time.ParseDuration(c.MaxBackoff); err == nil {
		r.MaxBackoff = d
	}
	return r
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	c.loadProviderEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.BackoffBase != "" {
		c.BackoffBase = overlay.BackoffBase
	}
	if overlay.MaxBackoff != "" {
		c.MaxBackoff = overlay.MaxBackoff
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Temperature != nil {
		c.Temperature = overlay.Temperature
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Timeout == "" {
		c.Timeout = "300s"
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase == "" {
		c.BackoffBase = "2s"
	}
	if c.MaxBackoff == "" {
		c.MaxBackoff = "30s"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 8192
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxAttempts != "" {
		if v := os.Getenv(env.MaxAttempts); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxAttempts = n
			}
		}
	}
	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTokens = n
			}
		}
	}
}

// loadProviderEnv fills gaps from the provider SDKs' conventional variables.
func (c *Config) loadProviderEnv() {
	if c.APIKey == "" {
		switch c.Provider {
		case ProviderOpenAI:
			c.APIKey = os.Getenv(EnvOpenAIKey)
		case ProviderAnthropic:
			c.APIKey = os.Getenv(EnvAnthropicKey)
		case ProviderGoogle:
			c.APIKey = os.Getenv(EnvGoogleKey)
		}
	}

	if c.Provider != ProviderOpenAI {
		if c.Model == "" {
			c.Model = defaultModels[c.Provider]
		}
		return
	}

	if c.Model == "" {
		c.Model = os.Getenv(EnvOpenAIModel)
	}
	if c.Model == "" {
		c.Model = defaultModels[ProviderOpenAI]
	}
	if v := os.Getenv(EnvOpenAITimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Timeout = (time.Duration(secs) * time.Second).String()
		}
	}
	if v := os.Getenv(EnvOpenAIMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAttempts = n + 1
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.BackoffBase); err != nil {
		return fmt.Errorf("invalid backoff_base: %w", err)
	}
	if _, err := time.ParseDuration(c.MaxBackoff); err != nil {
		return fmt.Errorf("invalid max_backoff: %w", err)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive")
	}
	return nil
}
