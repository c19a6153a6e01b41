package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" json:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream" json:"upstream"`
	Logging  LoggingConfig  `mapstructure:"logging" json:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen       string        `mapstructure:"listen" json:"listen" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
}

// UpstreamConfig holds settings for the completion API.
// A zero Timeout disables the client-side deadline.
type UpstreamConfig struct {
	Provider string        `mapstructure:"provider" json:"provider" validate:"oneof=openai gemini"`
	APIKey   string        `mapstructure:"api_key" json:"api_key" validate:"required"`
	BaseURL  string        `mapstructure:"base_url" json:"base_url" validate:"omitempty,url"`
	Model    string        `mapstructure:"model" json:"model" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" json:"timeout" validate:"gte=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" json:"format" validate:"oneof=json text"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:       "0.0.0.0:8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Upstream: UpstreamConfig{
			Provider: ProviderOpenAI,
			BaseURL:  "",
			Model:    DefaultModel(ProviderOpenAI),
			Timeout:  60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultModel returns the fixed model identifier used for a provider.
func DefaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return "gpt-4o"
}

// APIKeyEnv returns the provider-specific environment variable holding the credential.
func APIKeyEnv(provider string) string {
	if provider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// ResolveAPIKey fills an unset credential from the provider's own
// environment variable.
func (c *Config) ResolveAPIKey() {
	if c.Upstream.APIKey == "" {
		c.Upstream.APIKey = os.Getenv(APIKeyEnv(c.Upstream.Provider))
	}
}

// SetProvider switches provider and keeps the model on the provider default
// when it was still the previous provider's default.
func SetProvider(cfg *Config, provider string) {
	if cfg.Upstream.Model == "" || cfg.Upstream.Model == DefaultModel(cfg.Upstream.Provider) {
		cfg.Upstream.Model = DefaultModel(provider)
	}
	cfg.Upstream.Provider = provider
}

// Validate checks the configuration and reports the first invalid field.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.StructField() == "APIKey" {
				return fmt.Errorf("invalid config: missing upstream API key (set %s or COOKEDFR_API_KEY)", APIKeyEnv(c.Upstream.Provider))
			}
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with the COOKEDFR_* environment variables.
// Switching provider also switches the model unless it was customised.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("COOKEDFR_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("COOKEDFR_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("COOKEDFR_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if v := os.Getenv("COOKEDFR_PROVIDER"); v != "" {
		SetProvider(cfg, v)
	}
	if v := os.Getenv("COOKEDFR_API_KEY"); v != "" {
		cfg.Upstream.APIKey = v
	}
	if v := os.Getenv("COOKEDFR_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("COOKEDFR_MODEL"); v != "" {
		cfg.Upstream.Model = v
	}
	if v := os.Getenv("COOKEDFR_UPSTREAM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Upstream.Timeout = d
		}
	}
	if v := os.Getenv("COOKEDFR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("COOKEDFR_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
