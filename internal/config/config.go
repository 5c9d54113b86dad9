// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// LLMProvider identifies a supported text-generation backend.
type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
	ProviderOpenAI LLMProvider = "openai"
)

// DefaultModel is used when llm.model is not configured. It matches the
// provider default of the OpenAI backend.
const DefaultModel = "gpt-4o"

// Config holds the entire application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	LLM    LLMConfig    `mapstructure:"llm" yaml:"llm"`
	Assess AssessConfig `mapstructure:"assess" yaml:"assess"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	ListenAddr     string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// LLMConfig defines the configuration for the text-generation backend.
type LLMConfig struct {
	Provider    LLMProvider   `mapstructure:"provider" yaml:"provider"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	APITimeout  time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature float32       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// AssessConfig controls the batch assessment policy.
type AssessConfig struct {
	// WorkerConcurrency bounds the per-batch fan-out across units.
	// 1 keeps units strictly sequential.
	WorkerConcurrency int `mapstructure:"worker_concurrency" yaml:"worker_concurrency"`
	// FailFast aborts the whole batch on the first upstream failure (502,
	// no partial results). When false, failed units carry a per-unit error
	// field instead.
	FailFast bool `mapstructure:"fail_fast" yaml:"fail_fast"`
}

// NewDefaultConfig creates a new configuration struct populated with default
// values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration
// parameters.
func SetDefaults(v *viper.Viper) {
	// -- Server --
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.request_timeout", "120s")

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "copa-assess")
	// The service itself writes no files; a rotated log file is opt-in.
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- LLM --
	v.SetDefault("llm.provider", string(ProviderOpenAI))
	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.api_timeout", "60s")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 4000)

	// -- Assess --
	v.SetDefault("assess.worker_concurrency", 1)
	v.SetDefault("assess.fail_fast", true)
}

// NewConfigFromViper creates a new configuration instance from a viper
// object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for sensitive data.
	v.BindEnv("llm.api_key", "COPA_ASSESS_LLM_API_KEY")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Fall back to the conventional provider key variables so the service
	// runs with nothing but OPENAI_API_KEY / GEMINI_API_KEY exported.
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case ProviderOpenAI:
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case ProviderGemini:
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
// A missing API key is deliberately not a startup error: it surfaces as an
// upstream failure at call time, and the health endpoint must work without
// one.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be one of [%s, %s], got %q",
			ProviderGemini, ProviderOpenAI, c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if c.Assess.WorkerConcurrency <= 0 {
		return fmt.Errorf("assess.worker_concurrency must be a positive integer")
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr must not be empty")
	}
	return nil
}
