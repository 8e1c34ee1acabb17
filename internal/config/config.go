// Package config loads the harvester configuration from a YAML file with
// HARVESTER_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SourceConfig declares one news outlet. The position in the sources list is
// the replica label: replica N of the harvester ingests sources[N].
type SourceConfig struct {
	ID      string `mapstructure:"id"`
	BaseURL string `mapstructure:"base_url"`
}

// StoreConfig selects and parameterizes the store backend.
type StoreConfig struct {
	Backend  string `mapstructure:"backend"` // "valkey" or "bolt"
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Path     string `mapstructure:"path"` // bolt file path
}

// OpenAIConfig holds the model identifiers for the enrichment ports.
type OpenAIConfig struct {
	APIKey          string `mapstructure:"api_key"`
	ClassifierModel string `mapstructure:"classifier_model"`
	EmbeddingModel  string `mapstructure:"embedding_model"`
}

// SentimentConfig points at the hosted sentiment model service.
type SentimentConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Config is the process-wide configuration.
type Config struct {
	LogLevel            string          `mapstructure:"log_level"`
	PageLimit           int             `mapstructure:"page_limit"`
	FetchTimeoutSeconds int             `mapstructure:"fetch_timeout_seconds"`
	Sources             []SourceConfig  `mapstructure:"sources"`
	Store               StoreConfig     `mapstructure:"store"`
	OpenAI              OpenAIConfig    `mapstructure:"openai"`
	Sentiment           SentimentConfig `mapstructure:"sentiment"`
	PublishersFile      string          `mapstructure:"publishers_file"`
}

// Load reads the config file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("log_level", "info")
	v.SetDefault("page_limit", 3)
	v.SetDefault("fetch_timeout_seconds", 30)
	v.SetDefault("store.backend", "valkey")
	v.SetDefault("store.addr", "127.0.0.1:6379")
	v.SetDefault("store.db", 0)
	v.SetDefault("store.path", "harvester.db")
	v.SetDefault("sentiment.timeout_seconds", 30)

	v.SetEnvPrefix("HARVESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The API key is conventionally supplied outside the prefixed namespace.
	_ = v.BindEnv("openai.api_key", "OPENAI_KEY", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.PageLimit <= 0 {
		return fmt.Errorf("page_limit must be positive, got %d", c.PageLimit)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}
	for i, s := range c.Sources {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("sources[%d]: id is required", i)
		}
		if strings.TrimSpace(s.BaseURL) == "" {
			return fmt.Errorf("sources[%d] (%s): base_url is required", i, s.ID)
		}
	}
	switch c.Store.Backend {
	case "valkey", "bolt":
	default:
		return fmt.Errorf("store.backend must be valkey or bolt, got %q", c.Store.Backend)
	}
	return nil
}

// SourceForLabel maps a replica label to its source declaration.
func (c *Config) SourceForLabel(label int) (SourceConfig, error) {
	if label < 0 || label >= len(c.Sources) {
		return SourceConfig{}, fmt.Errorf("replica label %d out of range, %d sources configured", label, len(c.Sources))
	}
	return c.Sources[label], nil
}

// FetchTimeout returns the page-fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// SentimentTimeout returns the sentiment-call timeout as a duration.
func (c *Config) SentimentTimeout() time.Duration {
	return time.Duration(c.Sentiment.TimeoutSeconds) * time.Second
}
