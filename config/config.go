package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the course chat service.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Search    SearchConfig    `mapstructure:"search"`
	History   HistoryConfig   `mapstructure:"history"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

// GeneralConfig contains process-wide settings.
type GeneralConfig struct {
	Listen   string `mapstructure:"listen"`
	LogLevel string `mapstructure:"log_level"`
}

// DatasetConfig points at the course dataset.
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// SearchConfig tunes the hybrid search engine.
type SearchConfig struct {
	TopK            int     `mapstructure:"top_k"`
	SparseWeight    float64 `mapstructure:"sparse_weight"`
	VectorIndexPath string  `mapstructure:"vector_index_path"`
}

// HistoryConfig selects and tunes the history store backend.
type HistoryConfig struct {
	Backend string      `mapstructure:"backend"` // file, redis or memory
	Dir     string      `mapstructure:"dir"`
	Limit   int         `mapstructure:"limit"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProvidersConfig contains external provider credentials.
type ProvidersConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

type OpenAIConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	CompletionModel string        `mapstructure:"completion_model"`
	EmbeddingModel  string        `mapstructure:"embedding_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

func (s SearchConfig) Validate() error {
	if s.SparseWeight < 0 || s.SparseWeight > 1 {
		return fmt.Errorf("search.sparse_weight must be in [0,1], got %v", s.SparseWeight)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("search.top_k must be > 0, got %d", s.TopK)
	}
	return nil
}

func (h HistoryConfig) Validate() error {
	switch h.Backend {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("history.backend must be file, redis or memory, got %q", h.Backend)
	}
	if h.Limit <= 0 {
		return fmt.Errorf("history.limit must be > 0, got %d", h.Limit)
	}
	return nil
}

// LoadConfig reads the JSON config file (explicit path, else ./config or the
// working directory) with COURSECHAT_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.listen", ":8090")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("dataset.path", "data/courses.csv")
	viper.SetDefault("search.top_k", 5)
	viper.SetDefault("search.sparse_weight", 0.4)
	viper.SetDefault("search.vector_index_path", "data/vectors.json")
	viper.SetDefault("history.backend", "file")
	viper.SetDefault("history.dir", ".")
	viper.SetDefault("history.limit", 10)
	viper.SetDefault("history.redis.host", "")
	viper.SetDefault("history.redis.port", "6379")
	viper.SetDefault("providers.openai.completion_model", "gpt-3.5-turbo")
	viper.SetDefault("providers.openai.embedding_model", "text-embedding-3-small")
	viper.SetDefault("providers.openai.temperature", 0.7)
	viper.SetDefault("providers.openai.timeout", time.Minute)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("COURSECHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Defaults plus environment variables are a complete configuration;
		// only a present-but-broken file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Search.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.History.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
