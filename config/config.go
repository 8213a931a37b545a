// Package config loads runtime configuration for the caremesh service from a
// YAML file and CAREMESH_* environment variables, with sensible defaults for
// every knob.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Escalation EscalationConfig `mapstructure:"escalation"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Store      StoreConfig      `mapstructure:"store"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig stores HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PipelineConfig stores the coordinator settings.
type PipelineConfig struct {
	AgentTimeout    time.Duration `mapstructure:"agent_timeout"`
	DefaultLanguage string        `mapstructure:"default_language"`
	DeferredWorkers int           `mapstructure:"deferred_workers"`
	EscalationQueue int           `mapstructure:"escalation_queue"`
}

// EscalationConfig stores the escalation policy thresholds.
type EscalationConfig struct {
	SentimentThreshold     float64  `mapstructure:"sentiment_threshold"`
	TriggerEmotions        []string `mapstructure:"trigger_emotions"`
	ConsecutiveEmotionTurn int      `mapstructure:"consecutive_emotion_turns"`
	MaxUnresolvedTurns     int      `mapstructure:"max_unresolved_turns"`
}

// RateLimitConfig stores the per-customer request ceiling.
type RateLimitConfig struct {
	Ceiling int           `mapstructure:"ceiling"`
	Window  time.Duration `mapstructure:"window"`
}

// StoreConfig selects and configures the conversation context backend.
type StoreConfig struct {
	// Backend is one of "memory", "libsql" or "dynamodb".
	Backend string `mapstructure:"backend"`

	// LibSQLPath is the database file used by the libsql backend.
	LibSQLPath string `mapstructure:"libsql_path"`

	// DynamoTable is the table name used by the dynamodb backend.
	DynamoTable string `mapstructure:"dynamo_table"`
}

// KnowledgeConfig stores retrieval settings for the FAQ index.
type KnowledgeConfig struct {
	TopK int `mapstructure:"top_k"`
	// CorpusPath optionally points at a JSON document set replacing the
	// built-in corpus.
	CorpusPath string `mapstructure:"corpus_path"`
}

// LoggingConfig stores log output settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode cleanly; there is no user input involved.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and env vars apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/caremesh")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("CAREMESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("pipeline.agent_timeout", "5s")
	v.SetDefault("pipeline.default_language", "en")
	v.SetDefault("pipeline.deferred_workers", 4)
	v.SetDefault("pipeline.escalation_queue", 128)

	v.SetDefault("escalation.sentiment_threshold", -0.65)
	v.SetDefault("escalation.trigger_emotions", []string{"anger", "distress"})
	v.SetDefault("escalation.consecutive_emotion_turns", 2)
	v.SetDefault("escalation.max_unresolved_turns", 3)

	v.SetDefault("rate_limit.ceiling", 100)
	v.SetDefault("rate_limit.window", "60s")

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.libsql_path", "caremesh.db")
	v.SetDefault("store.dynamo_table", "caremesh-conversations")

	v.SetDefault("knowledge.top_k", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "memory", "libsql", "dynamodb":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.RateLimit.Ceiling <= 0 {
		return fmt.Errorf("rate_limit.ceiling must be positive, got %d", c.RateLimit.Ceiling)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}
	if c.Pipeline.AgentTimeout <= 0 {
		return fmt.Errorf("pipeline.agent_timeout must be positive, got %s", c.Pipeline.AgentTimeout)
	}
	return nil
}
