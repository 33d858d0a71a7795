// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store        StoreConfig   `yaml:"store" mapstructure:"store"`
	Weights      WeightsConfig `yaml:"weights" mapstructure:"weights"`
	LLM          LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Server       ServerConfig  `yaml:"server" mapstructure:"server"`
	Log          LogConfig     `yaml:"log" mapstructure:"log"`
	CalendarPath string        `yaml:"calendar_path" mapstructure:"calendar_path"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// WeightsConfig holds the relative category weights used for the overall
// score. The three weights must sum to 1.0; Load renormalizes if they drift.
type WeightsConfig struct {
	Environmental float64 `yaml:"environmental" mapstructure:"environmental"`
	Social        float64 `yaml:"social" mapstructure:"social"`
	Governance    float64 `yaml:"governance" mapstructure:"governance"`
}

// LLMConfig configures the text-generation provider chain.
type LLMConfig struct {
	Providers     []string `yaml:"providers" mapstructure:"providers"`
	AnthropicKey  string   `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	Model         string   `yaml:"model" mapstructure:"model"`
	OllamaBaseURL string   `yaml:"ollama_base_url" mapstructure:"ollama_base_url"`
	OllamaModel   string   `yaml:"ollama_model" mapstructure:"ollama_model"`
	MaxTokens     int      `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs   int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerMin    int      `yaml:"rate_per_min" mapstructure:"rate_per_min"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ESG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "esg-compass.db")
	v.SetDefault("weights.environmental", 0.4)
	v.SetDefault("weights.social", 0.3)
	v.SetDefault("weights.governance", 0.3)
	v.SetDefault("llm.providers", []string{"anthropic", "ollama"})
	v.SetDefault("llm.model", "claude-haiku-4-5-20251001")
	v.SetDefault("llm.ollama_base_url", "http://localhost:11434")
	v.SetDefault("llm.ollama_model", "llama3.1")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout_secs", 30)
	v.SetDefault("llm.rate_per_min", 20)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	cfg.Weights = normalizeWeights(cfg.Weights)

	return &cfg, nil
}

// normalizeWeights rescales the category weights so they sum to 1.0.
func normalizeWeights(w WeightsConfig) WeightsConfig {
	sum := w.Environmental + w.Social + w.Governance
	if sum <= 0 {
		zap.L().Warn("config: category weights sum to zero, using defaults")
		return WeightsConfig{Environmental: 0.4, Social: 0.3, Governance: 0.3}
	}
	if math.Abs(sum-1.0) > 1e-9 {
		zap.L().Warn("config: category weights renormalized",
			zap.Float64("sum", sum))
		w.Environmental /= sum
		w.Social /= sum
		w.Governance /= sum
	}
	return w
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
