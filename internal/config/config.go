package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	"github.com/autoemporium/showroom-assistant/internal/core"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
	"github.com/autoemporium/showroom-assistant/pkg/postgres"
	pkgredis "github.com/autoemporium/showroom-assistant/pkg/redis"
)

const (
	BackendRedis    = "redis"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

type HTTPConfig struct {
	Port        int    `envconfig:"HTTP_PORT" default:"8001"`
	CORSOrigins string `envconfig:"HTTP_CORS_ORIGINS" default:"*"`
}

// AppConfig defines all configurable parameters of the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogFile     string           `envconfig:"LOG_FILE" default:"logs/chatbot.log"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Infrastructure
	Redis    pkgredis.Config
	Postgres postgres.Config
	HTTP     HTTPConfig

	// Agent configs
	Extraction  model.ExtractionModelConfig
	Response    model.ResponseModelConfig
	Prompt      model.PromptConfig
	Oracle      model.OracleConfig
	Checkpoints model.CheckpointConfig
	Memory      model.MemoryConfig
}

// Load reads the given .env files (".env" when none are named) and binds the
// environment. Missing files are not an error.
func Load(envFiles ...string) (*AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	cfg.Checkpoints.Backend = strings.ToLower(strings.TrimSpace(cfg.Checkpoints.Backend))
	cfg.Memory.Backend = strings.ToLower(strings.TrimSpace(cfg.Memory.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Checkpoints.Backend {
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("CHECKPOINT_BACKEND %q: want redis or memory", c.Checkpoints.Backend)
	}

	switch c.Memory.Backend {
	case BackendRedis, BackendNone:
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("MEMORY_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("MEMORY_BACKEND %q: want redis, postgres or none", c.Memory.Backend)
	}

	if c.Memory.RecallLimit < 0 {
		return fmt.Errorf("MEMORY_RECALL_LIMIT must not be negative")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT %d out of range", c.HTTP.Port)
	}
	return nil
}

// RequireOracle reports whether the live Gemini models can be built.
func (c *AppConfig) RequireOracle() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// UsesRedis reports whether any configured backend needs a Redis client.
func (c *AppConfig) UsesRedis() bool {
	return c.Checkpoints.Backend == BackendRedis || c.Memory.Backend == BackendRedis
}

func (c *AppConfig) LoggerOpts() logx.LoggerOpts {
	return logx.LoggerOpts{
		Environment: c.Environment,
		FilePath:    c.LogFile,
	}
}
