// Package config loads postmind configuration from an optional YAML file
// overridden by environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider identifies an LLM/embedding backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// Embedding provider
	EmbedProvider  Provider `yaml:"embed_provider"`
	EmbedModel     string   `yaml:"embed_model"`
	EmbedDimension int      `yaml:"embed_dimension"`

	// Generation provider
	LLMProvider Provider `yaml:"llm_provider"`
	LLMModel    string   `yaml:"llm_model"`

	// Provider credentials / endpoints
	OllamaHost      string `yaml:"ollama_host"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	// Memory behavior
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MaxSimilarPosts     int     `yaml:"max_similar_posts"`

	// Generation temperatures per style mode
	SimilarTemperature   float64 `yaml:"similar_temperature"`
	DifferentTemperature float64 `yaml:"different_temperature"`

	// Output validation bounds
	MinPostLength int `yaml:"min_post_length"`
	MaxPostLength int `yaml:"max_post_length"`

	// HTTP server
	ServerPort string `yaml:"server_port"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration: defaults, then the YAML file named by
// POSTMIND_CONFIG (if set and readable), then environment overrides.
func Load() Config {
	cfg := defaults()

	if path := os.Getenv("POSTMIND_CONFIG"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				slog.Warn("ignoring malformed config file", "path", path, "error", err)
			}
		} else {
			slog.Warn("config file not readable", "path", path, "error", err)
		}
	}

	applyEnv(&cfg)
	return cfg
}

func defaults() Config {
	return Config{
		SurrealDBURL:       "ws://localhost:8000/rpc",
		SurrealDBNamespace: "postmind",
		SurrealDBDatabase:  "memory",
		SurrealDBUser:      "root",
		SurrealDBPass:      "root",
		SurrealDBAuthLevel: "root",

		EmbedProvider:  ProviderOllama,
		EmbedModel:     "all-minilm:l6-v2",
		EmbedDimension: 384,

		LLMProvider: ProviderOllama,
		LLMModel:    "llama3.2",

		OllamaHost: "http://localhost:11434",

		SimilarityThreshold: 0.75,
		MaxSimilarPosts:     3,

		SimilarTemperature:   0.3,
		DifferentTemperature: 0.7,

		MinPostLength: 100,
		MaxPostLength: 3000,

		ServerPort: "8480",

		LogFile:  "/tmp/postmind.log",
		LogLevel: slog.LevelInfo,
	}
}

func applyEnv(cfg *Config) {
	cfg.SurrealDBURL = getEnv("SURREALDB_URL", cfg.SurrealDBURL)
	cfg.SurrealDBNamespace = getEnv("SURREALDB_NAMESPACE", cfg.SurrealDBNamespace)
	cfg.SurrealDBDatabase = getEnv("SURREALDB_DATABASE", cfg.SurrealDBDatabase)
	cfg.SurrealDBUser = getEnv("SURREALDB_USER", cfg.SurrealDBUser)
	cfg.SurrealDBPass = getEnv("SURREALDB_PASS", cfg.SurrealDBPass)
	cfg.SurrealDBAuthLevel = getEnv("SURREALDB_AUTH_LEVEL", cfg.SurrealDBAuthLevel)

	cfg.EmbedProvider = Provider(getEnv("POSTMIND_EMBED_PROVIDER", string(cfg.EmbedProvider)))
	cfg.EmbedModel = getEnv("POSTMIND_EMBED_MODEL", cfg.EmbedModel)
	cfg.EmbedDimension = getEnvInt("POSTMIND_EMBED_DIMENSION", cfg.EmbedDimension)

	cfg.LLMProvider = Provider(getEnv("POSTMIND_LLM_PROVIDER", string(cfg.LLMProvider)))
	cfg.LLMModel = getEnv("POSTMIND_LLM_MODEL", cfg.LLMModel)

	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)

	cfg.SimilarityThreshold = getEnvFloat("POSTMIND_SIMILARITY_THRESHOLD", cfg.SimilarityThreshold)
	cfg.MaxSimilarPosts = getEnvInt("POSTMIND_MAX_SIMILAR_POSTS", cfg.MaxSimilarPosts)

	cfg.SimilarTemperature = getEnvFloat("POSTMIND_SIMILAR_TEMPERATURE", cfg.SimilarTemperature)
	cfg.DifferentTemperature = getEnvFloat("POSTMIND_DIFFERENT_TEMPERATURE", cfg.DifferentTemperature)

	cfg.MinPostLength = getEnvInt("POSTMIND_MIN_POST_LENGTH", cfg.MinPostLength)
	cfg.MaxPostLength = getEnvInt("POSTMIND_MAX_POST_LENGTH", cfg.MaxPostLength)

	cfg.ServerPort = getEnv("POSTMIND_SERVER_PORT", cfg.ServerPort)

	cfg.LogFile = getEnv("POSTMIND_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = parseLogLevel(getEnv("POSTMIND_LOG_LEVEL", "INFO"))
}

// Validate checks values that would otherwise fail deep inside the engine.
func (c Config) Validate() error {
	if c.EmbedDimension <= 0 {
		return fmt.Errorf("embed dimension must be positive, got %d", c.EmbedDimension)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in [0,1], got %f", c.SimilarityThreshold)
	}
	if c.MaxSimilarPosts <= 0 {
		return fmt.Errorf("max similar posts must be positive, got %d", c.MaxSimilarPosts)
	}
	if c.MinPostLength >= c.MaxPostLength {
		return fmt.Errorf("min post length %d must be below max %d", c.MinPostLength, c.MaxPostLength)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
