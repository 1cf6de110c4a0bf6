package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	AI     AIConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Store: loadStoreConfig(), AI: ai}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// StoreConfig describes the conversation log backing store.
type StoreConfig struct {
	// DSN selects the driver: a postgres:// URL opens PostgreSQL,
	// anything else is treated as a SQLite path.
	DSN string
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		DSN: getEnvOrDefault("DATABASE_URL", "sparkchat.db"),
	}
}

// AIConfig describes the hosted completion endpoint.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Enabled reports whether the required credential is present.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadAIConfig() (AIConfig, error) {
	cfg := AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		BaseURL:     getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:       getEnvOrDefault("CHAT_MODEL", "llama-3.1-8b-instant"),
		Temperature: 0.7,
		MaxTokens:   1024,
	}

	if temperature, err := parseOptionalFloatEnv("CHAT_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if temperature != nil {
		cfg.Temperature = *temperature
	}

	if maxTokens, err := parseOptionalIntEnv("CHAT_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if maxTokens != nil {
		if *maxTokens < 1 {
			return AIConfig{}, fmt.Errorf("CHAT_MAX_TOKENS must be positive, got %d", *maxTokens)
		}
		cfg.MaxTokens = *maxTokens
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
