// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ashureev/housing-outlook/internal/gemini"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	// DefaultAPIKey is the environment-provided fallback credential.
	DefaultAPIKey string
	Model         string

	KeyValidationTimeout time.Duration
	KeySuccessDelay      time.Duration
	GenerationTimeout    time.Duration
	ChatSessionTTL       time.Duration
	MaxRequestBodySize   int64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		FrontendURL:          getEnv("FRONTEND_URL", ""),
		DBPath:               getEnv("DB_PATH", "./data/dashboard.db"),
		DefaultAPIKey:        strings.TrimSpace(getEnv("API_KEY", "")),
		Model:                getEnv("GEMINI_MODEL", gemini.DefaultModel),
		KeyValidationTimeout: getEnvDuration("KEY_VALIDATION_TIMEOUT", 15*time.Second),
		KeySuccessDelay:      getEnvDuration("KEY_SUCCESS_DELAY", time.Second),
		GenerationTimeout:    getEnvDuration("GENERATION_TIMEOUT", 60*time.Second),
		ChatSessionTTL:       getEnvDuration("CHAT_SESSION_TTL", 60*time.Minute),
		MaxRequestBodySize:   int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 1<<20)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("GEMINI_MODEL cannot be empty")
	}
	if c.KeyValidationTimeout <= 0 {
		return fmt.Errorf("KEY_VALIDATION_TIMEOUT must be > 0")
	}
	if c.KeySuccessDelay < 0 {
		return fmt.Errorf("KEY_SUCCESS_DELAY must be >= 0")
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be > 0")
	}
	if c.ChatSessionTTL <= 0 {
		return fmt.Errorf("CHAT_SESSION_TTL must be > 0")
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

// getEnvDuration accepts Go duration strings ("15s") or plain seconds ("15").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
