package config

import (
	"testing"
	"time"

	"github.com/ashureev/housing-outlook/internal/gemini"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", "./data/dashboard.db")
	t.Setenv("GEMINI_MODEL", gemini.DefaultModel)
	t.Setenv("KEY_SUCCESS_DELAY", "1s")
	t.Setenv("CHAT_SESSION_TTL", "60m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultAPIKey != "" {
		t.Errorf("expected no default key, got %q", cfg.DefaultAPIKey)
	}
	if cfg.KeySuccessDelay != time.Second {
		t.Errorf("expected 1s success delay, got %v", cfg.KeySuccessDelay)
	}
	if cfg.ChatSessionTTL != time.Hour {
		t.Errorf("expected 1h session ttl, got %v", cfg.ChatSessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_KEY", "  env-key  ")
	t.Setenv("KEY_VALIDATION_TIMEOUT", "5")
	t.Setenv("GENERATION_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultAPIKey != "env-key" {
		t.Errorf("expected trimmed env-key, got %q", cfg.DefaultAPIKey)
	}
	if cfg.KeyValidationTimeout != 5*time.Second {
		t.Errorf("expected plain seconds to parse, got %v", cfg.KeyValidationTimeout)
	}
	if cfg.GenerationTimeout != 90*time.Second {
		t.Errorf("expected 90s, got %v", cfg.GenerationTimeout)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := Config{
		Port:                 "8080",
		DBPath:               "db",
		Model:                gemini.DefaultModel,
		KeyValidationTimeout: time.Second,
		GenerationTimeout:    time.Second,
		ChatSessionTTL:       time.Minute,
		MaxRequestBodySize:   1,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected base config to validate, got %v", err)
	}

	bad := base
	bad.Port = ""
	if bad.Validate() == nil {
		t.Error("expected empty port to fail")
	}
	bad = base
	bad.KeySuccessDelay = -time.Second
	if bad.Validate() == nil {
		t.Error("expected negative success delay to fail")
	}
	bad = base
	bad.ChatSessionTTL = 0
	if bad.Validate() == nil {
		t.Error("expected zero session ttl to fail")
	}
}

func TestIsDevelopment(t *testing.T) {
	if !(&Config{}).IsDevelopment() {
		t.Error("empty frontend url should be development")
	}
	if (&Config{FrontendURL: "https://report.example.com"}).IsDevelopment() {
		t.Error("public frontend url should not be development")
	}
}
