// Package validator checks whether a candidate API key can reach the generation endpoint.
package validator

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/housing-outlook/internal/gemini"
)

// ProbePrompt is the fixed payload sent to verify a key.
const ProbePrompt = "Test"

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 15 * time.Second

// Validator issues one probe generation request with a throwaway client.
// It never touches persisted state or the active client handle.
type Validator struct {
	factory gemini.Factory
	timeout time.Duration
}

// New creates a validator. A non-positive timeout selects DefaultTimeout.
func New(factory gemini.Factory, timeout time.Duration) *Validator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Validator{factory: factory, timeout: timeout}
}

// Validate reports whether candidate completed a probe request without error.
// Failure causes are logged but not distinguished; there is no retry.
func (v *Validator) Validate(ctx context.Context, candidate string) bool {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	gen, err := v.factory(ctx, candidate)
	if err != nil {
		slog.Warn("API key validation failed", "stage", "client", "error", err)
		return false
	}

	start := time.Now()
	if _, err := gen.Generate(ctx, ProbePrompt); err != nil {
		slog.Warn("API key validation failed", "stage", "probe", "duration", time.Since(start), "error", err)
		return false
	}

	slog.Info("API key validated", "duration", time.Since(start))
	return true
}
