// Package advisor implements the strategy and chat interactions on top of the client gateway.
package advisor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ashureev/housing-outlook/internal/domain"
	"github.com/ashureev/housing-outlook/internal/gateway"
	"github.com/ashureev/housing-outlook/internal/prompt"
)

// DefaultGenerationTimeout bounds a single strategy or chat call.
const DefaultGenerationTimeout = 60 * time.Second

// Fixed user-facing texts.
const (
	StrategyFallback = "오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	StrategyEmpty    = "전략을 생성할 수 없습니다."
	ChatFallback     = "죄송합니다. 일시적인 오류가 발생했습니다."
	ChatEmpty        = "답변을 생성할 수 없습니다."
	ChatGreeting     = `안녕하세요! 2026년 부동산 시장에 대해 궁금한 점이 있으신가요? 예: "왜 2026년에 공급 절벽인가요?"`
)

// ErrStrategyInFlight is returned when a strategy request arrives while another is outstanding.
var ErrStrategyInFlight = errors.New("strategy generation already in progress")

// ClientProvider yields the active client handle.
type ClientProvider interface {
	Current(ctx context.Context) (*gateway.Handle, error)
}

// Result is the rendered outcome of a strategy request.
type Result struct {
	Text          string    `json:"text"`
	Segments      []Segment `json:"segments"`
	IsError       bool      `json:"is_error,omitempty"`
	NotConfigured bool      `json:"not_configured,omitempty"`
}

// Advisor runs one-shot strategy generation.
type Advisor struct {
	clients ClientProvider
	timeout time.Duration
	busy    atomic.Bool
}

// New creates an advisor. A non-positive timeout selects DefaultGenerationTimeout.
func New(clients ClientProvider, timeout time.Duration) *Advisor {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Advisor{clients: clients, timeout: timeout}
}

// Strategy builds a strategy prompt for req and returns the model's answer.
// Only a ValidationError or ErrStrategyInFlight is returned as an error;
// configuration and generation failures become an error-flagged Result.
func (a *Advisor) Strategy(ctx context.Context, req domain.StrategyRequest) (Result, error) {
	p, err := prompt.BuildStrategyPrompt(req)
	if err != nil {
		return Result{}, err
	}

	if !a.busy.CompareAndSwap(false, true) {
		return Result{}, ErrStrategyInFlight
	}
	defer a.busy.Store(false)

	h, err := a.clients.Current(ctx)
	if err != nil {
		return failure(err, StrategyFallback), nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	start := time.Now()
	text, err := h.Generate(ctx, p)
	if err != nil {
		err = &domain.ExternalCallError{Op: "strategy", Err: err}
		slog.Error("Strategy generation failed", "error", err, "duration", time.Since(start))
		return failure(err, StrategyFallback), nil
	}
	slog.Info("Strategy generated", "status", req.OccupancyStatus, "duration", time.Since(start), "response_length", len(text))

	if strings.TrimSpace(text) == "" {
		text = StrategyEmpty
	}
	return Result{Text: text, Segments: Segments(text)}, nil
}

func failure(err error, fallback string) Result {
	if domain.IsNotConfigured(err) {
		return Result{
			Text:          domain.NotConfiguredMessage,
			Segments:      Segments(domain.NotConfiguredMessage),
			IsError:       true,
			NotConfigured: true,
		}
	}
	return Result{Text: fallback, Segments: Segments(fallback), IsError: true}
}
