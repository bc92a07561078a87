package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/housing-outlook/internal/domain"
	"github.com/ashureev/housing-outlook/internal/gateway"
	"github.com/ashureev/housing-outlook/internal/gemini"
)

// scriptedGenerator records prompts and replies from a script.
type scriptedGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   func(n int, prompt string) (string, error)
	release chan struct{}
	entered chan struct{}
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	n := len(g.prompts)
	g.mu.Unlock()
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	return g.reply(n, prompt)
}

func (g *scriptedGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func configuredGateway(t *testing.T, gen gemini.Generator) *gateway.Gateway {
	t.Helper()
	gw := gateway.New(func(context.Context, string) (gemini.Generator, error) { return gen, nil })
	if _, err := gw.Initialize(context.Background(), "good-key"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return gw
}

func echo(n int, _ string) (string, error) { return fmt.Sprintf("reply %d", n), nil }

func TestStrategyReturnsModelText(t *testing.T) {
	gen := &scriptedGenerator{reply: func(int, string) (string, error) { return "**매수** 추천", nil }}
	a := New(configuredGateway(t, gen), time.Second)

	res, err := a.Strategy(context.Background(), domain.StrategyRequest{
		OccupancyStatus:   domain.StatusNoHome,
		TargetDescription: "서울 마포구 / 5억 원",
	})
	if err != nil {
		t.Fatalf("Strategy failed: %v", err)
	}
	if res.IsError || res.Text != "**매수** 추천" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Segments) != 2 || !res.Segments[0].Bold || res.Segments[0].Text != "매수" {
		t.Fatalf("unexpected segments %+v", res.Segments)
	}
	calls := gen.calls()
	if len(calls) != 1 || !strings.Contains(calls[0], "서울 마포구 / 5억 원") {
		t.Fatalf("expected one strategy prompt with target, got %v", calls)
	}
}

func TestStrategyEmptyTargetMakesNoCall(t *testing.T) {
	gen := &scriptedGenerator{reply: echo}
	a := New(configuredGateway(t, gen), time.Second)

	_, err := a.Strategy(context.Background(), domain.StrategyRequest{OccupancyStatus: domain.StatusNoHome})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(gen.calls()) != 0 {
		t.Fatal("no network call may be made for an empty target")
	}
}

func TestStrategyNotConfigured(t *testing.T) {
	a := New(gateway.New(gemini.NewFactory("")), time.Second)

	res, err := a.Strategy(context.Background(), domain.StrategyRequest{TargetDescription: "부산"})
	if err != nil {
		t.Fatalf("Strategy failed: %v", err)
	}
	if !res.IsError || !res.NotConfigured || res.Text != domain.NotConfiguredMessage {
		t.Fatalf("expected not-configured result, got %+v", res)
	}
}

func TestStrategyExternalFailureUsesFallback(t *testing.T) {
	gen := &scriptedGenerator{reply: func(int, string) (string, error) { return "", errors.New("503") }}
	a := New(configuredGateway(t, gen), time.Second)

	res, err := a.Strategy(context.Background(), domain.StrategyRequest{TargetDescription: "부산"})
	if err != nil {
		t.Fatalf("Strategy failed: %v", err)
	}
	if !res.IsError || res.Text != StrategyFallback {
		t.Fatalf("expected fallback result, got %+v", res)
	}
}

func TestStrategyEmptyTextPlaceholder(t *testing.T) {
	gen := &scriptedGenerator{reply: func(int, string) (string, error) { return " ", nil }}
	a := New(configuredGateway(t, gen), time.Second)

	res, _ := a.Strategy(context.Background(), domain.StrategyRequest{TargetDescription: "부산"})
	if res.IsError || res.Text != StrategyEmpty {
		t.Fatalf("expected empty placeholder, got %+v", res)
	}
}

func TestStrategyRejectsConcurrentRequest(t *testing.T) {
	gen := &scriptedGenerator{reply: echo, release: make(chan struct{}), entered: make(chan struct{}, 1)}
	a := New(configuredGateway(t, gen), time.Second)
	req := domain.StrategyRequest{TargetDescription: "부산"}

	done := make(chan error, 1)
	go func() {
		_, err := a.Strategy(context.Background(), req)
		done <- err
	}()
	<-gen.entered

	if _, err := a.Strategy(context.Background(), req); !errors.Is(err, ErrStrategyInFlight) {
		t.Fatalf("expected ErrStrategyInFlight, got %v", err)
	}
	close(gen.release)
	if err := <-done; err != nil {
		t.Fatalf("first strategy failed: %v", err)
	}
}

func TestSegments(t *testing.T) {
	got := Segments("앞 **강조** 뒤 **끝")
	want := []Segment{{Text: "앞 "}, {Text: "강조", Bold: true}, {Text: " 뒤 **끝"}}
	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if len(Segments("")) != 0 {
		t.Fatal("expected no segments for empty text")
	}
}
