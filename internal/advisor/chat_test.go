package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/housing-outlook/internal/domain"
	"github.com/ashureev/housing-outlook/internal/gateway"
	"github.com/ashureev/housing-outlook/internal/gemini"
)

func TestSessionSeededWithGreeting(t *testing.T) {
	s := NewSession("tab-1", gateway.New(gemini.NewFactory("")), time.Second)
	h := s.History()
	if len(h) != 1 || h[0].Speaker != domain.SpeakerAssistant || h[0].Text != ChatGreeting {
		t.Fatalf("unexpected seed history %+v", h)
	}
}

func TestSessionHistoryRoundTrip(t *testing.T) {
	gen := &scriptedGenerator{reply: echo}
	s := NewSession("tab-1", configuredGateway(t, gen), time.Second)
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		reply, err := s.Send(ctx, fmt.Sprintf("question %d", i))
		if err != nil {
			t.Fatalf("Send %d failed: %v", i, err)
		}
		if reply.Text != fmt.Sprintf("reply %d", i+1) || reply.IsError {
			t.Fatalf("unexpected reply %+v", reply)
		}
	}

	history := s.History()
	if len(history) != 1+2*n {
		t.Fatalf("expected %d turns, got %d", 1+2*n, len(history))
	}
	for i := 0; i < n; i++ {
		u, a := history[1+2*i], history[2+2*i]
		if u.Speaker != domain.SpeakerUser || u.Text != fmt.Sprintf("question %d", i) {
			t.Fatalf("turn %d out of order: %+v", 1+2*i, u)
		}
		if a.Speaker != domain.SpeakerAssistant || a.Text != fmt.Sprintf("reply %d", i+1) {
			t.Fatalf("turn %d out of order: %+v", 2+2*i, a)
		}
	}

	// The last prompt carries every prior turn and then the new message.
	calls := gen.calls()
	last := calls[len(calls)-1]
	prev := -1
	for _, turn := range history[:len(history)-2] {
		idx := strings.Index(last, turn.Speaker.Label()+": "+turn.Text)
		if idx <= prev {
			t.Fatalf("turn %q missing or reordered in prompt", turn.Text)
		}
		prev = idx
	}
	if !strings.HasSuffix(last, "사용자 질문: question 4") {
		t.Fatal("expected new message at end of prompt")
	}
	if strings.Contains(last, "User: question 4") {
		t.Fatal("new message must not be replayed as a prior turn")
	}
}

func TestSessionRejectsEmptyMessage(t *testing.T) {
	gen := &scriptedGenerator{reply: echo}
	s := NewSession("tab-1", configuredGateway(t, gen), time.Second)

	if _, err := s.Send(context.Background(), "   "); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(s.History()) != 1 || len(gen.calls()) != 0 {
		t.Fatal("empty message must not append turns or call the model")
	}
}

func TestSessionErrorTurns(t *testing.T) {
	gen := &scriptedGenerator{reply: func(int, string) (string, error) { return "", errors.New("network down") }}
	s := NewSession("tab-1", configuredGateway(t, gen), time.Second)

	reply, err := s.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !reply.IsError || reply.Text != ChatFallback {
		t.Fatalf("expected error turn, got %+v", reply)
	}
	h := s.History()
	if h[len(h)-2].Text != "hello" || !h[len(h)-1].IsError {
		t.Fatalf("expected user turn followed by error turn, got %+v", h)
	}
}

func TestSessionNotConfigured(t *testing.T) {
	s := NewSession("tab-1", gateway.New(gemini.NewFactory("")), time.Second)

	reply, err := s.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !reply.IsError || reply.Text != domain.NotConfiguredMessage {
		t.Fatalf("expected registration instruction, got %+v", reply)
	}
}

func TestSessionRejectsConcurrentSend(t *testing.T) {
	gen := &scriptedGenerator{reply: echo, release: make(chan struct{}), entered: make(chan struct{}, 1)}
	s := NewSession("tab-1", configuredGateway(t, gen), time.Second)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Send(ctx, "first")
	}()
	<-gen.entered

	if !s.Sending() {
		t.Fatal("expected session to report an outstanding reply")
	}
	// The user turn is already recorded before the reply settles.
	if h := s.History(); h[len(h)-1].Text != "first" {
		t.Fatalf("expected user turn appended before the call, got %+v", h[len(h)-1])
	}
	if _, err := s.Send(ctx, "second"); !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("expected ErrSendInFlight, got %v", err)
	}

	close(gen.release)
	<-done
	if got := len(s.History()); got != 3 {
		t.Fatalf("expected greeting, user and reply turns, got %d", got)
	}
}

func TestSessionsSweep(t *testing.T) {
	m := NewSessions(gateway.New(gemini.NewFactory("")), time.Second)
	a := m.Get("tab-a")
	if m.Get("tab-a") != a {
		t.Fatal("expected Get to return the existing session")
	}
	m.Get("tab-b")

	if removed := m.Sweep(time.Hour); removed != 0 {
		t.Fatalf("expected nothing swept, removed %d", removed)
	}
	time.Sleep(5 * time.Millisecond)
	if removed := m.Sweep(time.Millisecond); removed != 2 {
		t.Fatalf("expected 2 sessions swept, removed %d", removed)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", m.Len())
	}
}

func TestSessionsGetKeepsSessionAlive(t *testing.T) {
	gen := &scriptedGenerator{reply: echo}
	m := NewSessions(configuredGateway(t, gen), time.Second)

	s := m.Get("tab")
	s.mu.Lock()
	s.lastActive = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	// A request looking the session up again must not lose it to the sweeper
	// before its Send starts.
	if m.Get("tab") != s {
		t.Fatal("expected the existing session")
	}
	if removed := m.Sweep(time.Minute); removed != 0 {
		t.Fatalf("expected the freshly used session to survive, removed %d", removed)
	}
	if _, err := s.Send(context.Background(), "질문"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := len(m.Get("tab").History()); got != 3 {
		t.Fatalf("expected the registry to hold the session with 3 turns, got %d", got)
	}
}
