package advisor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/housing-outlook/internal/domain"
	"github.com/ashureev/housing-outlook/internal/prompt"
)

// MessageEmptyChat is returned for a blank chat message.
const MessageEmptyChat = "질문을 입력해주세요."

// ErrSendInFlight is returned when a message is sent while a reply is outstanding.
var ErrSendInFlight = errors.New("chat reply already in progress")

// Session is one append-only chat conversation.
type Session struct {
	id      string
	clients ClientProvider
	timeout time.Duration

	mu         sync.Mutex
	turns      []domain.ConversationTurn
	sending    bool
	lastActive time.Time
}

// NewSession creates a session seeded with the assistant greeting.
func NewSession(id string, clients ClientProvider, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Session{
		id:         id,
		clients:    clients,
		timeout:    timeout,
		turns:      []domain.ConversationTurn{{Speaker: domain.SpeakerAssistant, Text: ChatGreeting}},
		lastActive: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// History returns a copy of all turns in order.
func (s *Session) History() []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Sending reports whether a reply is outstanding.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Send appends message as a user turn, waits for the model, and appends its reply.
// The reply turn is returned; failures are recorded as error-flagged turns rather than errors.
func (s *Session) Send(ctx context.Context, message string) (domain.ConversationTurn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.ConversationTurn{}, &domain.ValidationError{Field: "message", Message: MessageEmptyChat}
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return domain.ConversationTurn{}, ErrSendInFlight
	}
	history := make([]domain.ConversationTurn, len(s.turns))
	copy(history, s.turns)
	s.turns = append(s.turns, domain.ConversationTurn{Speaker: domain.SpeakerUser, Text: message})
	s.sending = true
	s.lastActive = time.Now()
	s.mu.Unlock()

	reply := s.reply(ctx, history, message)

	s.mu.Lock()
	s.turns = append(s.turns, reply)
	s.sending = false
	s.lastActive = time.Now()
	s.mu.Unlock()

	return reply, nil
}

func (s *Session) reply(ctx context.Context, history []domain.ConversationTurn, message string) domain.ConversationTurn {
	h, err := s.clients.Current(ctx)
	if err != nil {
		text := ChatFallback
		if domain.IsNotConfigured(err) {
			text = domain.NotConfiguredMessage
		}
		return domain.ConversationTurn{Speaker: domain.SpeakerAssistant, Text: text, IsError: true}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	text, err := h.Generate(ctx, prompt.BuildChatPrompt(history, message))
	if err != nil {
		err = &domain.ExternalCallError{Op: "chat", Err: err}
		slog.Error("Chat generation failed", "session_id", s.id, "error", err, "duration", time.Since(start))
		return domain.ConversationTurn{Speaker: domain.SpeakerAssistant, Text: ChatFallback, IsError: true}
	}
	slog.Info("Chat reply generated",
		"session_id", s.id,
		"history_turns", len(history),
		"duration", time.Since(start),
		"response_length", len(text),
	)

	if strings.TrimSpace(text) == "" {
		text = ChatEmpty
	}
	return domain.ConversationTurn{Speaker: domain.SpeakerAssistant, Text: text}
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.sending && s.lastActive.Before(cutoff)
}

// Sessions holds chat sessions keyed by tab session ID.
type Sessions struct {
	clients ClientProvider
	timeout time.Duration

	mu     sync.Mutex
	active map[string]*Session
}

// NewSessions creates an empty session registry.
func NewSessions(clients ClientProvider, timeout time.Duration) *Sessions {
	return &Sessions{
		clients: clients,
		timeout: timeout,
		active:  make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
// It marks the session active so a concurrent sweep keeps it.
func (m *Sessions) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.active[id]; ok {
		s.touch()
		return s
	}
	s := NewSession(id, m.clients, m.timeout)
	m.active[id] = s
	slog.Info("Chat session created", "session_id", id)
	return s
}

// Len returns the number of live sessions.
func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Sweep removes sessions idle longer than ttl and reports how many were removed.
// Sessions with a reply outstanding are kept.
func (m *Sessions) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.active {
		if s.idleSince(cutoff) {
			delete(m.active, id)
			removed++
		}
	}
	return removed
}

const sweepInterval = 5 * time.Minute

// StartSweeper periodically drops idle sessions until ctx is done.
func (m *Sessions) StartSweeper(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := sweepInterval
	if ttl < interval {
		interval = ttl
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Chat session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				if n := m.Sweep(ttl); n > 0 {
					slog.Info("Chat session sweeper removed idle sessions", "count", n)
				}
			case <-ctx.Done():
				slog.Info("Chat session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
