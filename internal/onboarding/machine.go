// Package onboarding drives the API key registration flow.
package onboarding

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/housing-outlook/internal/domain"
	"github.com/ashureev/housing-outlook/internal/gateway"
	"github.com/ashureev/housing-outlook/internal/store"
)

// State is the onboarding flow state.
type State string

const (
	StateIdle     State = "idle"
	StateChecking State = "checking"
	StateValid    State = "valid"
	StateInvalid  State = "invalid"
)

// DefaultSuccessDelay is how long a Valid result is shown before collaborators are notified.
const DefaultSuccessDelay = time.Second

// User-facing messages.
const (
	MessageEmptyKey     = "API Key를 입력해주세요."
	MessageInvalidKey   = "유효하지 않은 API Key입니다. 다시 확인해주세요."
	MessageValidKey     = "인증 성공! 설정이 완료되었습니다."
	MessageSaveFailed   = "API Key를 저장하지 못했습니다. 잠시 후 다시 시도해주세요."
	MessageStillRunning = "키 확인 중..."
)

// ErrSubmissionInFlight is returned when a submission arrives while another is being validated.
var ErrSubmissionInFlight = errors.New("key validation already in progress")

// Snapshot is a read-only view of the machine.
type Snapshot struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// KeyValidator confirms that a candidate key is usable.
type KeyValidator interface {
	Validate(ctx context.Context, candidate string) bool
}

// ClientInitializer makes a key the active generation credential.
type ClientInitializer interface {
	Initialize(ctx context.Context, token string) (*gateway.Handle, error)
}

// Notifier is told when a key has been accepted, after the success delay.
type Notifier interface {
	KeyRegistered()
}

// Machine is the onboarding state machine. It allows one validation in flight.
type Machine struct {
	mu       sync.Mutex
	state    State
	message  string
	checking bool

	validator KeyValidator
	store     store.CredentialStore
	client    ClientInitializer
	notifier  Notifier
	delay     time.Duration
}

// New creates a machine in the Idle state. notifier may be nil.
func New(v KeyValidator, s store.CredentialStore, c ClientInitializer, notifier Notifier, successDelay time.Duration) *Machine {
	if successDelay < 0 {
		successDelay = DefaultSuccessDelay
	}
	return &Machine{
		state:     StateIdle,
		validator: v,
		store:     s,
		client:    c,
		notifier:  notifier,
		delay:     successDelay,
	}
}

// Snapshot returns the current state and message.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, Message: m.message}
}

// Reset returns the machine to Idle, as when the registration surface is reopened.
// It is refused while a validation is in flight.
func (m *Machine) Reset() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checking {
		return Snapshot{State: m.state, Message: MessageStillRunning}, ErrSubmissionInFlight
	}
	m.state = StateIdle
	m.message = ""
	return Snapshot{State: m.state}, nil
}

// Submit validates candidate and, if it is usable, persists it and activates it.
// An empty candidate leaves the state unchanged and returns a ValidationError.
// Submit blocks until the validation settles.
func (m *Machine) Submit(ctx context.Context, candidate string) (Snapshot, error) {
	candidate = strings.TrimSpace(candidate)

	m.mu.Lock()
	if m.checking {
		snap := Snapshot{State: m.state, Message: MessageStillRunning}
		m.mu.Unlock()
		return snap, ErrSubmissionInFlight
	}
	if candidate == "" {
		m.message = MessageEmptyKey
		snap := Snapshot{State: m.state, Message: m.message}
		m.mu.Unlock()
		return snap, &domain.ValidationError{Field: "api_key", Message: MessageEmptyKey}
	}
	m.checking = true
	m.state = StateChecking
	m.message = ""
	m.mu.Unlock()

	// The result is applied even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	next, msg := StateInvalid, MessageInvalidKey
	if m.validator.Validate(ctx, candidate) {
		next, msg = m.accept(ctx, candidate)
	}

	m.mu.Lock()
	m.state = next
	m.message = msg
	m.checking = false
	snap := Snapshot{State: m.state, Message: m.message}
	m.mu.Unlock()

	if next == StateValid {
		m.scheduleNotify()
	}
	return snap, nil
}

func (m *Machine) accept(ctx context.Context, candidate string) (State, string) {
	if err := m.store.Save(ctx, candidate); err != nil {
		slog.Error("Failed to persist API key", "error", err)
		return StateInvalid, MessageSaveFailed
	}
	if _, err := m.client.Initialize(ctx, candidate); err != nil {
		slog.Error("Failed to initialize client with accepted key", "error", err)
		return StateInvalid, MessageSaveFailed
	}
	slog.Info("API key registered")
	return StateValid, MessageValidKey
}

func (m *Machine) scheduleNotify() {
	if m.notifier == nil {
		return
	}
	time.AfterFunc(m.delay, m.notifier.KeyRegistered)
}
