// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/ashureev/housing-outlook/internal/domain"
)

// CredentialKey is the settings key under which the API key is persisted.
const CredentialKey = "gemini_api_key"

// CredentialStore persists the single API key used for generation calls.
type CredentialStore interface {
	// Load returns the persisted token. ok is false when nothing is stored.
	Load(ctx context.Context) (token string, ok bool, err error)

	// Save persists token, overwriting any previous value.
	// It fails with a ValidationError for an empty or whitespace-only token.
	Save(ctx context.Context, token string) error

	// Clear removes the persisted token.
	Clear(ctx context.Context) error
}

// Repository is a CredentialStore backed by a database connection.
type Repository interface {
	CredentialStore

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

func validateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return &domain.ValidationError{Field: "api_key", Message: "API Key를 입력해주세요."}
	}
	return nil
}

// MemoryStore is a process-local CredentialStore.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemory creates an empty in-memory credential store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored token.
func (m *MemoryStore) Load(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.set, nil
}

// Save stores token.
func (m *MemoryStore) Save(_ context.Context, token string) error {
	if err := validateToken(token); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
	return nil
}

// Clear drops the stored token.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}
