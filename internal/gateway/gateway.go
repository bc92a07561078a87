// Package gateway owns the single active generation client handle.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ashureev/housing-outlook/internal/domain"
	"github.com/ashureev/housing-outlook/internal/gemini"
	"github.com/ashureev/housing-outlook/internal/store"
)

// Handle binds one credential to a generator. It is never mutated;
// accepting a new credential replaces it.
type Handle struct {
	credential string
	gen        gemini.Generator
}

// Credential returns the API key the handle was built with.
func (h *Handle) Credential() string {
	return h.credential
}

// Generate forwards prompt to the bound generator.
func (h *Handle) Generate(ctx context.Context, prompt string) (string, error) {
	return h.gen.Generate(ctx, prompt)
}

// Resolver supplies a fallback credential when no handle is active.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context) (token string, ok bool, err error)
}

type envResolver struct {
	token string
}

// EnvResolver yields the environment-provided default token, if any.
func EnvResolver(token string) Resolver {
	return envResolver{token: strings.TrimSpace(token)}
}

func (r envResolver) Name() string { return "env" }

func (r envResolver) Resolve(context.Context) (string, bool, error) {
	return r.token, r.token != "", nil
}

type storeResolver struct {
	store store.CredentialStore
}

// StoreResolver yields the token persisted in the credential store.
func StoreResolver(s store.CredentialStore) Resolver {
	return storeResolver{store: s}
}

func (r storeResolver) Name() string { return "store" }

func (r storeResolver) Resolve(ctx context.Context) (string, bool, error) {
	token, ok, err := r.store.Load(ctx)
	if err != nil {
		return "", false, err
	}
	token = strings.TrimSpace(token)
	return token, ok && token != "", nil
}

// Gateway holds at most one initialized handle and recovers one from its
// resolvers, in order, when asked for a handle it does not have.
type Gateway struct {
	mu        sync.Mutex
	factory   gemini.Factory
	resolvers []Resolver
	active    *Handle
}

// New creates a gateway. Resolvers are consulted in the given order.
func New(factory gemini.Factory, resolvers ...Resolver) *Gateway {
	return &Gateway{
		factory:   factory,
		resolvers: resolvers,
	}
}

// Initialize builds a handle for token and makes it the active one.
// No network call is made.
func (g *Gateway) Initialize(ctx context.Context, token string) (*Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initializeLocked(ctx, token)
}

func (g *Gateway) initializeLocked(ctx context.Context, token string) (*Handle, error) {
	gen, err := g.factory(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("initialize client: %w", err)
	}
	g.active = &Handle{credential: token, gen: gen}
	return g.active, nil
}

// Current returns the active handle, recovering one from the resolvers if needed.
// It fails with a NotConfiguredError when no resolver yields a token.
func (g *Gateway) Current(ctx context.Context) (*Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active != nil {
		return g.active, nil
	}

	for _, r := range g.resolvers {
		token, ok, err := r.Resolve(ctx)
		if err != nil {
			slog.Warn("Credential resolver failed", "resolver", r.Name(), "error", err)
			continue
		}
		if !ok {
			continue
		}
		h, err := g.initializeLocked(ctx, token)
		if err != nil {
			slog.Warn("Failed to initialize client from resolver", "resolver", r.Name(), "error", err)
			continue
		}
		slog.Info("Client recovered from fallback credential", "resolver", r.Name())
		return h, nil
	}

	return nil, domain.NewNotConfiguredError()
}

// Reset drops the active handle.
func (g *Gateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = nil
}

// Ready reports whether a handle is active or can be recovered.
// It is recomputed on every call.
func (g *Gateway) Ready(ctx context.Context) bool {
	_, err := g.Current(ctx)
	return err == nil
}
