// Package api provides HTTP handlers for the dashboard API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ashureev/housing-outlook/internal/advisor"
	"github.com/ashureev/housing-outlook/internal/config"
	"github.com/ashureev/housing-outlook/internal/onboarding"
	"github.com/ashureev/housing-outlook/internal/store"
	"github.com/go-chi/chi/v5"
)

// defaultMaxRequestBodySize is the default maximum allowed request body size (1MB).
const defaultMaxRequestBodySize = 1 << 20 // 1MB

// FeatureGate reports and clears the availability of the AI features.
type FeatureGate interface {
	Ready(ctx context.Context) bool
	Reset()
}

// Handler serves the dashboard API.
type Handler struct {
	store    store.CredentialStore
	gate     FeatureGate
	machine  *onboarding.Machine
	advisor  *advisor.Advisor
	sessions *advisor.Sessions

	model       string
	maxBodySize int64
}

// NewHandler creates a new Handler. cfg may be nil, in which case defaults apply.
func NewHandler(
	credentials store.CredentialStore,
	gate FeatureGate,
	machine *onboarding.Machine,
	adv *advisor.Advisor,
	sessions *advisor.Sessions,
	cfg *config.Config,
) *Handler {
	h := &Handler{
		store:       credentials,
		gate:        gate,
		machine:     machine,
		advisor:     adv,
		sessions:    sessions,
		maxBodySize: defaultMaxRequestBodySize,
	}
	if cfg != nil {
		h.model = cfg.Model
		h.maxBodySize = cfg.MaxRequestBodySize
	}
	return h
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.GetConfig)
		r.Get("/report", h.GetReport)

		r.Get("/key", h.GetKeyState)
		r.Post("/key", h.SubmitKey)
		r.Post("/key/open", h.OpenKeyRegistration)
		r.Delete("/key", h.ClearKey)

		r.Post("/strategy", h.GenerateStrategy)

		r.Get("/chat", h.GetChat)
		r.Post("/chat", h.SendChat)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decode reads a size-limited JSON body into v and writes the error response itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
