package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/housing-outlook/internal/domain"
	"github.com/ashureev/housing-outlook/internal/onboarding"
)

type keyRequest struct {
	Key string `json:"key"`
}

type keyResponse struct {
	onboarding.Snapshot
	HasKey  bool `json:"has_key"`
	AIReady bool `json:"ai_ready"`
}

func (h *Handler) keyResponse(r *http.Request, snap onboarding.Snapshot) keyResponse {
	_, hasKey, err := h.store.Load(r.Context())
	if err != nil {
		slog.Warn("Failed to read stored credential", "error", err)
	}
	return keyResponse{
		Snapshot: snap,
		HasKey:   hasKey,
		AIReady:  h.gate.Ready(r.Context()),
	}
}

// GetConfig returns the feature gate and static form options for the frontend.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	statuses := make([]map[string]string, 0, len(domain.OccupancyStatuses()))
	for _, s := range domain.OccupancyStatuses() {
		statuses = append(statuses, map[string]string{"code": string(s), "label": s.Label()})
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"ai_ready": h.gate.Ready(r.Context()),
		"model":    h.model,
		"statuses": statuses,
	})
}

// GetKeyState returns the onboarding state.
func (h *Handler) GetKeyState(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.keyResponse(r, h.machine.Snapshot()))
}

// OpenKeyRegistration resets the onboarding flow, as when the registration dialog opens.
func (h *Handler) OpenKeyRegistration(w http.ResponseWriter, r *http.Request) {
	snap, err := h.machine.Reset()
	if errors.Is(err, onboarding.ErrSubmissionInFlight) {
		JSON(w, http.StatusConflict, h.keyResponse(r, snap))
		return
	}
	JSON(w, http.StatusOK, h.keyResponse(r, snap))
}

// SubmitKey validates and registers a candidate API key.
func (h *Handler) SubmitKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !h.decode(w, r, &req) {
		return
	}

	snap, err := h.machine.Submit(r.Context(), req.Key)
	switch {
	case domain.IsValidation(err):
		JSON(w, http.StatusBadRequest, h.keyResponse(r, snap))
	case errors.Is(err, onboarding.ErrSubmissionInFlight):
		JSON(w, http.StatusConflict, h.keyResponse(r, snap))
	case err != nil:
		slog.Error("Key submission failed", "error", err)
		Error(w, http.StatusInternalServerError, "key submission failed")
	default:
		JSON(w, http.StatusOK, h.keyResponse(r, snap))
	}
}

// ClearKey removes the stored API key and drops the active client.
func (h *Handler) ClearKey(w http.ResponseWriter, r *http.Request) {
	if _, err := h.machine.Reset(); errors.Is(err, onboarding.ErrSubmissionInFlight) {
		Error(w, http.StatusConflict, "key validation in progress")
		return
	}
	if err := h.store.Clear(r.Context()); err != nil {
		slog.Error("Failed to clear credential", "error", err)
		Error(w, http.StatusInternalServerError, "failed to clear api key")
		return
	}
	h.gate.Reset()
	slog.Info("API key cleared")
	JSON(w, http.StatusOK, h.keyResponse(r, h.machine.Snapshot()))
}
