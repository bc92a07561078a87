package api

import (
	"errors"
	"net/http"

	"github.com/ashureev/housing-outlook/internal/advisor"
	"github.com/ashureev/housing-outlook/internal/domain"
	"github.com/ashureev/housing-outlook/internal/report"
	"github.com/ashureev/housing-outlook/internal/session"
)

type strategyRequest struct {
	Status string `json:"status"`
	Target string `json:"target"`
}

type chatRequest struct {
	Message string `json:"message"`
}

func validationMessage(err error) string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return err.Error()
}

// GenerateStrategy handles POST /api/strategy.
func (h *Handler) GenerateStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if !h.decode(w, r, &req) {
		return
	}

	status, err := domain.ParseOccupancyStatus(req.Status)
	if err != nil {
		Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	res, err := h.advisor.Strategy(r.Context(), domain.StrategyRequest{
		OccupancyStatus:   status,
		TargetDescription: req.Target,
	})
	switch {
	case domain.IsValidation(err):
		Error(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, advisor.ErrStrategyInFlight):
		Error(w, http.StatusConflict, "strategy generation in progress")
	case err != nil:
		Error(w, http.StatusInternalServerError, "strategy generation failed")
	default:
		JSON(w, http.StatusOK, res)
	}
}

// GetChat returns the tab's chat history.
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(session.IDFromContext(r.Context()))
	JSON(w, http.StatusOK, map[string]interface{}{
		"session_id": s.ID(),
		"turns":      s.History(),
		"sending":    s.Sending(),
	})
}

// SendChat handles POST /api/chat.
func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decode(w, r, &req) {
		return
	}

	s := h.sessions.Get(session.IDFromContext(r.Context()))
	reply, err := s.Send(r.Context(), req.Message)
	switch {
	case domain.IsValidation(err):
		Error(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, advisor.ErrSendInFlight):
		Error(w, http.StatusConflict, "chat reply in progress")
	case err != nil:
		Error(w, http.StatusInternalServerError, "chat failed")
	default:
		JSON(w, http.StatusOK, map[string]interface{}{
			"reply":    reply,
			"segments": advisor.Segments(reply.Text),
			"turns":    s.History(),
		})
	}
}

// GetReport returns the static report figures.
func (h *Handler) GetReport(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, report.Current())
}
