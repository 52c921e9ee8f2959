package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazard-notifier/internal/application/hazard"
	"github.com/hazard-notifier/internal/domain"
	"github.com/hazard-notifier/internal/pkg/validate"
	"github.com/hazard-notifier/internal/transport/http/middleware"
)

const (
	maxBodyBytes = 64 << 10
	// dispatchTimeout bounds a run detached from the request.
	dispatchTimeout = 2 * time.Minute
)

// HazardRequest is the body of POST /v1/hazards. Missing coordinates are not a
// validation error here: the dispatch run rejects them and the caller gets the
// rejected summary.
type HazardRequest struct {
	ID          string   `json:"id" validate:"required,max=128"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	Type        string   `json:"type" validate:"max=64"`
	Description string   `json:"description" validate:"max=512"`
}

func (req HazardRequest) event() domain.HazardEvent {
	return domain.HazardEvent{
		ID:          req.ID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		HazardType:  req.Type,
		Description: req.Description,
	}
}

// HazardHandler triggers dispatch runs.
type HazardHandler struct {
	svc hazard.Service
	log *slog.Logger
}

func NewHazardHandler(svc hazard.Service, log *slog.Logger) *HazardHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HazardHandler{svc: svc, log: log}
}

func (h *HazardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req HazardRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := ""
	if c, ok := middleware.ClaimsFromContext(r.Context()); ok {
		caller = c.Subject
	}
	h.log.Info("hazard trigger received", "hazard_id", req.ID, "caller", caller)

	// A dropped connection must not cancel a batch already handed to the transport.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), dispatchTimeout)
	defer cancel()
	summary, err := h.svc.Handle(ctx, req.event())
	if err != nil {
		writeJSON(w, statusFor(err), DispatchEnvelope{Dispatch: &summary, Error: err.Error()})
		return
	}
	writeJSON(w, statusForOutcome(summary.Outcome), DispatchEnvelope{Dispatch: &summary, Error: summary.Error})
}

func statusForOutcome(o domain.Outcome) int {
	switch o {
	case domain.OutcomeDispatched, domain.OutcomeEmpty:
		return http.StatusAccepted
	case domain.OutcomeRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
