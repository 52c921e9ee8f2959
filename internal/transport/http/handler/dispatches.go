package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazard-notifier/internal/application/hazard"
	"github.com/hazard-notifier/internal/domain"
	"github.com/hazard-notifier/internal/pkg/id"
)

// DispatchHandler serves recorded dispatch summaries.
type DispatchHandler struct {
	svc hazard.Service
}

func NewDispatchHandler(svc hazard.Service) *DispatchHandler {
	return &DispatchHandler{svc: svc}
}

func (h *DispatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	dispatchID := chi.URLParam(r, "id")
	if !id.Valid(dispatchID) {
		httpError(w, fmt.Errorf("dispatch id %q: %w", dispatchID, domain.ErrBadRequest))
		return
	}
	s, err := h.svc.Get(r.Context(), dispatchID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DispatchEnvelope{Dispatch: s})
}

func (h *DispatchHandler) ListByHazard(w http.ResponseWriter, r *http.Request) {
	hazardID := chi.URLParam(r, "id")
	list, err := h.svc.ListByHazard(r.Context(), hazardID)
	if err != nil {
		httpError(w, err)
		return
	}
	if list == nil {
		list = []domain.DispatchSummary{}
	}
	writeJSON(w, http.StatusOK, DispatchListEnvelope{HazardID: hazardID, Data: list})
}
