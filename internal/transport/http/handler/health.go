package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PipelineInfo describes the configured dispatch pipeline for the info probe.
type PipelineInfo struct {
	Directory    string  `json:"directory"`
	Transport    string  `json:"transport"`
	RadiusMeters float64 `json:"radius_meters"`
}

type HealthHandler struct {
	info PipelineInfo
}

func NewHealthHandler(info PipelineInfo) *HealthHandler { return &HealthHandler{info: info} }

// Ping answers "ping" with pong and "info" with the pipeline configuration.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "info":
		writeJSON(w, http.StatusOK, h.info)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
