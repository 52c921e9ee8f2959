package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hazard-notifier/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DispatchEnvelope wraps a single dispatch summary.
type DispatchEnvelope struct {
	Dispatch *domain.DispatchSummary `json:"dispatch,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// DispatchListEnvelope wraps the dispatch history of one hazard.
type DispatchListEnvelope struct {
	HazardID string                   `json:"hazard_id"`
	Data     []domain.DispatchSummary `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
