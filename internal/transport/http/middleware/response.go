package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hazard-notifier/internal/domain"
)

var errRateLimited = errors.New("too many requests")

// deny rejects the request with the status implied by err's sentinel.
// The body has the same {"error": ...} shape as handler errors.
func deny(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errRateLimited):
		status = http.StatusTooManyRequests
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func unauthorized(reason string) error { return fmt.Errorf("%s: %w", reason, domain.ErrUnauthorized) }
