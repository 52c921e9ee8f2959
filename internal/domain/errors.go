package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrInvalidEvent marks a hazard event without a usable location.
	ErrInvalidEvent = errors.New("invalid hazard event")
	// ErrDuplicate marks a hazard event that has already been dispatched.
	ErrDuplicate = errors.New("duplicate hazard event")
	// ErrTransport marks a whole-batch rejection by the push transport.
	ErrTransport = errors.New("push transport failure")
)
