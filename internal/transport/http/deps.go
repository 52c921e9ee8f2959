package http

import (
	"log/slog"

	"github.com/hazard-notifier/internal/application/hazard"
	jwtinfra "github.com/hazard-notifier/internal/infrastructure/jwt"
)

// Deps holds everything the router needs. JWTProvider may be nil in
// development, in which case routes are unauthenticated.
type Deps struct {
	HazardService hazard.Service
	JWTProvider   *jwtinfra.Provider
	Logger        *slog.Logger
}
