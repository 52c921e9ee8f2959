package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/hazard-notifier/internal/config"
	"github.com/hazard-notifier/internal/domain"
	"github.com/hazard-notifier/internal/transport/http/handler"
	appmiddleware "github.com/hazard-notifier/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	passthrough := func(next http.Handler) http.Handler { return next }
	authMw := passthrough
	requireRole := func(...string) func(http.Handler) http.Handler { return passthrough }
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
		requireRole = appmiddleware.RequireRole
	}

	triggerRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.TriggerRatePerSec), cfg.TriggerBurst)

	healthH := handler.NewHealthHandler(handler.PipelineInfo{
		Directory:    cfg.DirectoryBackend,
		Transport:    cfg.PushTransport,
		RadiusMeters: cfg.RadiusMeters,
	})
	hazardH := handler.NewHazardHandler(deps.HazardService, deps.Logger)
	dispatchH := handler.NewDispatchHandler(deps.HazardService)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.With(
				triggerRL.Limit,
				requireRole(domain.CallerRoleTrigger, domain.CallerRoleDispatcher, domain.CallerRoleAdmin),
			).Post("/hazards", hazardH.Create)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(domain.CallerRoleDispatcher, domain.CallerRoleAdmin))

				r.Get("/dispatches/{id}", dispatchH.Get)
				r.Get("/hazards/{id}/dispatches", dispatchH.ListByHazard)
			})
		})
	})

	return r
}
