package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/hazard-notifier/internal/domain"
)

// RequireRole allows the request through only when the caller's JWT role is
// one of allowedRoles (see domain.CallerRole*).
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				deny(w, unauthorized("no caller claims"))
				return
			}
			if !slices.Contains(allowedRoles, claims.Role) {
				deny(w, fmt.Errorf("role %q not allowed: %w", claims.Role, domain.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
