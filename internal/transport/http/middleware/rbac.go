package middleware

import (
	"net/http"

	"github.com/questrider/auth-service/internal/domain"
)

// RequireRole admits only callers whose role equals required. There is no
// role hierarchy: an admin route is admin-only.
// Assumes Auth() has already injected the role into context.
func RequireRole(required string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				// Auth middleware not applied, or context missing.
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			if !domain.IsValidRole(role) || !domain.IsValidRole(required) {
				writeErr(w, r, domain.ErrForbidden())
				return
			}

			if role != required {
				writeErr(w, r, domain.ErrRoleRequired(required))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
