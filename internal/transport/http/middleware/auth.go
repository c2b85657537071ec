package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/questrider/auth-service/internal/application/auth"
	"github.com/questrider/auth-service/internal/domain"
	"github.com/questrider/auth-service/internal/infrastructure/security"
)

// ClaimsOpener decrypts and authenticates a sealed token.
type ClaimsOpener interface {
	Open(token string, into any) error
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth authenticates a request from its access token: cookie first, then
// Authorization: Bearer. Decryption failure, expiry and issuer mismatch
// are reported as distinct errors; on success the caller identity is
// injected into the request context.
func Auth(codec ClaimsOpener, issuer string, now func() time.Time, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := accessTokenFromRequest(r)
			if raw == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			var claims auth.Claims
			if err := codec.Open(raw, &claims); err != nil {
				writeErr(w, r, err)
				return
			}
			if err := claims.Validate(now(), issuer); err != nil {
				writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(claims.UserID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Email, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessTokenFromRequest(r *http.Request) string {
	if tok, err := security.ReadAccessToken(r); err == nil && tok != "" {
		return tok
	}

	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
