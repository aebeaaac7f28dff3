package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/auth"
	"github.com/ayush/worklog/internal/httpx"
)

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

// RequireAuth is middleware that validates the bearer token and binds the
// resolved identity into the request context.
func RequireAuth(gate Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r)
			if token == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			id, err := gate.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, apperr.ErrUnauthorized) {
					httpx.WriteError(w, http.StatusUnauthorized, err.Error())
					return
				}
				httpx.Fail(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
