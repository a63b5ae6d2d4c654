package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// Authenticator resolves a raw bearer token to a user id.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// BearerToken returns the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(authz[len("Bearer "):])
	return raw, raw != ""
}

// AuthnMiddleware rejects requests without a valid access token and puts the
// token's user id on the request context.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, ErrMissingToken)
				return
			}

			userID, err := a.Authenticate(raw)
			if err != nil {
				apiErr := TokenError(err)
				log.Info("bearer token rejected", "status", apiErr.StatusCode, "err", err)
				writeBearerError(w, apiErr)
				return
			}

			ctx = WithUserID(slogx.WithUserID(ctx, userID), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750 challenge header plus the JSON error body.
func writeBearerError(w http.ResponseWriter, e *APIError) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+e.Message+`"`)
	e.WriteError(w)
}
