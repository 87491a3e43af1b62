package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/authstack/userauth/internal/http/response"
	"github.com/authstack/userauth/internal/observability"
	"github.com/authstack/userauth/internal/security"
	"github.com/authstack/userauth/internal/service"
)

type contextKey string

const (
	ClaimsContextKey contextKey = "claims"
	TokenContextKey  contextKey = "token"
)

// AuthMiddleware authenticates a bearer token. The signature check
// alone is not enough: the token must also map to an ACTIVE session in
// the ledger, so revoked and expired tokens are rejected even while
// their signatures remain valid.
func AuthMiddleware(codec *security.TokenCodec, auth service.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				observability.RecordAccessTokenValidation(r.Context(), "missing", "none")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token", nil)
				return
			}
			claims, err := codec.Parse(raw)
			if err != nil {
				observability.RecordAccessTokenValidation(r.Context(), "invalid", "bearer")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token", nil)
				return
			}
			valid, err := auth.ValidateToken(r.Context(), claims.UserID, raw)
			if err != nil {
				observability.RecordAccessTokenValidation(r.Context(), "error", "bearer")
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not validate token", nil)
				return
			}
			if !valid {
				observability.RecordAccessTokenValidation(r.Context(), "invalid", "bearer")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token", nil)
				return
			}
			observability.RecordAccessTokenValidation(r.Context(), "valid", "bearer")
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			ctx = context.WithValue(ctx, TokenContextKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func ClaimsFromContext(ctx context.Context) (*security.TokenClaims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*security.TokenClaims)
	return c, ok
}
