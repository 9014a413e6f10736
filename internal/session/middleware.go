package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/imdat1/Course-Helper/internal/upstream"
	httperrors "github.com/imdat1/Course-Helper/pkg/http/errors"
)

type claimsKey struct{}

// ClaimsFromContext returns the session claims set by Middleware.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey{}).(*Claims)
	return claims
}

// Middleware validates companion session tokens, loads the stored upstream
// bearer token and injects both into the request context. Requests without
// an Authorization header pass through unauthenticated.
func Middleware(tokens *TokenManager, store *Store, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				logger.Warn().Err(err).Msg("session token validation failed")
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid or expired token")
				return
			}

			rec, err := store.Get(r.Context(), claims.SessionID)
			if err != nil {
				logger.Error().Err(err).Msg("session lookup failed")
				httperrors.RespondInternalError(w, "Session lookup failed")
				return
			}
			if rec == nil {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeTokenExpired, "Session expired")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			ctx = upstream.WithToken(ctx, rec.UpstreamToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession ensures the request carries a live session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFromContext(r.Context()) == nil {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
