package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lorrc/service-desk-realtime/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ServiceClaimsKey is the key used to store service claims in the request context.
const ServiceClaimsKey contextKey = "serviceClaims"

// ServiceAuth only admits requests carrying a bearer service token issued to
// subject.
func ServiceAuth(tm *auth.TokenManager, subject string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "Authorization header is required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeUnauthorized(w, "Authorization header format must be Bearer {token}")
				return
			}

			claims, err := tm.ValidateServiceToken(parts[1], subject)
			if err != nil {
				logger.WarnContext(r.Context(), "service token rejected",
					"path", r.URL.Path,
					"error", err,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ServiceClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetServiceClaims returns the claims stored by ServiceAuth.
func GetServiceClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ServiceClaimsKey).(*auth.Claims)
	return claims, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"UNAUTHORIZED"}`))
}
