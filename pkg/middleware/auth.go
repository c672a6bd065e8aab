package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/auth"
	"github.com/tair/pharmacy-backend/pkg/logger"
	"github.com/tair/pharmacy-backend/pkg/response"
)

type contextKey string

const claimsKey contextKey = "claims"

// DefaultPublicPaths are reachable without a token. Entries ending in
// "/" match as prefixes.
var DefaultPublicPaths = []string{"/", "/ping", "/health", "/auth/login", "/settings/public", "/metrics", "/swagger/"}

// ClaimsFromContext returns the claims stored by Auth
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// ContextWithClaims stores claims the way Auth does
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Auth requires a valid bearer token on every path outside public
func Auth(tokens *auth.TokenManager, public []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublic(r.URL.Path, public) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				logger.Warn(r.Context()).Str("path", r.URL.Path).Msg("Missing authorization header")
				response.Error(w, r, apperror.Unauthorized("Missing token"))
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Invalid token")
				response.Error(w, r, apperror.Unauthorized("Invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func isPublic(path string, public []string) bool {
	for _, p := range public {
		if p == path {
			return true
		}
		if p != "/" && strings.HasSuffix(p, "/") && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
