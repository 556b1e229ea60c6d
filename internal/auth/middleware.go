package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/furniq/furniq-admin/internal/platform/httpx"
	"github.com/furniq/furniq-admin/internal/shared"
)

// Middleware guards routes behind bearer token authentication.
type Middleware struct {
	logger *slog.Logger
	tokens *shared.TokenManager
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(logger *slog.Logger, tokens *shared.TokenManager) Middleware {
	return Middleware{logger: logger, tokens: tokens}
}

// Require rejects requests without a resolvable bearer token and stores the
// actor id in the request context.
func (m Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		userID, err := m.tokens.Resolve(r.Context(), token)
		if err != nil {
			if m.logger != nil && !errors.Is(err, shared.ErrUnauthorized) {
				m.logger.Error("resolve token", slog.Any("error", err))
			}
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), userID)))
	})
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
