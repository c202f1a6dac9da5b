package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/service"
)

// TokenVerifier turns a bearer token into the actor it was issued for
type TokenVerifier interface {
	VerifyToken(token string) (*domain.Actor, error)
}

// AuthConfig holds the configuration for the auth middleware
type AuthConfig struct {
	Verifier TokenVerifier
}

// NewAuthMiddleware creates a new auth middleware backed by verifier
func NewAuthMiddleware(verifier TokenVerifier) *AuthConfig {
	return &AuthConfig{
		Verifier: verifier,
	}
}

// RequireAuth verifies the Bearer JWT and stores the actor in the request context
func (ac *AuthConfig) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "Authorization header is required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				writeUnauthorized(w, "Invalid authorization header format")
				return
			}

			actor, err := ac.Verifier.VerifyToken(parts[1])
			if err != nil {
				if errors.Is(err, service.ErrTokenExpired) {
					writeUnauthorized(w, "Token expired")
					return
				}
				writeUnauthorized(w, "Invalid token")
				return
			}

			ActorSpanAttributes(next).ServeHTTP(w, r.WithContext(domain.ContextWithActor(r.Context(), actor)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
