package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/policydesk/insurance-crm/internal/identity"
	"github.com/policydesk/insurance-crm/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	UserContextKey contextKey = "user"
)

// AuthMiddleware verifies bearer tokens against the identity provider.
type AuthMiddleware struct {
	provider identity.Provider
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(provider identity.Provider) *AuthMiddleware {
	return &AuthMiddleware{
		provider: provider,
	}
}

// Authenticate validates the bearer token and adds the verified claims to
// the request context. The role in these claims is the only role consulted
// for authorization decisions downstream.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipAuth(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.provider.VerifyToken(authHeader)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManager gates an endpoint to callers whose token carries the
// manager role claim.
func (m *AuthMiddleware) RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*models.Claims)
		if !ok {
			http.Error(w, "User context not found", http.StatusUnauthorized)
			return
		}

		if claims.Role != models.RoleManager {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext extracts the verified claims from the request context
func GetUserFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok
}

// shouldSkipAuth determines if authentication should be skipped for a path.
// The bootstrap claim endpoint is public: the rule it enforces (first
// account only) is its own guard.
func shouldSkipAuth(path string) bool {
	skipPaths := []string{
		"/auth/login",
		"/auth/set-manager-claim",
		"/health",
	}

	for _, skipPath := range skipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}
