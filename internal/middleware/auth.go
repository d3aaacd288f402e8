package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"legalhub/internal/auth"
	"legalhub/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller resolved from the access token and
// the profile store
type Identity struct {
	UserID     string
	Email      string
	Name       string
	Department string
	Role       models.Role
}

// TokenVerifier validates access tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// ProfileEnsurer makes sure a profile row exists for a signed-in user
type ProfileEnsurer interface {
	Ensure(ctx context.Context, userID, email, fullName string, role models.Role) (*models.Profile, error)
}

// AuthMiddleware validates access tokens and resolves the caller's profile
type AuthMiddleware struct {
	verifier    TokenVerifier
	profiles    ProfileEnsurer
	adminEmails map[string]bool
}

// NewAuthMiddleware creates a new auth middleware. Users whose e-mail is in
// adminEmails get the admin role when their profile is first created.
func NewAuthMiddleware(verifier TokenVerifier, profiles ProfileEnsurer, adminEmails []string) *AuthMiddleware {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &AuthMiddleware{
		verifier:    verifier,
		profiles:    profiles,
		adminEmails: admins,
	}
}

// Authenticate validates the bearer token and adds the identity to the context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		token, err := auth.BearerToken(authHeader)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			slog.Debug("Token rejected", "error", err, "request_id", GetRequestID(r.Context()))
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		role := models.RoleUser
		if m.adminEmails[claims.Email] {
			role = models.RoleAdmin
		}

		profile, err := m.profiles.Ensure(r.Context(), claims.Subject, claims.Email, claims.Name, role)
		if err != nil {
			slog.Error("Failed to resolve profile", "user_id", claims.Subject, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Operation failed")
			return
		}

		id := Identity{
			UserID:     profile.UserID,
			Email:      profile.Email,
			Name:       profile.FullName,
			Department: profile.Department,
			Role:       profile.Role,
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// WithIdentity stores id on ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity retrieves the caller from the request context
func GetIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

// Helper function to respond with JSON error
func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
