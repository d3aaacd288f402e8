package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"legalhub/internal/models"
)

// TestJWTSecret signs identity-provider tokens in tests
const TestJWTSecret = "test-secret-key-for-testing-only"

// AuthHelper issues access tokens shaped like the identity provider's
type AuthHelper struct {
	JWTSecret []byte
	Audience  string
}

// NewAuthHelper creates a new auth helper
func NewAuthHelper() *AuthHelper {
	return &AuthHelper{
		JWTSecret: []byte(TestJWTSecret),
		Audience:  "authenticated",
	}
}

// GenerateToken signs an HS256 access token for the given subject
func (h *AuthHelper) GenerateToken(subject, email, fullName string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":           subject,
		"email":         email,
		"aud":           h.Audience,
		"user_metadata": map[string]any{"full_name": fullName},
		"exp":           now.Add(ttl).Unix(),
		"iat":           now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

// AddAuthHeader adds an authorization header for the profile to the request
func (h *AuthHelper) AddAuthHeader(t *testing.T, req *http.Request, p *models.Profile) {
	t.Helper()

	token, err := h.GenerateToken(p.UserID, p.Email, p.FullName, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
}

// CreateAuthenticatedRequest creates a request with auth header
func (h *AuthHelper) CreateAuthenticatedRequest(t *testing.T, method, url string, p *models.Profile) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, url, nil)
	h.AddAuthHeader(t, req, p)
	return req
}

// TestResponse holds response data for assertions
type TestResponse struct {
	*httptest.ResponseRecorder
}

// NewTestResponse creates a new test response recorder
func NewTestResponse() *TestResponse {
	return &TestResponse{
		ResponseRecorder: httptest.NewRecorder(),
	}
}

// AssertStatus asserts the HTTP status code
func (r *TestResponse) AssertStatus(t *testing.T, expected int) {
	t.Helper()

	if r.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, r.Code, r.Body.String())
	}
}
