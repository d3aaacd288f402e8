package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"legalhub/internal/auth"
	"legalhub/internal/config"
	"legalhub/internal/handlers"
	"legalhub/internal/middleware"
	"legalhub/internal/models"
	"legalhub/internal/testutil"
)

type rejectAll struct{}

func (rejectAll) Verify(string) (*auth.Claims, error) { return nil, auth.ErrInvalidToken }

type noProfiles struct{}

func (noProfiles) Ensure(context.Context, string, string, string, models.Role) (*models.Profile, error) {
	return nil, nil
}

type healthy struct{}

func (healthy) HealthCheck(context.Context) error { return nil }

func newTestMux(verifier middleware.TokenVerifier, profiles middleware.ProfileEnsurer) *http.ServeMux {
	mux := http.NewServeMux()
	registerRoutes(mux, apiHandlers{
		health:     handlers.NewHealthHandler(healthy{}, "test"),
		profiles:   handlers.NewProfileHandler(nil),
		reviews:    handlers.NewReviewHandler(nil),
		contracts:  handlers.NewContractHandler(nil),
		categories: handlers.NewCategoryHandler(nil),
		clauses:    handlers.NewClauseHandler(nil),
		analysis:   handlers.NewAnalysisHandler(nil),
		audit:      handlers.NewAuditHandler(nil),
	}, middleware.NewAuthMiddleware(verifier, profiles, nil))
	return mux
}

func TestRoutes_AuthRequired(t *testing.T) {
	mux := newTestMux(rejectAll{}, noProfiles{})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/labels", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/profile", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/review-requests", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/review-requests/abc", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/contracts/stats", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/analysis", http.StatusUnauthorized},
		{http.MethodPut, "/api/v1/admin/review-requests/abc/review", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/admin/audit-logs", http.StatusUnauthorized},
		{http.MethodPatch, "/api/v1/profile", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

type roleProfiles map[string]models.Role

func (p roleProfiles) Ensure(_ context.Context, userID, email, fullName string, role models.Role) (*models.Profile, error) {
	if r, ok := p[userID]; ok {
		role = r
	}
	return &models.Profile{UserID: userID, Email: email, FullName: fullName, Role: role}, nil
}

func TestRoutes_SignedInAccess(t *testing.T) {
	verifier := auth.NewVerifier(&config.AuthConfig{JWTSecret: testutil.TestJWTSecret, Audience: "authenticated"})
	user := &models.Profile{UserID: "00000000-0000-0000-0000-00000000000c", Email: "user@test.com", FullName: "Nguyễn Văn A"}
	legal := &models.Profile{UserID: "00000000-0000-0000-0000-00000000000b", Email: "legal@test.com"}
	foreign := &models.Profile{UserID: "user-42", Email: "x@test.com"}
	mux := newTestMux(verifier, roleProfiles{legal.UserID: models.RoleLegal})
	helper := testutil.NewAuthHelper()

	tests := []struct {
		name    string
		path    string
		profile *models.Profile
		want    int
	}{
		{"user reads labels", "/api/v1/meta/labels", user, http.StatusOK},
		{"user blocked from admin", "/api/v1/admin/review-requests", user, http.StatusForbidden},
		{"legal reads labels", "/api/v1/meta/labels", legal, http.StatusOK},
		{"non-uuid subject rejected", "/api/v1/meta/labels", foreign, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := helper.CreateAuthenticatedRequest(t, http.MethodGet, tt.path, tt.profile)
			rr := testutil.NewTestResponse()
			mux.ServeHTTP(rr, req)
			rr.AssertStatus(t, tt.want)
		})
	}
}
