package main

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"legalhub/internal/handlers"
	"legalhub/internal/middleware"
)

// apiHandlers groups every HTTP handler the router serves
type apiHandlers struct {
	health     *handlers.HealthHandler
	profiles   *handlers.ProfileHandler
	reviews    *handlers.ReviewHandler
	contracts  *handlers.ContractHandler
	categories *handlers.CategoryHandler
	clauses    *handlers.ClauseHandler
	analysis   *handlers.AnalysisHandler
	audit      *handlers.AuditHandler
}

func registerRoutes(mux *http.ServeMux, h apiHandlers, authMw *middleware.AuthMiddleware) {
	g := routeGuards{auth: authMw}
	const v1 = handlers.APIBasePath

	// Public routes
	mux.HandleFunc("GET /health", h.health.Health)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	mux.Handle("GET "+v1+"/meta/labels", g.user(h.health.Labels))

	// Profile
	mux.Handle("GET "+v1+"/profile", g.user(h.profiles.GetProfile))
	mux.Handle("PUT "+v1+"/profile", g.user(h.profiles.UpdateProfile))

	// Review requests
	mux.Handle("POST "+v1+"/review-requests", g.user(h.reviews.CreateRequest))
	mux.Handle("GET "+v1+"/review-requests", g.user(h.reviews.ListRequests))
	mux.Handle("GET "+v1+"/review-requests/{id}", g.user(h.reviews.GetRequest))
	mux.Handle("POST "+v1+"/review-requests/{id}/notes", g.user(h.reviews.AddNote))

	// Contract records
	mux.Handle("GET "+v1+"/contracts", g.user(h.contracts.ListContracts))
	mux.Handle("GET "+v1+"/contracts/stats", g.user(h.contracts.GetStats))
	mux.Handle("GET "+v1+"/contracts/deadlines", g.user(h.contracts.GetDeadlines))
	mux.Handle("GET "+v1+"/contracts/{id}", g.user(h.contracts.GetContract))
	mux.Handle("GET "+v1+"/categories", g.user(h.categories.ListCategories))
	mux.Handle("GET "+v1+"/categories/{id}/contracts", g.user(h.categories.GetCategoryContracts))
	mux.Handle("GET "+v1+"/clauses", g.user(h.clauses.ListClauses))
	mux.Handle("GET "+v1+"/clauses/{id}", g.user(h.clauses.GetClause))

	// AI analysis
	mux.Handle("POST "+v1+"/analysis", g.user(h.analysis.Analyze))

	// Admin routes
	mux.Handle("GET "+v1+"/admin/review-requests", g.admin(h.reviews.AdminListRequests))
	mux.Handle("PUT "+v1+"/admin/review-requests/{id}/review", g.admin(h.reviews.ReviewRequest))
	mux.Handle("DELETE "+v1+"/admin/review-requests/{id}", g.admin(h.reviews.DeleteRequest))

	mux.Handle("POST "+v1+"/admin/contracts", g.admin(h.contracts.CreateContract))
	mux.Handle("PUT "+v1+"/admin/contracts/{id}", g.admin(h.contracts.UpdateContract))
	mux.Handle("DELETE "+v1+"/admin/contracts/{id}", g.admin(h.contracts.DeleteContract))

	mux.Handle("POST "+v1+"/admin/categories", g.admin(h.categories.CreateCategory))
	mux.Handle("DELETE "+v1+"/admin/categories/{id}", g.admin(h.categories.DeleteCategory))

	mux.Handle("POST "+v1+"/admin/clauses", g.admin(h.clauses.CreateClause))
	mux.Handle("PUT "+v1+"/admin/clauses/{id}", g.admin(h.clauses.UpdateClause))
	mux.Handle("DELETE "+v1+"/admin/clauses/{id}", g.admin(h.clauses.DeleteClause))

	mux.Handle("PUT "+v1+"/admin/users/{id}/role", g.admin(h.profiles.SetRole))
	mux.Handle("GET "+v1+"/admin/audit-logs", g.admin(h.audit.ListAuditLogs))
}
