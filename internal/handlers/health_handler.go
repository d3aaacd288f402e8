package handlers

import (
	"context"
	"net/http"
	"time"

	"legalhub/internal/models"
)

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and reference data
type HealthHandler struct {
	db      HealthChecker
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db HealthChecker, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Health reports service health
// @Summary Health check
// @Description Reports database connectivity and the running version
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Healthy"
// @Failure 503 {object} map[string]string "Database unavailable"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "error",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.version,
	})
}

// Labels returns the Vietnamese display labels for every enumeration
// @Summary Display labels
// @Description Labels for statuses, priorities, departments, contract types and risk levels
// @Tags System
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.LabelRegistry
// @Router /meta/labels [get]
func (h *HealthHandler) Labels(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, models.Labels())
}
