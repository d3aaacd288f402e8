package handlers

import (
	"context"
	"net/http"
	"strconv"

	"legalhub/internal/models"
	"legalhub/internal/service"
)

// AuditLister reads the audit trail
type AuditLister interface {
	List(ctx context.Context, actor service.Actor, userID string, limit, offset int) ([]models.AuditLog, error)
}

// AuditHandler handles audit log requests
type AuditHandler struct {
	audit AuditLister
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit AuditLister) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListAuditLogs lists audit logs with pagination (legal team only)
// @Summary List audit logs
// @Description Get a paginated list of audit logs, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(50)
// @Param user_id query string false "Filter by user ID"
// @Success 200 {object} map[string]interface{} "Paginated audit logs"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /admin/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	page := 1
	limit := 50
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	offset := (page - 1) * limit

	logs, err := h.audit.List(r.Context(), actor, r.URL.Query().Get("user_id"), limit, offset)
	if err != nil {
		respondWithServiceError(w, r, "list audit logs", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"logs":  logs,
		"page":  page,
		"limit": limit,
	})
}
