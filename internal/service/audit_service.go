package service

import (
	"context"
	"log/slog"

	"legalhub/internal/models"
	"legalhub/internal/repository"
)

// AuditStore persists audit log entries
type AuditStore interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, userID string, limit, offset int) ([]models.AuditLog, error)
}

// AuditService handles audit logging
type AuditService struct {
	auditRepo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo *repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// NewAuditServiceWithStore creates an audit service over any store
func NewAuditServiceWithStore(store AuditStore) *AuditService {
	return &AuditService{auditRepo: store}
}

// Log creates an audit log entry. Failures are logged and never returned so
// auditing cannot fail the main operation.
func (s *AuditService) Log(ctx context.Context, actor Actor, action, resource, details string) {
	if s == nil || s.auditRepo == nil {
		return
	}
	var userID *string
	if actor.UserID != "" {
		id := actor.UserID
		userID = &id
	}
	meta := requestMetaFrom(ctx)
	if err := s.auditRepo.Create(ctx, &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Details:   details,
		IPAddress: meta.ip,
		UserAgent: meta.userAgent,
	}); err != nil {
		slog.Warn("Failed to write audit log", "action", action, "resource", resource, "error", err)
	}
}

// List returns audit entries, newest first. Admin-like actors only.
func (s *AuditService) List(ctx context.Context, actor Actor, userID string, limit, offset int) ([]models.AuditLog, error) {
	if !actor.IsAdminLike() {
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if userID != "" && checkID(userID) != nil {
		return nil, invalid("user_id must be a valid id")
	}
	logs, err := s.auditRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return logs, nil
}
