package service

import (
	"context"
	"fmt"

	"legalhub/internal/models"
	"legalhub/pkg/validator"
)

// ProfileStore persists user profiles and roles
type ProfileStore interface {
	GetByID(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID, fullName, department string) error
	SetRole(ctx context.Context, userID string, role models.Role) error
}

// ProfileService handles the signed-in user's profile
type ProfileService struct {
	profiles ProfileStore
	audit    AuditLogger
}

// NewProfileService creates a new profile service
func NewProfileService(profiles ProfileStore, audit AuditLogger) *ProfileService {
	return &ProfileService{profiles: profiles, audit: audit}
}

// ProfileInput holds the editable profile fields
type ProfileInput struct {
	FullName   string `json:"full_name" validate:"max=200"`
	Department string `json:"department" validate:"max=200"`
}

// Get returns the actor's own profile
func (s *ProfileService) Get(ctx context.Context, actor Actor) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// Update changes the actor's full name and department
func (s *ProfileService) Update(ctx context.Context, actor Actor, input ProfileInput) (*models.Profile, error) {
	input.FullName = validator.SanitizeString(input.FullName)
	input.Department = validator.SanitizeString(input.Department)
	if err := validator.ValidateStruct(input); err != nil {
		return nil, validationFrom(err)
	}

	if err := s.profiles.Update(ctx, actor.UserID, input.FullName, input.Department); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.Log(ctx, actor, "profile.update", "profile", actor.UserID)
	}
	return s.Get(ctx, actor)
}

// SetRole assigns a role to another user. Admins only.
func (s *ProfileService) SetRole(ctx context.Context, actor Actor, userID string, role models.Role) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	if err := checkID(userID); err != nil {
		return err
	}
	if !role.Valid() {
		return invalid("role must be one of admin, legal, user")
	}
	if userID == actor.UserID && role != models.RoleAdmin {
		return invalid("admins cannot demote themselves")
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrNotFound
	}
	if err := s.profiles.SetRole(ctx, userID, role); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Log(ctx, actor, "profile.role", "profile", fmt.Sprintf("%s:%s", userID, role))
	}
	return nil
}
