package handlers

import (
	"context"
	"net/http"

	"legalhub/internal/models"
	"legalhub/internal/service"
)

// ProfileAPI is the profile service surface used by ProfileHandler
type ProfileAPI interface {
	Get(ctx context.Context, actor service.Actor) (*models.Profile, error)
	Update(ctx context.Context, actor service.Actor, input service.ProfileInput) (*models.Profile, error)
	SetRole(ctx context.Context, actor service.Actor, userID string, role models.Role) error
}

// ProfileHandler handles profile requests
type ProfileHandler struct {
	profiles ProfileAPI
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles ProfileAPI) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile returns the signed-in user's profile
// @Summary Get own profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	profile, err := h.profiles.Get(r.Context(), actor)
	if err != nil {
		respondWithServiceError(w, r, "get profile", err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

// UpdateProfile changes the signed-in user's name and department
// @Summary Update own profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body service.ProfileInput true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input service.ProfileInput
	if !decodeJSON(w, r, &input) {
		return
	}
	profile, err := h.profiles.Update(r.Context(), actor, input)
	if err != nil {
		respondWithServiceError(w, r, "update profile", err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

// SetRoleRequest is the body of an admin role assignment
type SetRoleRequest struct {
	Role models.Role `json:"role"`
}

// SetRole assigns a role to a user
// @Summary Assign role
// @Description Assign admin, legal or user to a profile (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param role body SetRoleRequest true "Role"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid role"
// @Failure 403 {object} map[string]string "Admin only"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/users/{id}/role [put]
func (h *ProfileHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req SetRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.profiles.SetRole(r.Context(), actor, r.PathValue("id"), req.Role); err != nil {
		respondWithServiceError(w, r, "set role", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Role updated"})
}
