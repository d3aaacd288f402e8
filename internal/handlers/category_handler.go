package handlers

import (
	"context"
	"net/http"

	"legalhub/internal/models"
	"legalhub/internal/service"
)

// CategoryAPI is the category service surface used by CategoryHandler
type CategoryAPI interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, actor service.Actor, input service.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, actor service.Actor, id string) error
	Contracts(ctx context.Context, id string) (*models.Category, []models.Contract, error)
}

// CategoryHandler handles contract categories
type CategoryHandler struct {
	categories CategoryAPI
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories CategoryAPI) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryContractsResponse is a category with the contracts filed under it
type CategoryContractsResponse struct {
	Category  *models.Category  `json:"category"`
	Contracts []models.Contract `json:"contracts"`
}

// ListCategories lists categories with contract counts
// @Summary List categories
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, "list categories", err)
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

// GetCategoryContracts lists the contracts in one category
// @Summary Contracts in category
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} CategoryContractsResponse
// @Failure 404 {object} map[string]string "Not found"
// @Router /categories/{id}/contracts [get]
func (h *CategoryHandler) GetCategoryContracts(w http.ResponseWriter, r *http.Request) {
	category, contracts, err := h.categories.Contracts(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, r, "list category contracts", err)
		return
	}
	respondWithJSON(w, http.StatusOK, CategoryContractsResponse{Category: category, Contracts: contracts})
}

// CreateCategory adds a category
// @Summary Create category
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body service.CategoryInput true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Name already used"
// @Router /admin/categories [post]
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input service.CategoryInput
	if !decodeJSON(w, r, &input) {
		return
	}
	category, err := h.categories.Create(r.Context(), actor, input)
	if err != nil {
		respondWithServiceError(w, r, "create category", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, category)
}

// DeleteCategory removes a category. Its contracts become uncategorized.
// @Summary Delete category
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.categories.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		respondWithServiceError(w, r, "delete category", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
