package handlers

import (
	"context"
	"net/http"

	"legalhub/internal/models"
	"legalhub/internal/repository"
	"legalhub/internal/service"
)

// ClauseAPI is the clause library surface used by ClauseHandler
type ClauseAPI interface {
	List(ctx context.Context, f repository.ClauseFilter) ([]models.Clause, error)
	Get(ctx context.Context, id string) (*models.Clause, error)
	Create(ctx context.Context, actor service.Actor, input service.ClauseInput) (*models.Clause, error)
	Update(ctx context.Context, actor service.Actor, id string, input service.ClauseInput) (*models.Clause, error)
	Delete(ctx context.Context, actor service.Actor, id string) error
}

// ClauseHandler handles the standard clause library
type ClauseHandler struct {
	clauses ClauseAPI
}

// NewClauseHandler creates a new clause handler
func NewClauseHandler(clauses ClauseAPI) *ClauseHandler {
	return &ClauseHandler{clauses: clauses}
}

// ListClauses lists standard clauses
// @Summary List clauses
// @Tags Clauses
// @Produce json
// @Security BearerAuth
// @Param contract_type query string false "Filter by contract type"
// @Param risk_level query string false "Filter by risk level"
// @Param search query string false "Search name and content"
// @Success 200 {array} models.Clause
// @Router /clauses [get]
func (h *ClauseHandler) ListClauses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clauses, err := h.clauses.List(r.Context(), repository.ClauseFilter{
		Type:      models.ContractType(q.Get("contract_type")),
		RiskLevel: models.RiskLevel(q.Get("risk_level")),
		Search:    q.Get("search"),
	})
	if err != nil {
		respondWithServiceError(w, r, "list clauses", err)
		return
	}
	respondWithJSON(w, http.StatusOK, clauses)
}

// GetClause returns one clause
// @Summary Get clause
// @Tags Clauses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Clause ID"
// @Success 200 {object} models.Clause
// @Failure 404 {object} map[string]string "Not found"
// @Router /clauses/{id} [get]
func (h *ClauseHandler) GetClause(w http.ResponseWriter, r *http.Request) {
	clause, err := h.clauses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, r, "get clause", err)
		return
	}
	respondWithJSON(w, http.StatusOK, clause)
}

// CreateClause adds a clause to the library
// @Summary Create clause
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clause body service.ClauseInput true "Clause"
// @Success 201 {object} models.Clause
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /admin/clauses [post]
func (h *ClauseHandler) CreateClause(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input service.ClauseInput
	if !decodeJSON(w, r, &input) {
		return
	}
	clause, err := h.clauses.Create(r.Context(), actor, input)
	if err != nil {
		respondWithServiceError(w, r, "create clause", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, clause)
}

// UpdateClause replaces a clause
// @Summary Update clause
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Clause ID"
// @Param clause body service.ClauseInput true "Clause"
// @Success 200 {object} models.Clause
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/clauses/{id} [put]
func (h *ClauseHandler) UpdateClause(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input service.ClauseInput
	if !decodeJSON(w, r, &input) {
		return
	}
	clause, err := h.clauses.Update(r.Context(), actor, r.PathValue("id"), input)
	if err != nil {
		respondWithServiceError(w, r, "update clause", err)
		return
	}
	respondWithJSON(w, http.StatusOK, clause)
}

// DeleteClause removes a clause
// @Summary Delete clause
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Clause ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/clauses/{id} [delete]
func (h *ClauseHandler) DeleteClause(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.clauses.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		respondWithServiceError(w, r, "delete clause", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Clause deleted"})
}
