package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"legalhub/internal/models"
	"legalhub/internal/repository"
	"legalhub/internal/service"
)

// ContractAPI is the contract service surface used by ContractHandler
type ContractAPI interface {
	Create(ctx context.Context, actor service.Actor, input service.ContractInput) (*models.Contract, error)
	Update(ctx context.Context, actor service.Actor, id string, input service.ContractInput) (*models.Contract, error)
	Delete(ctx context.Context, actor service.Actor, id string) error
	Get(ctx context.Context, id string) (*models.Contract, error)
	List(ctx context.Context, f repository.ContractFilter) ([]models.Contract, error)
	Stats(ctx context.Context, now time.Time) (*models.ContractStats, error)
	UpcomingDeadlines(ctx context.Context, now time.Time, withinDays int) ([]models.Deadline, error)
}

// ContractHandler handles contract records
type ContractHandler struct {
	contracts ContractAPI
	now       func() time.Time
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contracts ContractAPI) *ContractHandler {
	return &ContractHandler{contracts: contracts, now: time.Now}
}

// ListContracts lists stored contracts
// @Summary List contracts
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param category_id query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Param contract_type query string false "Filter by contract type"
// @Param risk_level query string false "Filter by risk level"
// @Param search query string false "Search title and partner"
// @Param sort query string false "created_at, expiry_date, value or title"
// @Success 200 {array} models.Contract
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /contracts [get]
func (h *ContractHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ContractFilter{
		CategoryID: q.Get("category_id"),
		Status:     models.ContractStatus(q.Get("status")),
		Type:       models.ContractType(q.Get("contract_type")),
		RiskLevel:  models.RiskLevel(q.Get("risk_level")),
		Search:     q.Get("search"),
		Sort:       q.Get("sort"),
	}
	contracts, err := h.contracts.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, r, "list contracts", err)
		return
	}
	respondWithJSON(w, http.StatusOK, contracts)
}

// GetContract returns one contract
// @Summary Get contract
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contract ID"
// @Success 200 {object} models.Contract
// @Failure 404 {object} map[string]string "Not found"
// @Router /contracts/{id} [get]
func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	contract, err := h.contracts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, r, "get contract", err)
		return
	}
	respondWithJSON(w, http.StatusOK, contract)
}

// GetStats returns dashboard counters
// @Summary Contract statistics
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ContractStats
// @Router /contracts/stats [get]
func (h *ContractHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contracts.Stats(r.Context(), h.now())
	if err != nil {
		respondWithServiceError(w, r, "compute contract stats", err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// GetDeadlines returns contracts expiring within the window
// @Summary Upcoming deadlines
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days" default(30)
// @Success 200 {array} models.Deadline
// @Failure 400 {object} map[string]string "Invalid window"
// @Router /contracts/deadlines [get]
func (h *ContractHandler) GetDeadlines(w http.ResponseWriter, r *http.Request) {
	days := 0
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}
	deadlines, err := h.contracts.UpcomingDeadlines(r.Context(), h.now(), days)
	if err != nil {
		respondWithServiceError(w, r, "list deadlines", err)
		return
	}
	respondWithJSON(w, http.StatusOK, deadlines)
}

// CreateContract stores a new contract
// @Summary Create contract
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contract body service.ContractInput true "Contract"
// @Success 201 {object} models.Contract
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Legal team only"
// @Router /admin/contracts [post]
func (h *ContractHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input service.ContractInput
	if !decodeJSON(w, r, &input) {
		return
	}
	contract, err := h.contracts.Create(r.Context(), actor, input)
	if err != nil {
		respondWithServiceError(w, r, "create contract", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, contract)
}

// UpdateContract replaces a contract's fields
// @Summary Update contract
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contract ID"
// @Param contract body service.ContractInput true "Contract"
// @Success 200 {object} models.Contract
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/contracts/{id} [put]
func (h *ContractHandler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input service.ContractInput
	if !decodeJSON(w, r, &input) {
		return
	}
	contract, err := h.contracts.Update(r.Context(), actor, r.PathValue("id"), input)
	if err != nil {
		respondWithServiceError(w, r, "update contract", err)
		return
	}
	respondWithJSON(w, http.StatusOK, contract)
}

// DeleteContract removes a contract
// @Summary Delete contract
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contract ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/contracts/{id} [delete]
func (h *ContractHandler) DeleteContract(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.contracts.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		respondWithServiceError(w, r, "delete contract", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Contract deleted"})
}
