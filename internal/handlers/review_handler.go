package handlers

import (
	"context"
	"net/http"

	"legalhub/internal/models"
	"legalhub/internal/service"
)

// ReviewAPI is the review workflow surface used by ReviewHandler
type ReviewAPI interface {
	CreateRequest(ctx context.Context, actor service.Actor, input service.CreateReviewRequestInput) (*models.ReviewRequest, error)
	GetRequest(ctx context.Context, actor service.Actor, id string) (*service.ReviewRequestDetail, error)
	ListRequests(ctx context.Context, actor service.Actor, filter service.RequestFilter) ([]service.ReviewRequestSummary, error)
	StatusCounts(ctx context.Context, actor service.Actor) (map[models.ReviewRequestStatus]int, error)
	SetStatus(ctx context.Context, actor service.Actor, id string, input service.SetStatusInput) (*service.ReviewRequestDetail, error)
	AddNote(ctx context.Context, actor service.Actor, id, content string) (*models.ReviewNote, error)
	DeleteRequest(ctx context.Context, actor service.Actor, id string) error
}

// ReviewHandler handles contract review requests
type ReviewHandler struct {
	reviews ReviewAPI
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews ReviewAPI) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// AddNoteRequest is the body of a plain note
type AddNoteRequest struct {
	Content string `json:"content"`
}

// AdminListResponse is the admin dashboard listing
type AdminListResponse struct {
	Requests []service.ReviewRequestSummary      `json:"requests"`
	Counts   map[models.ReviewRequestStatus]int `json:"counts"`
}

func requestFilterFrom(r *http.Request) service.RequestFilter {
	q := r.URL.Query()
	return service.RequestFilter{
		Status:   models.ReviewRequestStatus(q.Get("status")),
		Priority: models.Priority(q.Get("priority")),
		Search:   q.Get("search"),
	}
}

// CreateRequest submits a contract for review
// @Summary Create review request
// @Description Submit a contract for legal review. The request starts as pending.
// @Tags Review Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateReviewRequestInput true "Review request"
// @Success 201 {object} models.ReviewRequest
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /review-requests [post]
func (h *ReviewHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input service.CreateReviewRequestInput
	if !decodeJSON(w, r, &input) {
		return
	}
	req, err := h.reviews.CreateRequest(r.Context(), actor, input)
	if err != nil {
		respondWithServiceError(w, r, "create review request", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, req)
}

// ListRequests lists the caller's review requests, or all of them for the legal team
// @Summary List review requests
// @Tags Review Requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param search query string false "Search title, partner and requester"
// @Success 200 {array} service.ReviewRequestSummary
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /review-requests [get]
func (h *ReviewHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	requests, err := h.reviews.ListRequests(r.Context(), actor, requestFilterFrom(r))
	if err != nil {
		respondWithServiceError(w, r, "list review requests", err)
		return
	}
	respondWithJSON(w, http.StatusOK, requests)
}

// GetRequest returns a request with its notes and department progress
// @Summary Get review request
// @Tags Review Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} service.ReviewRequestDetail
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not found"
// @Router /review-requests/{id} [get]
func (h *ReviewHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	detail, err := h.reviews.GetRequest(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, r, "get review request", err)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

// AddNote appends a plain note to a request
// @Summary Add note
// @Tags Review Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param note body AddNoteRequest true "Note"
// @Success 201 {object} models.ReviewNote
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Not found"
// @Router /review-requests/{id}/notes [post]
func (h *ReviewHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req AddNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.reviews.AddNote(r.Context(), actor, r.PathValue("id"), req.Content)
	if err != nil {
		respondWithServiceError(w, r, "add note", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, note)
}

// AdminListRequests lists every request together with status counts
// @Summary List all review requests
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param search query string false "Search title, partner and requester"
// @Success 200 {object} AdminListResponse
// @Failure 403 {object} map[string]string "Legal team only"
// @Router /admin/review-requests [get]
func (h *ReviewHandler) AdminListRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	counts, err := h.reviews.StatusCounts(r.Context(), actor)
	if err != nil {
		respondWithServiceError(w, r, "count review requests", err)
		return
	}
	requests, err := h.reviews.ListRequests(r.Context(), actor, requestFilterFrom(r))
	if err != nil {
		respondWithServiceError(w, r, "list review requests", err)
		return
	}
	respondWithJSON(w, http.StatusOK, AdminListResponse{Requests: requests, Counts: counts})
}

// ReviewRequest records an admin review: status, notes and a department verdict
// @Summary Review a request
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param review body service.SetStatusInput true "Review"
// @Success 200 {object} service.ReviewRequestDetail
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Legal team only"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/review-requests/{id}/review [put]
func (h *ReviewHandler) ReviewRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input service.SetStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}
	detail, err := h.reviews.SetStatus(r.Context(), actor, r.PathValue("id"), input)
	if err != nil {
		respondWithServiceError(w, r, "review request", err)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

// DeleteRequest removes a request and its notes
// @Summary Delete review request
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Legal team only"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/review-requests/{id} [delete]
func (h *ReviewHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.reviews.DeleteRequest(r.Context(), actor, r.PathValue("id")); err != nil {
		respondWithServiceError(w, r, "delete review request", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Review request deleted"})
}
