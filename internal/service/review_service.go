package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"legalhub/internal/deptreview"
	"legalhub/internal/models"
	"legalhub/internal/notify"
	"legalhub/pkg/validator"
)

// ReviewRequestStore persists review requests
type ReviewRequestStore interface {
	Create(ctx context.Context, req *models.ReviewRequest) error
	GetByID(ctx context.Context, id string) (*models.ReviewRequest, error)
	List(ctx context.Context, requesterID string) ([]models.ReviewRequest, error)
	ApplyReview(ctx context.Context, id string, status models.ReviewRequestStatus, adminNotes string, notes []*models.ReviewNote) (*models.ReviewRequest, models.ReviewRequestStatus, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ReviewNoteStore persists the append-only note history
type ReviewNoteStore interface {
	Append(ctx context.Context, note *models.ReviewNote) error
	ListByRequest(ctx context.Context, requestID string) ([]models.ReviewNote, error)
	ListByRequests(ctx context.Context, requestIDs []string) (map[string][]models.ReviewNote, error)
}

// StatusDispatcher hands a status-change notification to the background
type StatusDispatcher interface {
	Dispatch(n notify.Notification)
}

// AuditLogger records who did what
type AuditLogger interface {
	Log(ctx context.Context, actor Actor, action, resource, details string)
}

// ReviewService implements the review request lifecycle
type ReviewService struct {
	requests ReviewRequestStore
	notes    ReviewNoteStore
	notifier StatusDispatcher
	audit    AuditLogger
}

// NewReviewService creates a review service. notifier and audit may be nil.
func NewReviewService(requests ReviewRequestStore, notes ReviewNoteStore, notifier StatusDispatcher, audit AuditLogger) *ReviewService {
	return &ReviewService{
		requests: requests,
		notes:    notes,
		notifier: notifier,
		audit:    audit,
	}
}

// CreateReviewRequestInput is the payload a requester submits
type CreateReviewRequestInput struct {
	ContractTitle     string          `json:"contract_title" validate:"required,max=500"`
	PartnerName       string          `json:"partner_name" validate:"max=500"`
	ContractValue     int64           `json:"contract_value" validate:"gte=0"`
	Department        string          `json:"department" validate:"max=200"`
	Priority          models.Priority `json:"priority" validate:"omitempty,priority"`
	RequestDeadline   string          `json:"request_deadline" validate:"required,date"`
	ReviewDeadline    string          `json:"review_deadline" validate:"omitempty,date"`
	ContractStartDate string          `json:"contract_start_date" validate:"omitempty,date"`
	ContractEndDate   string          `json:"contract_end_date" validate:"omitempty,date"`
	Description       string          `json:"description" validate:"max=10000"`
	FileURL           string          `json:"file_url" validate:"omitempty,url"`
}

// DepartmentReviewInput is a department verdict submitted with a status update
type DepartmentReviewInput struct {
	Department models.Department             `json:"department" validate:"required,department"`
	Status     models.DepartmentReviewStatus `json:"status" validate:"required,dept_status"`
	Notes      string                        `json:"notes" validate:"max=10000"`
}

// SetStatusInput is the admin review payload
type SetStatusInput struct {
	Status           models.ReviewRequestStatus `json:"status" validate:"required,review_status"`
	AdminNotes       string                     `json:"admin_notes" validate:"max=10000"`
	DepartmentReview *DepartmentReviewInput     `json:"department_review,omitempty"`
	Note             string                     `json:"note" validate:"max=10000"`
}

// RequestFilter narrows a request listing. Zero values match everything.
type RequestFilter struct {
	Status   models.ReviewRequestStatus
	Priority models.Priority
	Search   string
}

// ReviewRequestSummary is a list item with its derived department progress
type ReviewRequestSummary struct {
	models.ReviewRequest
	DepartmentReviews []deptreview.Review `json:"department_reviews"`
	Progress          deptreview.Progress `json:"progress"`
}

// ReviewRequestDetail is a request with its full history and derived state
type ReviewRequestDetail struct {
	Request           *models.ReviewRequest `json:"request"`
	Notes             []models.ReviewNote   `json:"notes"`
	PlainNotes        []models.ReviewNote   `json:"plain_notes"`
	DepartmentReviews []deptreview.Review   `json:"department_reviews"`
	Progress          deptreview.Progress   `json:"progress"`
	FullyApproved     bool                  `json:"fully_approved"`
	HasRejection      bool                  `json:"has_rejection"`
}

func optionalDate(field, value string) (*models.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return nil, invalid("%s must be a date in YYYY-MM-DD format", field)
	}
	return &d, nil
}

// CreateRequest submits a new review request on behalf of the actor
func (s *ReviewService) CreateRequest(ctx context.Context, actor Actor, input CreateReviewRequestInput) (*models.ReviewRequest, error) {
	if actor.UserID == "" {
		return nil, ErrForbidden
	}

	input.ContractTitle = validator.SanitizeString(input.ContractTitle)
	input.PartnerName = validator.SanitizeString(input.PartnerName)
	input.FileURL = strings.TrimSpace(input.FileURL)
	if err := validator.ValidateStruct(input); err != nil {
		return nil, validationFrom(err)
	}

	deadline, err := models.ParseDate(input.RequestDeadline)
	if err != nil {
		return nil, invalid("request_deadline must be a date in YYYY-MM-DD format")
	}
	reviewDeadline, err := optionalDate("review_deadline", input.ReviewDeadline)
	if err != nil {
		return nil, err
	}
	start, err := optionalDate("contract_start_date", input.ContractStartDate)
	if err != nil {
		return nil, err
	}
	end, err := optionalDate("contract_end_date", input.ContractEndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(start.Time) {
		return nil, invalid("contract_end_date must not be before contract_start_date")
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	department := input.Department
	if department == "" {
		department = actor.Department
	}

	req := &models.ReviewRequest{
		ContractTitle:     input.ContractTitle,
		PartnerName:       input.PartnerName,
		ContractValue:     input.ContractValue,
		RequesterID:       actor.UserID,
		RequesterName:     actor.DisplayName(),
		Department:        department,
		Priority:          priority,
		RequestDeadline:   deadline,
		ReviewDeadline:    reviewDeadline,
		ContractStartDate: start,
		ContractEndDate:   end,
		Description:       strings.TrimSpace(input.Description),
		Status:            models.ReviewPending,
	}
	if input.FileURL != "" {
		url := input.FileURL
		req.FileURL = &url
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.log(ctx, actor, "review_request.create", req.ID, req.ContractTitle)
	slog.Info("Review request created", "request_id", req.ID, "requester_id", actor.UserID)
	return req, nil
}

// load returns the request if the actor may see it
func (s *ReviewService) load(ctx context.Context, actor Actor, id string) (*models.ReviewRequest, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}
	if !actor.IsAdminLike() && req.RequesterID != actor.UserID {
		// Someone else's request is reported as missing
		return nil, ErrNotFound
	}
	return req, nil
}

// GetRequest returns a request with its history and derived review state
func (s *ReviewService) GetRequest(ctx context.Context, actor Actor, id string) (*ReviewRequestDetail, error) {
	req, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	notes, err := s.notes.ListByRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	return buildDetail(req, notes), nil
}

func buildDetail(req *models.ReviewRequest, notes []models.ReviewNote) *ReviewRequestDetail {
	ordered := deptreview.SortNotes(notes)
	if ordered == nil {
		ordered = []models.ReviewNote{}
	}
	reviews := deptreview.Extract(ordered)
	plain := deptreview.PlainNotes(ordered)
	if plain == nil {
		plain = []models.ReviewNote{}
	}
	return &ReviewRequestDetail{
		Request:           req,
		Notes:             ordered,
		PlainNotes:        plain,
		DepartmentReviews: reviews.Ordered(),
		Progress:          reviews.Progress(),
		FullyApproved:     reviews.IsFullyApproved(),
		HasRejection:      reviews.HasRejection(),
	}
}

// ListRequests returns the requests visible to the actor, newest first
func (s *ReviewService) ListRequests(ctx context.Context, actor Actor, filter RequestFilter) ([]ReviewRequestSummary, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("status is invalid")
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, invalid("priority is invalid")
	}

	requesterID := actor.UserID
	if actor.IsAdminLike() {
		requesterID = ""
	}

	all, err := s.requests.List(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	requests := FilterRequests(all, filter)

	ids := make([]string, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	notesByRequest, err := s.notes.ListByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]ReviewRequestSummary, len(requests))
	for i, r := range requests {
		reviews := deptreview.Extract(notesByRequest[r.ID])
		result[i] = ReviewRequestSummary{
			ReviewRequest:     r,
			DepartmentReviews: reviews.Ordered(),
			Progress:          reviews.Progress(),
		}
	}
	return result, nil
}

// FilterRequests applies filter to already loaded requests, keeping order.
// Search matches title, partner and requester name without regard to case.
func FilterRequests(requests []models.ReviewRequest, filter RequestFilter) []models.ReviewRequest {
	term := strings.ToLower(strings.TrimSpace(filter.Search))

	result := make([]models.ReviewRequest, 0, len(requests))
	for _, r := range requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && r.Priority != filter.Priority {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.ContractTitle), term) &&
			!strings.Contains(strings.ToLower(r.PartnerName), term) &&
			!strings.Contains(strings.ToLower(r.RequesterName), term) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// CountByStatus returns how many requests are in each status. Every status
// is present in the result.
func CountByStatus(requests []models.ReviewRequest) map[models.ReviewRequestStatus]int {
	counts := make(map[models.ReviewRequestStatus]int, len(models.ReviewRequestStatuses))
	for _, st := range models.ReviewRequestStatuses {
		counts[st] = 0
	}
	for _, r := range requests {
		counts[r.Status]++
	}
	return counts
}

// StatusCounts counts every request in the store by status. Admin-like only.
func (s *ReviewService) StatusCounts(ctx context.Context, actor Actor) (map[models.ReviewRequestStatus]int, error) {
	if !actor.IsAdminLike() {
		return nil, ErrForbidden
	}
	all, err := s.requests.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return CountByStatus(all), nil
}

// SetStatus records an admin review: the new status and admin note, an
// optional department verdict and an optional plain note. The requester is
// notified in the background only when the status actually changed.
func (s *ReviewService) SetStatus(ctx context.Context, actor Actor, id string, input SetStatusInput) (*ReviewRequestDetail, error) {
	if !actor.IsAdminLike() {
		return nil, ErrForbidden
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := validator.ValidateStruct(input); err != nil {
		return nil, validationFrom(err)
	}

	author := actor.DisplayName()
	var appended []*models.ReviewNote
	if dr := input.DepartmentReview; dr != nil {
		appended = append(appended, &models.ReviewNote{
			AuthorID:   actor.UserID,
			AuthorName: author,
			Content:    deptreview.Encode(dr.Department, dr.Status, strings.TrimSpace(dr.Notes)),
		})
	}
	if note := strings.TrimSpace(input.Note); note != "" {
		appended = append(appended, &models.ReviewNote{
			AuthorID:   actor.UserID,
			AuthorName: author,
			Content:    note,
		})
	}

	updated, previous, err := s.requests.ApplyReview(ctx, id, input.Status, strings.TrimSpace(input.AdminNotes), appended)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if previous != updated.Status {
		s.log(ctx, actor, "review_request.status", id, fmt.Sprintf("%s -> %s", previous, updated.Status))
		if s.notifier != nil {
			s.notifier.Dispatch(notify.Notification{
				RequestID:      updated.ID,
				ContractTitle:  updated.ContractTitle,
				NewStatusLabel: updated.Status.Label(),
				ActorName:      author,
				RequesterID:    updated.RequesterID,
			})
		}
	} else {
		s.log(ctx, actor, "review_request.review", id, string(updated.Status))
	}

	// The review is committed; a reload failure only trims the response.
	notes, err := s.notes.ListByRequest(ctx, id)
	if err != nil {
		slog.Warn("Failed to reload notes after review",
			"request_id", id,
			"error", err)
		notes = make([]models.ReviewNote, 0, len(appended))
		for _, n := range appended {
			notes = append(notes, *n)
		}
	}
	return buildDetail(updated, notes), nil
}

// AddNote appends a plain note. Admin-like actors may comment on any request,
// requesters only on their own.
func (s *ReviewService) AddNote(ctx context.Context, actor Actor, id, content string) (*models.ReviewNote, error) {
	if actor.UserID == "" {
		return nil, ErrForbidden
	}
	content = strings.TrimSpace(content)
	if err := validator.ValidateRequired("content", content); err != nil {
		return nil, invalid("%v", err)
	}
	if len(content) > 10000 {
		return nil, invalid("content must be at most 10000 characters")
	}
	if !actor.IsAdminLike() && deptreview.IsReviewNote(content) {
		return nil, invalid("content must not start with %s", deptreview.Prefix)
	}

	if _, err := s.load(ctx, actor, id); err != nil {
		return nil, err
	}

	note := &models.ReviewNote{
		ReviewRequestID: id,
		AuthorID:        actor.UserID,
		AuthorName:      actor.DisplayName(),
		Content:         content,
	}
	if err := s.notes.Append(ctx, note); err != nil {
		return nil, err
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	return note, nil
}

// DeleteRequest removes a request and its notes. Admin-like only.
func (s *ReviewService) DeleteRequest(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdminLike() {
		return ErrForbidden
	}
	if err := checkID(id); err != nil {
		return err
	}
	deleted, err := s.requests.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.log(ctx, actor, "review_request.delete", id, "")
	return nil
}

// SortByDeadline orders requests by request deadline, earliest first
func SortByDeadline(requests []models.ReviewRequest) {
	slices.SortStableFunc(requests, func(a, b models.ReviewRequest) int {
		return a.RequestDeadline.Compare(b.RequestDeadline.Time)
	})
}

func (s *ReviewService) log(ctx context.Context, actor Actor, action, resource, details string) {
	if s.audit != nil {
		s.audit.Log(ctx, actor, action, resource, details)
	}
}
