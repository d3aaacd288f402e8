package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"legalhub/internal/models"
)

// ReviewRequestRepository handles review request database operations
type ReviewRequestRepository struct {
	db *sql.DB
}

// NewReviewRequestRepository creates a new review request repository
func NewReviewRequestRepository(db *sql.DB) *ReviewRequestRepository {
	return &ReviewRequestRepository{db: db}
}

const requestColumns = `id, contract_title, partner_name, contract_value, requester_id, requester_name,
	department, priority, request_deadline, review_deadline, contract_start_date, contract_end_date,
	description, file_url, status, admin_notes, created_at, updated_at`

func scanRequest(s rowScanner) (*models.ReviewRequest, error) {
	var req models.ReviewRequest
	err := s.Scan(
		&req.ID,
		&req.ContractTitle,
		&req.PartnerName,
		&req.ContractValue,
		&req.RequesterID,
		&req.RequesterName,
		&req.Department,
		&req.Priority,
		&req.RequestDeadline,
		&req.ReviewDeadline,
		&req.ContractStartDate,
		&req.ContractEndDate,
		&req.Description,
		&req.FileURL,
		&req.Status,
		&req.AdminNotes,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a new review request
func (r *ReviewRequestRepository) Create(ctx context.Context, req *models.ReviewRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	query := `
		INSERT INTO review_requests (
			id, contract_title, partner_name, contract_value, requester_id, requester_name,
			department, priority, request_deadline, review_deadline, contract_start_date,
			contract_end_date, description, file_url, status, admin_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		req.ID,
		req.ContractTitle,
		req.PartnerName,
		req.ContractValue,
		req.RequesterID,
		req.RequesterName,
		req.Department,
		req.Priority,
		req.RequestDeadline,
		req.ReviewDeadline,
		req.ContractStartDate,
		req.ContractEndDate,
		req.Description,
		req.FileURL,
		req.Status,
		req.AdminNotes,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review request: %w", err)
	}

	return nil
}

// GetByID retrieves a review request. Returns nil if it does not exist.
func (r *ReviewRequestRepository) GetByID(ctx context.Context, id string) (*models.ReviewRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM review_requests WHERE id = $1`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review request: %w", err)
	}
	return req, nil
}

// List returns review requests, newest first. An empty requesterID lists all.
func (r *ReviewRequestRepository) List(ctx context.Context, requesterID string) ([]models.ReviewRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM review_requests`
	var args []any
	if requesterID != "" {
		query += ` WHERE requester_id = $1`
		args = append(args, requesterID)
	}
	query += ` ORDER BY created_at DESC, id`

	return r.query(ctx, query, args...)
}

// ListOpenDueBetween returns requests that are not closed and whose request
// deadline falls within [from, to], earliest deadline first
func (r *ReviewRequestRepository) ListOpenDueBetween(ctx context.Context, from, to models.Date) ([]models.ReviewRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM review_requests
		WHERE status NOT IN ('completed', 'rejected')
		  AND request_deadline BETWEEN $1 AND $2
		ORDER BY request_deadline, created_at`

	return r.query(ctx, query, from, to)
}

func (r *ReviewRequestRepository) query(ctx context.Context, query string, args ...any) ([]models.ReviewRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list review requests: %w", err)
	}
	defer rows.Close()

	var requests []models.ReviewRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// ApplyReview updates status and admin notes and appends notes in a single
// transaction. It returns the previous status together with the updated
// request, or a nil request if id does not exist.
func (r *ReviewRequestRepository) ApplyReview(
	ctx context.Context,
	id string,
	status models.ReviewRequestStatus,
	adminNotes string,
	notes []*models.ReviewNote,
) (*models.ReviewRequest, models.ReviewRequestStatus, error) {
	var (
		updated  *models.ReviewRequest
		previous models.ReviewRequestStatus
	)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM review_requests WHERE id = $1 FOR UPDATE`, id,
		).Scan(&previous)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock review request: %w", err)
		}

		query := `
			UPDATE review_requests
			SET status = $2, admin_notes = $3, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1
			RETURNING ` + requestColumns
		updated, err = scanRequest(tx.QueryRowContext(ctx, query, id, status, adminNotes))
		if err != nil {
			return fmt.Errorf("failed to update review request: %w", err)
		}

		for _, note := range notes {
			note.ReviewRequestID = id
			if err := insertNote(ctx, tx, note); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return updated, previous, nil
}

// Delete removes a request and all of its notes. It reports whether the
// request existed.
func (r *ReviewRequestRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM review_notes WHERE review_request_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete review notes: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM review_requests WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete review request: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to delete review request: %w", err)
		}
		deleted = n > 0
		return nil
	})

	return deleted, err
}
