package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"legalhub/internal/models"
)

// ReviewNoteRepository handles the append-only review note log
type ReviewNoteRepository struct {
	db *sql.DB
}

// NewReviewNoteRepository creates a new review note repository
func NewReviewNoteRepository(db *sql.DB) *ReviewNoteRepository {
	return &ReviewNoteRepository{db: db}
}

const noteColumns = `id, seq, review_request_id, author_id, author_name, content, created_at`

func scanNote(s rowScanner) (models.ReviewNote, error) {
	var n models.ReviewNote
	err := s.Scan(&n.ID, &n.Seq, &n.ReviewRequestID, &n.AuthorID, &n.AuthorName, &n.Content, &n.CreatedAt)
	return n, err
}

// Append stores a new note and fills in its id, sequence number and timestamp
func (r *ReviewNoteRepository) Append(ctx context.Context, note *models.ReviewNote) error {
	return insertNote(ctx, r.db, note)
}

func insertNote(ctx context.Context, q queryer, note *models.ReviewNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	query := `
		INSERT INTO review_notes (id, review_request_id, author_id, author_name, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq, created_at
	`
	err := q.QueryRowContext(ctx, query,
		note.ID, note.ReviewRequestID, note.AuthorID, note.AuthorName, note.Content,
	).Scan(&note.Seq, &note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append review note: %w", err)
	}
	return nil
}

// ListByRequest returns every note of a request, oldest first
func (r *ReviewNoteRepository) ListByRequest(ctx context.Context, requestID string) ([]models.ReviewNote, error) {
	query := `SELECT ` + noteColumns + `
		FROM review_notes
		WHERE review_request_id = $1
		ORDER BY created_at, seq`

	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review notes: %w", err)
	}
	defer rows.Close()

	var notes []models.ReviewNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ListByRequests returns the notes of several requests keyed by request id,
// each list oldest first
func (r *ReviewNoteRepository) ListByRequests(ctx context.Context, requestIDs []string) (map[string][]models.ReviewNote, error) {
	result := make(map[string][]models.ReviewNote, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + noteColumns + `
		FROM review_notes
		WHERE review_request_id = ANY($1::uuid[])
		ORDER BY created_at, seq`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(requestIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list review notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review note: %w", err)
		}
		result[n.ReviewRequestID] = append(result[n.ReviewRequestID], n)
	}
	return result, rows.Err()
}
