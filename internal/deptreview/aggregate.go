package deptreview

import (
	"math"
	"slices"
	"time"

	"legalhub/internal/models"
)

// Review is the derived current verdict of one department
type Review struct {
	Department   models.Department             `json:"department"`
	Status       models.DepartmentReviewStatus `json:"status"`
	ReviewerName string                        `json:"reviewer_name,omitempty"`
	ReviewedAt   *time.Time                    `json:"reviewed_at,omitempty"`
	Notes        string                        `json:"notes,omitempty"`
}

// Reviews maps every department to its current verdict. A Reviews value
// built by Extract always holds all three departments.
type Reviews map[models.Department]Review

// Progress summarises how many departments have given a verdict
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// NewReviews returns every department at pending with nothing else set
func NewReviews() Reviews {
	r := make(Reviews, len(models.Departments))
	for _, d := range models.Departments {
		r[d] = Review{Department: d, Status: models.DeptPending}
	}
	return r
}

// Extract folds notes into the current verdict per department. Notes are
// replayed oldest to newest by (CreatedAt, Seq); the last decodable note for
// a department wins. The input slice is not modified.
func Extract(notes []models.ReviewNote) Reviews {
	result := NewReviews()

	for _, note := range SortNotes(notes) {
		entry, ok := Decode(note.Content)
		if !ok {
			continue
		}
		reviewedAt := note.CreatedAt
		result[entry.Department] = Review{
			Department:   entry.Department,
			Status:       entry.Status,
			ReviewerName: note.AuthorName,
			ReviewedAt:   &reviewedAt,
			Notes:        entry.Notes,
		}
	}

	return result
}

// SortNotes returns a copy of notes ordered by CreatedAt, then Seq
func SortNotes(notes []models.ReviewNote) []models.ReviewNote {
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b models.ReviewNote) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
	return sorted
}

// PlainNotes returns the notes that are not department reviews, oldest first
func PlainNotes(notes []models.ReviewNote) []models.ReviewNote {
	var plain []models.ReviewNote
	for _, note := range SortNotes(notes) {
		if _, ok := Decode(note.Content); !ok {
			plain = append(plain, note)
		}
	}
	return plain
}

// IsFullyApproved is true when every department approved
func (r Reviews) IsFullyApproved() bool {
	for _, d := range models.Departments {
		if r.status(d) != models.DeptApproved {
			return false
		}
	}
	return true
}

// HasRejection is true when any department rejected
func (r Reviews) HasRejection() bool {
	for _, d := range models.Departments {
		if r.status(d) == models.DeptRejected {
			return true
		}
	}
	return false
}

// Progress counts departments that are no longer pending.
// Percentage is rounded half away from zero: 1/3 is 33, 2/3 is 67.
func (r Reviews) Progress() Progress {
	total := len(models.Departments)
	completed := 0
	for _, d := range models.Departments {
		if r.status(d) != models.DeptPending {
			completed++
		}
	}
	return Progress{
		Completed:  completed,
		Total:      total,
		Percentage: int(math.Round(float64(completed) / float64(total) * 100)),
	}
}

// Ordered returns the reviews in department display order
func (r Reviews) Ordered() []Review {
	out := make([]Review, 0, len(models.Departments))
	for _, d := range models.Departments {
		review, ok := r[d]
		if !ok {
			review = Review{Department: d, Status: models.DeptPending}
		}
		out = append(out, review)
	}
	return out
}

func (r Reviews) status(d models.Department) models.DepartmentReviewStatus {
	if review, ok := r[d]; ok {
		return review.Status
	}
	return models.DeptPending
}
