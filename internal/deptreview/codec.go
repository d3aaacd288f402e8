// Package deptreview stores per-department review verdicts inside plain
// review notes and folds a request's note history back into the current
// verdict of every department.
package deptreview

import (
	"strings"

	"legalhub/internal/models"
)

// Prefix marks a review note whose content carries a department review
const Prefix = "[DEPT_REVIEW]"

const delimiter = "|"

// Entry is a decoded department review payload
type Entry struct {
	Department models.Department
	Status     models.DepartmentReviewStatus
	Notes      string
}

// Encode renders a department review as note content:
// "[DEPT_REVIEW]" + department + "|" + status + "|" + notes
func Encode(department models.Department, status models.DepartmentReviewStatus, notes string) string {
	var b strings.Builder
	b.Grow(len(Prefix) + len(department) + len(status) + len(notes) + 2)
	b.WriteString(Prefix)
	b.WriteString(string(department))
	b.WriteString(delimiter)
	b.WriteString(string(status))
	b.WriteString(delimiter)
	b.WriteString(notes)
	return b.String()
}

// Decode parses note content produced by Encode. The second return value is
// false for plain notes and for payloads whose department or status is empty
// or not a known code. Everything after the second delimiter is the notes
// text, delimiters included.
func Decode(content string) (Entry, bool) {
	payload, ok := strings.CutPrefix(content, Prefix)
	if !ok {
		return Entry{}, false
	}

	parts := strings.SplitN(payload, delimiter, 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Entry{}, false
	}

	entry := Entry{
		Department: models.Department(parts[0]),
		Status:     models.DepartmentReviewStatus(parts[1]),
	}
	if !entry.Department.Valid() || !entry.Status.Valid() {
		return Entry{}, false
	}
	if len(parts) == 3 {
		entry.Notes = parts[2]
	}
	return entry, true
}

// IsReviewNote reports whether content carries the department review marker.
// Content with the marker may still fail to decode.
func IsReviewNote(content string) bool {
	return strings.HasPrefix(content, Prefix)
}
