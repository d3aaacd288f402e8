package models

import (
	"time"
)

// Profile represents a signed-in user as mirrored from the identity provider
type Profile struct {
	UserID     string    `json:"user_id" db:"user_id"`
	Email      string    `json:"email" db:"email"`
	FullName   string    `json:"full_name" db:"full_name"`
	Department string    `json:"department" db:"department"`
	Role       Role      `json:"role" db:"role"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the full name, falling back to the e-mail address
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// ReviewRequest is a submission asking the legal function to review a contract
type ReviewRequest struct {
	ID                string              `json:"id" db:"id"`
	ContractTitle     string              `json:"contract_title" db:"contract_title"`
	PartnerName       string              `json:"partner_name" db:"partner_name"`
	ContractValue     int64               `json:"contract_value" db:"contract_value"`
	RequesterID       string              `json:"requester_id" db:"requester_id"`
	RequesterName     string              `json:"requester_name" db:"requester_name"`
	Department        string              `json:"department" db:"department"`
	Priority          Priority            `json:"priority" db:"priority"`
	RequestDeadline   Date                `json:"request_deadline" db:"request_deadline"`
	ReviewDeadline    *Date               `json:"review_deadline,omitempty" db:"review_deadline"`
	ContractStartDate *Date               `json:"contract_start_date,omitempty" db:"contract_start_date"`
	ContractEndDate   *Date               `json:"contract_end_date,omitempty" db:"contract_end_date"`
	Description       string              `json:"description" db:"description"`
	FileURL           *string             `json:"file_url,omitempty" db:"file_url"`
	Status            ReviewRequestStatus `json:"status" db:"status"`
	AdminNotes        string              `json:"admin_notes" db:"admin_notes"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`
}

// ReviewNote is an append-only remark attached to a review request.
// Seq is the insertion order and breaks ties between equal CreatedAt values.
type ReviewNote struct {
	ID              string    `json:"id" db:"id"`
	Seq             int64     `json:"-" db:"seq"`
	ReviewRequestID string    `json:"review_request_id" db:"review_request_id"`
	AuthorID        string    `json:"author_id" db:"author_id"`
	AuthorName      string    `json:"author_name" db:"author_name"`
	Content         string    `json:"content" db:"content"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Category groups stored contracts
type Category struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	ContractCount int       `json:"contract_count" db:"-"`
}

// Contract represents a stored contract record
type Contract struct {
	ID            string         `json:"id" db:"id"`
	CategoryID    *string        `json:"category_id,omitempty" db:"category_id"`
	Title         string         `json:"title" db:"title"`
	ContractType  ContractType   `json:"contract_type" db:"contract_type"`
	PartnerName   string         `json:"partner_name" db:"partner_name"`
	Status        ContractStatus `json:"status" db:"status"`
	EffectiveDate *Date          `json:"effective_date,omitempty" db:"effective_date"`
	ExpiryDate    *Date          `json:"expiry_date,omitempty" db:"expiry_date"`
	Value         int64          `json:"value" db:"value"`
	RiskLevel     RiskLevel      `json:"risk_level" db:"risk_level"`
	FileURL       *string        `json:"file_url,omitempty" db:"file_url"`
	CreatedBy     string         `json:"created_by" db:"created_by"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Clause is a standard clause used as a reference during analysis
type Clause struct {
	ID           string       `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Content      string       `json:"content" db:"content"`
	ContractType ContractType `json:"contract_type" db:"contract_type"`
	RiskLevel    RiskLevel    `json:"risk_level" db:"risk_level"`
	Notes        string       `json:"notes" db:"notes"`
	CreatedBy    string       `json:"created_by" db:"created_by"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *string   `json:"user_id,omitempty" db:"user_id"`
	UserEmail *string   `json:"user_email,omitempty" db:"user_email"`
	Action    string    `json:"action" db:"action"`
	Resource  string    `json:"resource" db:"resource"`
	Details   string    `json:"details,omitempty" db:"details"`
	IPAddress string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent string    `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Deadline is an upcoming contract date shown on the dashboard
type Deadline struct {
	ContractID    string       `json:"contract_id"`
	ContractTitle string       `json:"contract_title"`
	PartnerName   string       `json:"partner_name"`
	Type          DeadlineType `json:"type"`
	DueDate       Date         `json:"due_date"`
	DaysRemaining int          `json:"days_remaining"`
}

// ContractStats summarises the contract store
type ContractStats struct {
	Total        int                    `json:"total"`
	ByStatus     map[ContractStatus]int `json:"by_status"`
	ExpiringSoon int                    `json:"expiring_soon"`
	HighRisk     int                    `json:"high_risk"`
	ByCategory   []CategoryCount        `json:"by_category"`
}

// CategoryCount is one row of ContractStats.ByCategory
type CategoryCount struct {
	CategoryID *string `json:"category_id"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
}
