package models

// ReviewRequestStatus is the overall status of a review request
type ReviewRequestStatus string

const (
	ReviewPending       ReviewRequestStatus = "pending"
	ReviewInReview      ReviewRequestStatus = "in_review"
	ReviewCompleted     ReviewRequestStatus = "completed"
	ReviewNeedsRevision ReviewRequestStatus = "needs_revision"
	ReviewRejected      ReviewRequestStatus = "rejected"
)

// ReviewRequestStatuses lists every review request status in display order
var ReviewRequestStatuses = []ReviewRequestStatus{
	ReviewPending, ReviewInReview, ReviewCompleted, ReviewNeedsRevision, ReviewRejected,
}

// Valid reports whether s is a known review request status
func (s ReviewRequestStatus) Valid() bool {
	_, ok := reviewRequestStatusLabels[s]
	return ok
}

// Label returns the display label
func (s ReviewRequestStatus) Label() string {
	return labelOr(reviewRequestStatusLabels[s], string(s))
}

// Priority of a review request
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority, highest first
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

func (p Priority) Label() string {
	return labelOr(priorityLabels[p], string(p))
}

// Department is one of the three sub-departments that review a contract
type Department string

const (
	DepartmentLegal      Department = "phap_ly"
	DepartmentFinance    Department = "tai_chinh"
	DepartmentAccounting Department = "ke_toan"
)

// Departments lists the reviewing departments in display order
var Departments = []Department{DepartmentLegal, DepartmentFinance, DepartmentAccounting}

func (d Department) Valid() bool {
	_, ok := departmentLabels[d]
	return ok
}

func (d Department) Label() string {
	return labelOr(departmentLabels[d], string(d))
}

// DepartmentReviewStatus is the verdict of a single department
type DepartmentReviewStatus string

const (
	DeptPending       DepartmentReviewStatus = "pending"
	DeptApproved      DepartmentReviewStatus = "approved"
	DeptRejected      DepartmentReviewStatus = "rejected"
	DeptNeedsRevision DepartmentReviewStatus = "needs_revision"
)

// DepartmentReviewStatuses lists every department verdict
var DepartmentReviewStatuses = []DepartmentReviewStatus{
	DeptPending, DeptApproved, DeptRejected, DeptNeedsRevision,
}

func (s DepartmentReviewStatus) Valid() bool {
	_, ok := departmentReviewStatusLabels[s]
	return ok
}

func (s DepartmentReviewStatus) Label() string {
	return labelOr(departmentReviewStatusLabels[s], string(s))
}

// ContractStatus is the lifecycle status of a stored contract
type ContractStatus string

const (
	ContractDraft    ContractStatus = "nhap"
	ContractInReview ContractStatus = "dang_review"
	ContractSigned   ContractStatus = "da_ky"
	ContractExpired  ContractStatus = "het_hieu_luc"
)

var ContractStatuses = []ContractStatus{ContractDraft, ContractInReview, ContractSigned, ContractExpired}

func (s ContractStatus) Valid() bool {
	_, ok := contractStatusLabels[s]
	return ok
}

func (s ContractStatus) Label() string {
	return labelOr(contractStatusLabels[s], string(s))
}

// ContractType classifies contracts and standard clauses
type ContractType string

const (
	ContractTypeSale        ContractType = "mua_ban"
	ContractTypeService     ContractType = "dich_vu"
	ContractTypeNDA         ContractType = "nda"
	ContractTypePartnership ContractType = "hop_tac"
	ContractTypeLabor       ContractType = "lao_dong"
	ContractTypeLease       ContractType = "thue"
	ContractTypeOther       ContractType = "khac"
)

var ContractTypes = []ContractType{
	ContractTypeSale, ContractTypeService, ContractTypeNDA, ContractTypePartnership,
	ContractTypeLabor, ContractTypeLease, ContractTypeOther,
}

func (t ContractType) Valid() bool {
	_, ok := contractTypeLabels[t]
	return ok
}

func (t ContractType) Label() string {
	return labelOr(contractTypeLabels[t], string(t))
}

// RiskLevel of a contract, clause or analysis finding
type RiskLevel string

const (
	RiskLow    RiskLevel = "thap"
	RiskMedium RiskLevel = "trung_binh"
	RiskHigh   RiskLevel = "cao"
)

var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

func (r RiskLevel) Valid() bool {
	_, ok := riskLevelLabels[r]
	return ok
}

func (r RiskLevel) Label() string {
	return labelOr(riskLevelLabels[r], string(r))
}

// DeadlineType describes what falls due on a contract deadline
type DeadlineType string

const (
	DeadlinePayment    DeadlineType = "thanh_toan"
	DeadlineAcceptance DeadlineType = "nghiem_thu"
	DeadlineRenewal    DeadlineType = "gia_han"
	DeadlineExpiry     DeadlineType = "het_hieu_luc"
)

var DeadlineTypes = []DeadlineType{DeadlinePayment, DeadlineAcceptance, DeadlineRenewal, DeadlineExpiry}

func (t DeadlineType) Valid() bool {
	_, ok := deadlineTypeLabels[t]
	return ok
}

func (t DeadlineType) Label() string {
	return labelOr(deadlineTypeLabels[t], string(t))
}

// Role of a signed-in user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleLegal Role = "legal"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLegal, RoleUser:
		return true
	}
	return false
}

// IsAdminLike reports whether the role may manage review requests and contracts
func (r Role) IsAdminLike() bool {
	return r == RoleAdmin || r == RoleLegal
}

func labelOr(l Label, fallback string) string {
	if l.Text == "" {
		return fallback
	}
	return l.Text
}
