package models

// Label is the display form of an enumeration code
type Label struct {
	Code        string `json:"code"`
	Text        string `json:"label"`
	Class       string `json:"class,omitempty"`
	Description string `json:"description,omitempty"`
}

var reviewRequestStatusLabels = map[ReviewRequestStatus]Label{
	ReviewPending:       {Code: "pending", Text: "Chờ xử lý", Class: "bg-muted text-muted-foreground border-border"},
	ReviewInReview:      {Code: "in_review", Text: "Đang review", Class: "bg-info/10 text-info border-info/20"},
	ReviewCompleted:     {Code: "completed", Text: "Đã hoàn thành", Class: "bg-success/10 text-success border-success/20"},
	ReviewNeedsRevision: {Code: "needs_revision", Text: "Yêu cầu chỉnh sửa", Class: "bg-warning/10 text-warning border-warning/20"},
	ReviewRejected:      {Code: "rejected", Text: "Từ chối", Class: "bg-destructive/10 text-destructive border-destructive/20"},
}

var priorityLabels = map[Priority]Label{
	PriorityHigh:   {Code: "high", Text: "Cao", Class: "bg-destructive/10 text-destructive"},
	PriorityMedium: {Code: "medium", Text: "Trung bình", Class: "bg-warning/10 text-warning"},
	PriorityLow:    {Code: "low", Text: "Thấp", Class: "bg-muted text-muted-foreground"},
}

var departmentLabels = map[Department]Label{
	DepartmentLegal: {
		Code: "phap_ly", Text: "Pháp lý", Class: "text-blue-600 bg-blue-50 border-blue-200",
		Description: "Kiểm tra tính hợp pháp, điều khoản ràng buộc",
	},
	DepartmentFinance: {
		Code: "tai_chinh", Text: "Tài chính", Class: "text-emerald-600 bg-emerald-50 border-emerald-200",
		Description: "Đánh giá giá trị, điều khoản thanh toán",
	},
	DepartmentAccounting: {
		Code: "ke_toan", Text: "Kế toán", Class: "text-amber-600 bg-amber-50 border-amber-200",
		Description: "Kiểm tra hạch toán, thuế, chứng từ",
	},
}

var departmentReviewStatusLabels = map[DepartmentReviewStatus]Label{
	DeptPending:       {Code: "pending", Text: "Chờ review", Class: "bg-gray-100 text-gray-600 border-gray-200"},
	DeptApproved:      {Code: "approved", Text: "Đã duyệt", Class: "bg-green-50 text-green-700 border-green-200"},
	DeptRejected:      {Code: "rejected", Text: "Từ chối", Class: "bg-red-50 text-red-700 border-red-200"},
	DeptNeedsRevision: {Code: "needs_revision", Text: "Cần chỉnh sửa", Class: "bg-yellow-50 text-yellow-700 border-yellow-200"},
}

var contractStatusLabels = map[ContractStatus]Label{
	ContractDraft:    {Code: "nhap", Text: "Nháp", Class: "bg-muted text-muted-foreground border-border"},
	ContractInReview: {Code: "dang_review", Text: "Đang review", Class: "bg-info/10 text-info border-info/20"},
	ContractSigned:   {Code: "da_ky", Text: "Đã ký", Class: "bg-success/10 text-success border-success/20"},
	ContractExpired:  {Code: "het_hieu_luc", Text: "Hết hiệu lực", Class: "bg-destructive/10 text-destructive border-destructive/20"},
}

var contractTypeLabels = map[ContractType]Label{
	ContractTypeSale:        {Code: "mua_ban", Text: "Mua bán"},
	ContractTypeService:     {Code: "dich_vu", Text: "Dịch vụ"},
	ContractTypeNDA:         {Code: "nda", Text: "NDA"},
	ContractTypePartnership: {Code: "hop_tac", Text: "Hợp tác"},
	ContractTypeLabor:       {Code: "lao_dong", Text: "Lao động"},
	ContractTypeLease:       {Code: "thue", Text: "Thuê"},
	ContractTypeOther:       {Code: "khac", Text: "Khác"},
}

var riskLevelLabels = map[RiskLevel]Label{
	RiskLow:    {Code: "thap", Text: "Thấp", Class: "bg-success/10 text-success"},
	RiskMedium: {Code: "trung_binh", Text: "Trung bình", Class: "bg-warning/10 text-warning"},
	RiskHigh:   {Code: "cao", Text: "Cao", Class: "bg-destructive/10 text-destructive"},
}

var deadlineTypeLabels = map[DeadlineType]Label{
	DeadlinePayment:    {Code: "thanh_toan", Text: "Thanh toán"},
	DeadlineAcceptance: {Code: "nghiem_thu", Text: "Nghiệm thu"},
	DeadlineRenewal:    {Code: "gia_han", Text: "Gia hạn"},
	DeadlineExpiry:     {Code: "het_hieu_luc", Text: "Hết hiệu lực"},
}

// LabelRegistry exposes every enumeration with its labels, in display order
type LabelRegistry struct {
	ReviewRequestStatuses    []Label `json:"review_request_statuses"`
	Priorities               []Label `json:"priorities"`
	Departments              []Label `json:"departments"`
	DepartmentReviewStatuses []Label `json:"department_review_statuses"`
	ContractStatuses         []Label `json:"contract_statuses"`
	ContractTypes            []Label `json:"contract_types"`
	RiskLevels               []Label `json:"risk_levels"`
	DeadlineTypes            []Label `json:"deadline_types"`
}

// Labels returns the full label registry
func Labels() LabelRegistry {
	return LabelRegistry{
		ReviewRequestStatuses:    collect(ReviewRequestStatuses, reviewRequestStatusLabels),
		Priorities:               collect(Priorities, priorityLabels),
		Departments:              collect(Departments, departmentLabels),
		DepartmentReviewStatuses: collect(DepartmentReviewStatuses, departmentReviewStatusLabels),
		ContractStatuses:         collect(ContractStatuses, contractStatusLabels),
		ContractTypes:            collect(ContractTypes, contractTypeLabels),
		RiskLevels:               collect(RiskLevels, riskLevelLabels),
		DeadlineTypes:            collect(DeadlineTypes, deadlineTypeLabels),
	}
}

// LabelFor looks up a department label including its class and description
func (d Department) LabelFor() Label {
	return departmentLabels[d]
}

func collect[K ~string](order []K, m map[K]Label) []Label {
	out := make([]Label, 0, len(order))
	for _, k := range order {
		out = append(out, m[k])
	}
	return out
}
