package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"legalhub/internal/deptreview"
	"legalhub/internal/models"
)

func newReviewService() (*ReviewService, *memoryStore, *recordingDispatcher, *recordingAudit) {
	store := newMemoryStore()
	d := &recordingDispatcher{}
	a := &recordingAudit{}
	return NewReviewService(store, store, d, a), store, d, a
}

func TestReviewService_EndToEnd(t *testing.T) {
	svc, _, dispatcher, _ := newReviewService()
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{
		ContractTitle:   "Hợp đồng thuê văn phòng",
		RequestDeadline: "2025-01-10",
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if req.Status != models.ReviewPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
	if req.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", req.Priority)
	}

	detail, err := svc.SetStatus(ctx, adminActor, req.ID, SetStatusInput{
		Status: models.ReviewInReview,
		DepartmentReview: &DepartmentReviewInput{
			Department: models.DepartmentFinance,
			Status:     models.DeptApproved,
			Notes:      "Giá hợp lý",
		},
	})
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	if detail.Request.Status != models.ReviewInReview {
		t.Errorf("status = %q, want in_review", detail.Request.Status)
	}
	if len(detail.Notes) != 1 || detail.Notes[0].Content != "[DEPT_REVIEW]tai_chinh|approved|Giá hợp lý" {
		t.Fatalf("notes = %+v", detail.Notes)
	}
	if len(detail.PlainNotes) != 0 {
		t.Errorf("plain notes = %d, want 0", len(detail.PlainNotes))
	}

	want := map[models.Department]models.DepartmentReviewStatus{
		models.DepartmentLegal:      models.DeptPending,
		models.DepartmentFinance:    models.DeptApproved,
		models.DepartmentAccounting: models.DeptPending,
	}
	for _, r := range detail.DepartmentReviews {
		if r.Status != want[r.Department] {
			t.Errorf("%s status = %q, want %q", r.Department, r.Status, want[r.Department])
		}
	}
	if detail.Progress != (deptreview.Progress{Completed: 1, Total: 3, Percentage: 33}) {
		t.Errorf("progress = %+v", detail.Progress)
	}
	if detail.FullyApproved || detail.HasRejection {
		t.Error("expected neither fully approved nor rejected")
	}

	if dispatcher.count() != 1 {
		t.Fatalf("notifications = %d, want 1", dispatcher.count())
	}
	n := dispatcher.sent[0]
	if n.NewStatusLabel != "Đang review" || n.RequesterID != userActor.UserID || n.ContractTitle != "Hợp đồng thuê văn phòng" {
		t.Errorf("unexpected notification %+v", n)
	}
	if n.ActorName != "Admin Pháp chế" {
		t.Errorf("actor name = %q", n.ActorName)
	}
}

func TestReviewService_SetStatus_NoNotificationWithoutChange(t *testing.T) {
	svc, _, dispatcher, _ := newReviewService()
	ctx := context.Background()

	req, _ := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10"})

	detail, err := svc.SetStatus(ctx, legalActor, req.ID, SetStatusInput{
		Status:     models.ReviewPending,
		AdminNotes: "  Đã nhận  ",
		Note:       "   ",
	})
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if dispatcher.count() != 0 {
		t.Errorf("notifications = %d, want 0", dispatcher.count())
	}
	if detail.Request.AdminNotes != "Đã nhận" {
		t.Errorf("admin notes = %q", detail.Request.AdminNotes)
	}
	if len(detail.Notes) != 0 {
		t.Errorf("blank note must be skipped, got %d notes", len(detail.Notes))
	}
	if !detail.Request.UpdatedAt.After(req.UpdatedAt) {
		t.Error("updated_at should advance")
	}
}

func TestReviewService_SetStatus_AuthorFallback(t *testing.T) {
	svc, _, _, _ := newReviewService()
	ctx := context.Background()
	req, _ := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10"})

	tests := []struct {
		name  string
		actor Actor
		want  string
	}{
		{"full name", adminActor, "Admin Pháp chế"},
		{"email", legalActor, "legal@test.com"},
		{"neither", Actor{UserID: "x", Role: models.RoleLegal}, "Pháp chế"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := svc.SetStatus(ctx, tt.actor, req.ID, SetStatusInput{Status: models.ReviewInReview, Note: "Ghi chú"})
			if err != nil {
				t.Fatalf("SetStatus() error = %v", err)
			}
			last := detail.Notes[len(detail.Notes)-1]
			if last.AuthorName != tt.want {
				t.Errorf("author = %q, want %q", last.AuthorName, tt.want)
			}
		})
	}
}

func TestReviewService_SetStatus_Errors(t *testing.T) {
	svc, store, dispatcher, _ := newReviewService()
	ctx := context.Background()
	req, _ := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10"})

	tests := []struct {
		name  string
		actor Actor
		id    string
		input SetStatusInput
		want  error
	}{
		{"requester is forbidden", userActor, req.ID, SetStatusInput{Status: models.ReviewCompleted}, ErrForbidden},
		{"unknown status", adminActor, req.ID, SetStatusInput{Status: "archived"}, ErrValidation},
		{"missing status", adminActor, req.ID, SetStatusInput{}, ErrValidation},
		{"bad department", adminActor, req.ID, SetStatusInput{
			Status:           models.ReviewInReview,
			DepartmentReview: &DepartmentReviewInput{Department: "nhan_su", Status: models.DeptApproved},
		}, ErrValidation},
		{"bad department status", adminActor, req.ID, SetStatusInput{
			Status:           models.ReviewInReview,
			DepartmentReview: &DepartmentReviewInput{Department: models.DepartmentLegal, Status: "ok"},
		}, ErrValidation},
		{"unknown request", adminActor, "7d7f8a43-1111-4222-8333-444455556666", SetStatusInput{Status: models.ReviewInReview}, ErrNotFound},
		{"malformed id", adminActor, "not-a-uuid", SetStatusInput{Status: models.ReviewInReview}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SetStatus(ctx, tt.actor, tt.id, tt.input); !errors.Is(err, tt.want) {
				t.Errorf("SetStatus() error = %v, want %v", err, tt.want)
			}
		})
	}

	got, _ := store.GetByID(ctx, req.ID)
	if got.Status != models.ReviewPending {
		t.Errorf("rejected updates must not persist, status = %q", got.Status)
	}
	if notes, _ := store.ListByRequest(ctx, req.ID); len(notes) != 0 {
		t.Errorf("rejected updates must not append notes, got %d", len(notes))
	}
	if dispatcher.count() != 0 {
		t.Error("rejected updates must not notify")
	}
}

func TestReviewService_SetStatus_StoreFailure(t *testing.T) {
	svc, store, dispatcher, _ := newReviewService()
	ctx := context.Background()
	req, _ := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10"})

	store.applyErr = errors.New("connection reset")
	if _, err := svc.SetStatus(ctx, adminActor, req.ID, SetStatusInput{Status: models.ReviewCompleted}); err == nil {
		t.Fatal("expected store error")
	}
	if dispatcher.count() != 0 {
		t.Error("failed save must not notify")
	}
}

func TestReviewService_SetStatus_ReloadFailureAfterCommit(t *testing.T) {
	svc, store, dispatcher, _ := newReviewService()
	ctx := context.Background()
	req, _ := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10"})

	store.listErr = errors.New("db gone")
	detail, err := svc.SetStatus(ctx, adminActor, req.ID, SetStatusInput{
		Status:           models.ReviewInReview,
		Note:             "Đã nhận hồ sơ",
		DepartmentReview: &DepartmentReviewInput{Department: models.DepartmentLegal, Status: models.DeptApproved},
	})
	if err != nil {
		t.Fatalf("committed review must succeed, got %v", err)
	}
	if detail.Request.Status != models.ReviewInReview {
		t.Errorf("status = %q, want in_review", detail.Request.Status)
	}
	if len(detail.Notes) != 2 {
		t.Errorf("detail notes = %d, want the 2 appended notes", len(detail.Notes))
	}
	if detail.Progress.Completed != 1 {
		t.Errorf("progress completed = %d, want 1", detail.Progress.Completed)
	}
	if dispatcher.count() != 1 {
		t.Errorf("notifications = %d, want 1", dispatcher.count())
	}

	store.listErr = nil
	notes, _ := store.ListByRequest(ctx, req.ID)
	if len(notes) != 2 {
		t.Errorf("stored notes = %d, want 2", len(notes))
	}
}

func TestReviewService_LatestVerdictWins(t *testing.T) {
	svc, _, _, _ := newReviewService()
	ctx := context.Background()
	req, _ := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10"})

	steps := []struct {
		dept   models.Department
		status models.DepartmentReviewStatus
	}{
		{models.DepartmentLegal, models.DeptRejected},
		{models.DepartmentFinance, models.DeptApproved},
		{models.DepartmentAccounting, models.DeptApproved},
		{models.DepartmentLegal, models.DeptApproved},
	}

	var detail *ReviewRequestDetail
	for _, s := range steps {
		var err error
		detail, err = svc.SetStatus(ctx, adminActor, req.ID, SetStatusInput{
			Status:           models.ReviewInReview,
			DepartmentReview: &DepartmentReviewInput{Department: s.dept, Status: s.status},
		})
		if err != nil {
			t.Fatalf("SetStatus() error = %v", err)
		}
	}

	if !detail.FullyApproved || detail.HasRejection {
		t.Errorf("fully approved = %v, has rejection = %v", detail.FullyApproved, detail.HasRejection)
	}
	if detail.Progress.Percentage != 100 {
		t.Errorf("percentage = %d, want 100", detail.Progress.Percentage)
	}
	// Full approval does not move the request by itself
	if detail.Request.Status != models.ReviewInReview {
		t.Errorf("status = %q, want in_review", detail.Request.Status)
	}
}

func TestReviewService_CreateRequest_Validation(t *testing.T) {
	svc, _, _, _ := newReviewService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateReviewRequestInput
	}{
		{"missing title", CreateReviewRequestInput{RequestDeadline: "2025-01-10"}},
		{"blank title", CreateReviewRequestInput{ContractTitle: "   ", RequestDeadline: "2025-01-10"}},
		{"missing deadline", CreateReviewRequestInput{ContractTitle: "HĐ"}},
		{"bad deadline", CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "10/01/2025"}},
		{"negative value", CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10", ContractValue: -1}},
		{"bad priority", CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10", Priority: "urgent"}},
		{"end before start", CreateReviewRequestInput{
			ContractTitle: "HĐ", RequestDeadline: "2025-01-10",
			ContractStartDate: "2025-06-01", ContractEndDate: "2025-05-31",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateRequest(ctx, userActor, tt.input); !errors.Is(err, ErrValidation) {
				t.Errorf("CreateRequest() error = %v, want ErrValidation", err)
			}
		})
	}

	if _, err := svc.CreateRequest(ctx, Actor{}, CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("anonymous CreateRequest() error = %v, want ErrForbidden", err)
	}
}

func TestReviewService_CreateRequest_Fields(t *testing.T) {
	svc, _, _, audit := newReviewService()

	req, err := svc.CreateRequest(context.Background(), userActor, CreateReviewRequestInput{
		ContractTitle:     "  HĐ dịch vụ  ",
		PartnerName:       "Công ty B",
		ContractValue:     150000000,
		Priority:          models.PriorityHigh,
		RequestDeadline:   "2025-01-10",
		ContractStartDate: "2025-02-01",
		ContractEndDate:   "2026-01-31",
		FileURL:           "https://files.test/hd.pdf",
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if req.ContractTitle != "HĐ dịch vụ" {
		t.Errorf("title = %q", req.ContractTitle)
	}
	if req.RequesterID != userActor.UserID || req.RequesterName != "Nguyễn Văn A" || req.Department != "Kinh doanh" {
		t.Errorf("requester fields = %q %q %q", req.RequesterID, req.RequesterName, req.Department)
	}
	if req.ContractEndDate == nil || req.ContractEndDate.String() != "2026-01-31" {
		t.Errorf("end date = %v", req.ContractEndDate)
	}
	if req.FileURL == nil || *req.FileURL != "https://files.test/hd.pdf" {
		t.Errorf("file url = %v", req.FileURL)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "review_request.create" {
		t.Errorf("audit = %v", audit.actions)
	}
}

func TestReviewService_Visibility(t *testing.T) {
	svc, _, _, _ := newReviewService()
	ctx := context.Background()

	mine, _ := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "HĐ của tôi", RequestDeadline: "2025-01-10"})
	_, _ = svc.CreateRequest(ctx, otherActor, CreateReviewRequestInput{ContractTitle: "HĐ khác", RequestDeadline: "2025-01-11"})

	list, err := svc.ListRequests(ctx, userActor, RequestFilter{})
	if err != nil {
		t.Fatalf("ListRequests() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != mine.ID {
		t.Errorf("user sees %d requests, want only their own", len(list))
	}
	if list[0].Progress.Total != 3 || len(list[0].DepartmentReviews) != 3 {
		t.Errorf("summary missing derived reviews: %+v", list[0].Progress)
	}

	all, _ := svc.ListRequests(ctx, adminActor, RequestFilter{})
	if len(all) != 2 {
		t.Errorf("admin sees %d requests, want 2", len(all))
	}
	if all[0].ContractTitle != "HĐ khác" {
		t.Errorf("expected newest first, got %q", all[0].ContractTitle)
	}

	if _, err := svc.GetRequest(ctx, otherActor, mine.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRequest() by other user error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetRequest(ctx, legalActor, mine.ID); err != nil {
		t.Errorf("GetRequest() by legal error = %v", err)
	}

	if _, err := svc.ListRequests(ctx, adminActor, RequestFilter{Status: "archived"}); !errors.Is(err, ErrValidation) {
		t.Errorf("invalid status filter error = %v, want ErrValidation", err)
	}
}

func TestFilterRequests(t *testing.T) {
	requests := []models.ReviewRequest{
		{ID: "1", ContractTitle: "Hợp đồng thuê văn phòng", PartnerName: "Công ty A", RequesterName: "Lan", Status: models.ReviewPending, Priority: models.PriorityHigh},
		{ID: "2", ContractTitle: "NDA", PartnerName: "Vendor B", RequesterName: "Minh", Status: models.ReviewInReview, Priority: models.PriorityLow},
		{ID: "3", ContractTitle: "Dịch vụ IT", PartnerName: "Công ty C", RequesterName: "lan anh", Status: models.ReviewPending, Priority: models.PriorityLow},
	}

	tests := []struct {
		name   string
		filter RequestFilter
		want   []string
	}{
		{"no filter", RequestFilter{}, []string{"1", "2", "3"}},
		{"status", RequestFilter{Status: models.ReviewPending}, []string{"1", "3"}},
		{"priority", RequestFilter{Priority: models.PriorityLow}, []string{"2", "3"}},
		{"search title", RequestFilter{Search: "THUÊ"}, []string{"1"}},
		{"search partner", RequestFilter{Search: "vendor"}, []string{"2"}},
		{"search requester", RequestFilter{Search: "lan"}, []string{"1", "3"}},
		{"combined", RequestFilter{Status: models.ReviewPending, Priority: models.PriorityLow, Search: "công ty"}, []string{"3"}},
		{"no match", RequestFilter{Search: "zzz"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRequests(requests, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d requests, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus([]models.ReviewRequest{
		{Status: models.ReviewPending},
		{Status: models.ReviewPending},
		{Status: models.ReviewRejected},
	})
	if counts[models.ReviewPending] != 2 || counts[models.ReviewRejected] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if _, ok := counts[models.ReviewCompleted]; !ok || len(counts) != 5 {
		t.Errorf("every status must be present: %v", counts)
	}
}

func TestReviewService_AddNote(t *testing.T) {
	svc, _, _, _ := newReviewService()
	ctx := context.Background()
	req, _ := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10"})

	note, err := svc.AddNote(ctx, userActor, req.ID, "  Đã bổ sung phụ lục  ")
	if err != nil {
		t.Fatalf("AddNote() error = %v", err)
	}
	if note.Content != "Đã bổ sung phụ lục" || note.AuthorName != "Nguyễn Văn A" {
		t.Errorf("note = %+v", note)
	}

	if _, err := svc.AddNote(ctx, otherActor, req.ID, "xin chào"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user AddNote() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.AddNote(ctx, userActor, req.ID, "   "); !errors.Is(err, ErrValidation) {
		t.Errorf("blank AddNote() error = %v, want ErrValidation", err)
	}

	forged := deptreview.Encode(models.DepartmentLegal, models.DeptApproved, "")
	if _, err := svc.AddNote(ctx, userActor, req.ID, forged); !errors.Is(err, ErrValidation) {
		t.Errorf("forged review AddNote() error = %v, want ErrValidation", err)
	}
	if _, err := svc.AddNote(ctx, adminActor, req.ID, "Pháp chế đã xem"); err != nil {
		t.Errorf("admin AddNote() error = %v", err)
	}

	detail, _ := svc.GetRequest(ctx, userActor, req.ID)
	if len(detail.PlainNotes) != 2 {
		t.Errorf("plain notes = %d, want 2", len(detail.PlainNotes))
	}
	if detail.Progress.Completed != 0 {
		t.Error("plain notes must not affect department reviews")
	}
	if !strings.HasPrefix(detail.Notes[0].Content, "Đã bổ sung") {
		t.Errorf("notes must be oldest first, got %q", detail.Notes[0].Content)
	}
}

func TestReviewService_DeleteRequest(t *testing.T) {
	svc, store, _, _ := newReviewService()
	ctx := context.Background()
	req, _ := svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "HĐ", RequestDeadline: "2025-01-10"})
	_, _ = svc.AddNote(ctx, userActor, req.ID, "ghi chú")

	if err := svc.DeleteRequest(ctx, userActor, req.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("requester DeleteRequest() error = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteRequest(ctx, adminActor, req.ID); err != nil {
		t.Fatalf("DeleteRequest() error = %v", err)
	}
	if notes, _ := store.ListByRequest(ctx, req.ID); len(notes) != 0 {
		t.Errorf("notes must cascade, %d left", len(notes))
	}
	if err := svc.DeleteRequest(ctx, adminActor, req.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteRequest() error = %v, want ErrNotFound", err)
	}
}

func TestReviewService_StatusCounts(t *testing.T) {
	svc, _, _, _ := newReviewService()
	ctx := context.Background()
	_, _ = svc.CreateRequest(ctx, userActor, CreateReviewRequestInput{ContractTitle: "A", RequestDeadline: "2025-01-10"})
	_, _ = svc.CreateRequest(ctx, otherActor, CreateReviewRequestInput{ContractTitle: "B", RequestDeadline: "2025-01-10"})

	counts, err := svc.StatusCounts(ctx, adminActor)
	if err != nil {
		t.Fatalf("StatusCounts() error = %v", err)
	}
	if counts[models.ReviewPending] != 2 {
		t.Errorf("pending = %d, want 2", counts[models.ReviewPending])
	}
	if _, err := svc.StatusCounts(ctx, userActor); !errors.Is(err, ErrForbidden) {
		t.Errorf("user StatusCounts() error = %v, want ErrForbidden", err)
	}
}
