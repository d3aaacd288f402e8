package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"legalhub/internal/deptreview"
	"legalhub/internal/models"
	"legalhub/internal/testutil"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestReviewRequestRepository_Lifecycle(t *testing.T) {
	tc := testutil.SetupPostgres(t)
	fx := testutil.SetupFixtures(t, tc.DB)
	ctx := context.Background()

	requests := NewReviewRequestRepository(tc.DB)
	notes := NewReviewNoteRepository(tc.DB)

	req := &models.ReviewRequest{
		ContractTitle:   "Hợp đồng thuê văn phòng",
		PartnerName:     "Công ty ABC",
		ContractValue:   120000000,
		RequesterID:     fx.Requester.UserID,
		RequesterName:   fx.Requester.FullName,
		Department:      fx.Requester.Department,
		Priority:        models.PriorityMedium,
		RequestDeadline: mustDate(t, "2025-01-10"),
		Status:          models.ReviewPending,
	}
	if err := requests.Create(ctx, req); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := requests.GetByID(ctx, req.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID() = %v, %v", got, err)
	}
	if got.RequestDeadline.String() != "2025-01-10" || got.ReviewDeadline != nil {
		t.Errorf("dates not round-tripped: %+v", got)
	}

	reviewNote := &models.ReviewNote{
		AuthorID:   fx.Admin.UserID,
		AuthorName: fx.Admin.FullName,
		Content:    deptreview.Encode(models.DepartmentFinance, models.DeptApproved, "Giá hợp lý"),
	}
	plain := &models.ReviewNote{AuthorID: fx.Admin.UserID, AuthorName: fx.Admin.FullName, Content: "Đã nhận hồ sơ"}

	updated, previous, err := requests.ApplyReview(ctx, req.ID, models.ReviewInReview, "Đang xem xét", []*models.ReviewNote{reviewNote, plain})
	if err != nil {
		t.Fatalf("ApplyReview() error = %v", err)
	}
	if previous != models.ReviewPending || updated.Status != models.ReviewInReview {
		t.Errorf("previous = %s, updated = %s", previous, updated.Status)
	}
	if updated.UpdatedAt.Before(req.UpdatedAt) {
		t.Error("updated_at should not move backwards")
	}
	if reviewNote.Seq >= plain.Seq {
		t.Errorf("notes should be sequenced in append order: %d, %d", reviewNote.Seq, plain.Seq)
	}

	history, err := notes.ListByRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("ListByRequest() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(history))
	}
	reviews := deptreview.Extract(history)
	if reviews[models.DepartmentFinance].Status != models.DeptApproved {
		t.Errorf("finance = %+v", reviews[models.DepartmentFinance])
	}

	byReq, err := notes.ListByRequests(ctx, []string{req.ID})
	if err != nil || len(byReq[req.ID]) != 2 {
		t.Errorf("ListByRequests() = %v, %v", byReq, err)
	}

	missing, _, err := requests.ApplyReview(ctx, "00000000-0000-0000-0000-000000000000", models.ReviewCompleted, "", nil)
	if err != nil || missing != nil {
		t.Errorf("ApplyReview(missing) = %v, %v", missing, err)
	}

	mine, err := requests.List(ctx, fx.Requester.UserID)
	if err != nil || len(mine) != 1 {
		t.Errorf("List(requester) = %d, %v", len(mine), err)
	}
	theirs, err := requests.List(ctx, fx.Other.UserID)
	if err != nil || len(theirs) != 0 {
		t.Errorf("List(other) = %d, %v", len(theirs), err)
	}

	due, err := requests.ListOpenDueBetween(ctx, mustDate(t, "2025-01-01"), mustDate(t, "2025-01-31"))
	if err != nil || len(due) != 1 {
		t.Errorf("ListOpenDueBetween() = %d, %v", len(due), err)
	}

	deleted, err := requests.Delete(ctx, req.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v", deleted, err)
	}
	left, err := notes.ListByRequest(ctx, req.ID)
	if err != nil || len(left) != 0 {
		t.Errorf("notes should be gone after delete, got %d (%v)", len(left), err)
	}
	deleted, err = requests.Delete(ctx, req.ID)
	if err != nil || deleted {
		t.Errorf("second Delete() = %v, %v", deleted, err)
	}
}

func TestContractAndCategoryRepositories(t *testing.T) {
	tc := testutil.SetupPostgres(t)
	fx := testutil.SetupFixtures(t, tc.DB)
	ctx := context.Background()

	contracts := NewContractRepository(tc.DB)
	categories := NewCategoryRepository(tc.DB)

	expiry := models.NewDate(time.Now().AddDate(0, 0, 10))
	catID := fx.Categories[0].ID
	c := &models.Contract{
		CategoryID:   &catID,
		Title:        "Hợp đồng thuê kho",
		ContractType: models.ContractTypeLease,
		PartnerName:  "Kho Vận XYZ",
		Status:       models.ContractSigned,
		ExpiryDate:   &expiry,
		Value:        50000000,
		RiskLevel:    models.RiskHigh,
		CreatedBy:    fx.Admin.UserID,
	}
	if err := contracts.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	list, err := contracts.List(ctx, ContractFilter{Search: "kho", RiskLevel: models.RiskHigh})
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %d, %v", len(list), err)
	}
	if list[0].ExpiryDate == nil || list[0].ExpiryDate.String() != expiry.String() {
		t.Errorf("expiry = %v, want %s", list[0].ExpiryDate, expiry)
	}

	c.Status = models.ContractExpired
	ok, err := contracts.Update(ctx, c)
	if err != nil || !ok {
		t.Fatalf("Update() = %v, %v", ok, err)
	}

	cats, err := categories.List(ctx)
	if err != nil {
		t.Fatalf("categories.List() error = %v", err)
	}
	var counted bool
	for _, cat := range cats {
		if cat.ID == catID && cat.ContractCount == 1 {
			counted = true
		}
	}
	if !counted {
		t.Errorf("expected category %s to count 1 contract: %+v", catID, cats)
	}

	dup := &models.Category{Name: fx.Categories[0].Name}
	if err := categories.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate category error = %v, want ErrDuplicate", err)
	}

	if ok, err := categories.Delete(ctx, catID); err != nil || !ok {
		t.Fatalf("categories.Delete() = %v, %v", ok, err)
	}
	after, err := contracts.GetByID(ctx, c.ID)
	if err != nil || after == nil || after.CategoryID != nil {
		t.Errorf("contract should survive category delete uncategorised: %+v, %v", after, err)
	}
}

func TestClauseAndProfileRepositories(t *testing.T) {
	tc := testutil.SetupPostgres(t)
	fx := testutil.SetupFixtures(t, tc.DB)
	ctx := context.Background()

	clauses := NewClauseRepository(tc.DB)
	got, err := clauses.ListByIDs(ctx, []string{fx.Clauses[1].ID})
	if err != nil || len(got) != 1 || got[0].Name != fx.Clauses[1].Name {
		t.Errorf("ListByIDs() = %+v, %v", got, err)
	}
	filtered, err := clauses.List(ctx, ClauseFilter{RiskLevel: models.RiskMedium})
	if err != nil || len(filtered) != 1 {
		t.Errorf("List(medium) = %d, %v", len(filtered), err)
	}

	profiles := NewProfileRepository(tc.DB)
	p, err := profiles.Ensure(ctx, "11111111-1111-1111-1111-111111111111", "new@test.com", "Lê Văn C", models.RoleUser)
	if err != nil || p == nil || p.Role != models.RoleUser {
		t.Fatalf("Ensure() = %+v, %v", p, err)
	}
	p, err = profiles.Ensure(ctx, p.UserID, "changed@test.com", "Other Name", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Ensure() second call error = %v", err)
	}
	if p.Email != "changed@test.com" || p.FullName != "Lê Văn C" || p.Role != models.RoleUser {
		t.Errorf("Ensure() should refresh email only: %+v", p)
	}

	admins, err := profiles.ListAdminLike(ctx)
	if err != nil || len(admins) != 2 {
		t.Errorf("ListAdminLike() = %d, %v", len(admins), err)
	}

	email, err := profiles.GetEmail(ctx, fx.Requester.UserID)
	if err != nil || email != fx.Requester.Email {
		t.Errorf("GetEmail() = %q, %v", email, err)
	}

	audit := NewAuditRepository(tc.DB)
	uid := fx.Admin.UserID
	if err := audit.Create(ctx, &models.AuditLog{UserID: &uid, Action: "review.status", Resource: "review_request"}); err != nil {
		t.Fatalf("audit.Create() error = %v", err)
	}
	logs, err := audit.List(ctx, uid, 10, 0)
	if err != nil || len(logs) != 1 || logs[0].UserEmail == nil || *logs[0].UserEmail != fx.Admin.Email {
		t.Errorf("audit.List() = %+v, %v", logs, err)
	}
}
