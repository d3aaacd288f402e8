package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"legalhub/internal/email"
	"legalhub/internal/models"
	"legalhub/internal/repository"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"0 8 * * *", false},
		{"30 9 * * 1", false},
		{"*/5 * * * *", false},
		{"15 */2 * * *", false},
		{"0 8 * *", true},
		{"60 8 * * *", true},
		{"0 24 * * *", true},
		{"0 8 * * 7", true},
		{"0 8 1 * *", true},
		{"*/0 * * * *", true},
	}

	for _, tt := range tests {
		if _, err := parseSchedule(tt.expr); (err != nil) != tt.wantErr {
			t.Errorf("parseSchedule(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
		}
	}
}

func TestScheduleNext(t *testing.T) {
	// Wednesday
	from := time.Date(2025, 1, 8, 10, 17, 30, 0, time.UTC)

	tests := []struct {
		expr string
		want time.Time
	}{
		{"0 8 * * *", time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC)},
		{"0 12 * * *", time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)},
		{"30 9 * * 1", time.Date(2025, 1, 13, 9, 30, 0, 0, time.UTC)},
		{"0 11 * * 3", time.Date(2025, 1, 8, 11, 0, 0, 0, time.UTC)},
		{"0 9 * * 3", time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)},
		{"*/5 * * * *", time.Date(2025, 1, 8, 10, 20, 0, 0, time.UTC)},
		{"*/7 * * * *", time.Date(2025, 1, 8, 10, 21, 0, 0, time.UTC)},
		{"*/45 * * * *", time.Date(2025, 1, 8, 10, 45, 0, 0, time.UTC)},
		{"15 */4 * * *", time.Date(2025, 1, 8, 12, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		s, err := parseSchedule(tt.expr)
		if err != nil {
			t.Fatalf("parseSchedule(%q) error = %v", tt.expr, err)
		}
		if got := s.next(from); !got.Equal(tt.want) {
			t.Errorf("next(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestScheduleNext_MinuteStepAlignment(t *testing.T) {
	tests := []struct {
		expr string
		from time.Time
		want time.Time
	}{
		{"*/5 * * * *", time.Date(2025, 1, 8, 10, 20, 0, 0, time.UTC), time.Date(2025, 1, 8, 10, 25, 0, 0, time.UTC)},
		{"*/7 * * * *", time.Date(2025, 1, 8, 10, 57, 10, 0, time.UTC), time.Date(2025, 1, 8, 11, 0, 0, 0, time.UTC)},
		{"*/15 * * * *", time.Date(2025, 1, 8, 23, 50, 0, 0, time.UTC), time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		s, err := parseSchedule(tt.expr)
		if err != nil {
			t.Fatalf("parseSchedule(%q) error = %v", tt.expr, err)
		}
		if got := s.next(tt.from); !got.Equal(tt.want) {
			t.Errorf("next(%q, %v) = %v, want %v", tt.expr, tt.from, got, tt.want)
		}
	}
}

func TestScheduler_StopWithoutRuns(t *testing.T) {
	s := New()
	if err := s.Add("0 8 * * *", "digest", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("bad", "x", nil); err == nil {
		t.Error("expected error for invalid expression")
	}

	done := make(chan struct{})
	go func() { s.Stop(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}
	s.Stop()
}

type stubRequests []models.ReviewRequest

func (s stubRequests) ListOpenDueBetween(context.Context, models.Date, models.Date) ([]models.ReviewRequest, error) {
	return s, nil
}

type stubContracts []models.Contract

func (s stubContracts) List(context.Context, repository.ContractFilter) ([]models.Contract, error) {
	return s, nil
}

type stubRecipients []models.Profile

func (s stubRecipients) ListAdminLike(context.Context) ([]models.Profile, error) {
	return s, nil
}

type captureSender struct {
	mu   sync.Mutex
	sent []email.Message
}

func (c *captureSender) Enabled() bool { return true }

func (c *captureSender) Send(_ context.Context, msg email.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func mustDate(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDeadlineDigest_Run(t *testing.T) {
	expiry := mustDate("2025-01-09")
	requests := stubRequests{
		{ID: "r2", ContractTitle: "HĐ B", Status: models.ReviewInReview, RequestDeadline: mustDate("2025-01-10")},
		{ID: "r1", ContractTitle: "HĐ A", Status: models.ReviewPending, RequestDeadline: mustDate("2025-01-06")},
	}
	contracts := stubContracts{{ID: "c1", Title: "HĐ thuê kho", Status: models.ContractSigned, ExpiryDate: &expiry}}
	recipients := stubRecipients{{Email: "legal@test.com"}, {Email: ""}, {Email: "admin@test.com"}}
	sender := &captureSender{}

	d := NewDeadlineDigest(requests, contracts, recipients, sender, 7, "https://legalhub.test")
	d.now = func() time.Time { return time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC) }

	digest, err := d.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(digest.Requests) != 2 || digest.Requests[0].Title != "HĐ A" || digest.Requests[0].DaysRemaining != 1 {
		t.Errorf("requests = %+v", digest.Requests)
	}
	if len(digest.Contracts) != 1 || digest.Contracts[0].DaysRemaining != 4 || digest.Contracts[0].Link != "https://legalhub.test/contracts/c1" {
		t.Errorf("contracts = %+v", digest.Contracts)
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if to := sender.sent[0].To; len(to) != 2 {
		t.Errorf("recipients = %v, want the two with e-mail", to)
	}
}

func TestDeadlineDigest_NothingDue(t *testing.T) {
	sender := &captureSender{}
	d := NewDeadlineDigest(stubRequests{}, stubContracts{}, stubRecipients{{Email: "a@test.com"}}, sender, 7, "")
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("empty digest must not be sent")
	}
}
