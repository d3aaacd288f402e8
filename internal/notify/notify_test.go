package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"legalhub/internal/email"
)

type fakeSender struct {
	enabled bool
	err     error
	mu      sync.Mutex
	sent    []email.Message
}

func (s *fakeSender) Enabled() bool { return s.enabled }

func (s *fakeSender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

type fakeLookup map[string]string

func (l fakeLookup) GetEmail(_ context.Context, id string) (string, error) {
	return l[id], nil
}

func TestEmailNotifier_Notify(t *testing.T) {
	sender := &fakeSender{enabled: true}
	n := NewEmailNotifier(sender, fakeLookup{"u1": "u1@test.com"}, "https://legalhub.test/")
	n.nowFunc = func() time.Time { return time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC) }

	sent, err := n.Notify(context.Background(), Notification{
		RequestID:      "r1",
		ContractTitle:  "Hợp đồng thuê văn phòng",
		NewStatusLabel: "Đang review",
		ActorName:      "Pháp chế",
		RequesterID:    "u1",
	})
	if err != nil || !sent {
		t.Fatalf("Notify() = %v, %v; want true, nil", sent, err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.Subject != "[LegalHub] Cập nhật: Hợp đồng thuê văn phòng - Đang review" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "https://legalhub.test/review-requests/r1") {
		t.Error("expected request link in body")
	}
}

func TestEmailNotifier_Skips(t *testing.T) {
	tests := []struct {
		name   string
		sender *fakeSender
		lookup fakeLookup
	}{
		{"sender disabled", &fakeSender{enabled: false}, fakeLookup{"u1": "u1@test.com"}},
		{"unknown email", &fakeSender{enabled: true}, fakeLookup{}},
		{"not configured at send", &fakeSender{enabled: true, err: email.ErrNotConfigured}, fakeLookup{"u1": "u1@test.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewEmailNotifier(tt.sender, tt.lookup, "")
			sent, err := n.Notify(context.Background(), Notification{RequestID: "r1", RequesterID: "u1"})
			if err != nil || sent {
				t.Errorf("Notify() = %v, %v; want false, nil", sent, err)
			}
		})
	}
}

func TestEmailNotifier_SendError(t *testing.T) {
	n := NewEmailNotifier(&fakeSender{enabled: true, err: errors.New("smtp down")}, fakeLookup{"u1": "a@test.com"}, "")
	if _, err := n.Notify(context.Background(), Notification{RequesterID: "u1"}); err == nil {
		t.Error("expected send error to be returned")
	}
}

type countingNotifier struct {
	calls atomic.Int32
	fn    func(ctx context.Context) (bool, error)
}

func (c *countingNotifier) Notify(ctx context.Context, _ Notification) (bool, error) {
	c.calls.Add(1)
	if c.fn != nil {
		return c.fn(ctx)
	}
	return true, nil
}

func TestDispatcher_RunsEachNotificationOnce(t *testing.T) {
	c := &countingNotifier{}
	d := NewDispatcher(c, time.Second)
	for i := 0; i < 5; i++ {
		d.Dispatch(Notification{RequestID: "r"})
	}
	d.Wait()
	if got := c.calls.Load(); got != 5 {
		t.Errorf("calls = %d, want 5", got)
	}
}

func TestDispatcher_TimeoutAndPanic(t *testing.T) {
	var sawDeadline atomic.Bool
	slow := &countingNotifier{fn: func(ctx context.Context) (bool, error) {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return false, ctx.Err()
	}}
	d := NewDispatcher(slow, 20*time.Millisecond)
	d.Dispatch(Notification{RequestID: "slow"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sawDeadline.Load() {
		t.Error("notifier context should hit its deadline")
	}

	panicky := &countingNotifier{fn: func(context.Context) (bool, error) { panic("boom") }}
	pd := NewDispatcher(panicky, time.Second)
	pd.Dispatch(Notification{RequestID: "p"})
	pd.Wait()
	if panicky.calls.Load() != 1 {
		t.Error("panicking notifier should have been called once")
	}
}

func TestDispatcher_NilSafe(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Notification{})
	NewDispatcher(nil, 0).Dispatch(Notification{})
}
