package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"legalhub/internal/models"
	"legalhub/internal/notify"
)

// memoryStore backs the review request and note stores in tests
type memoryStore struct {
	mu       sync.Mutex
	requests map[string]*models.ReviewRequest
	notes    []models.ReviewNote
	seq      int64
	clock    time.Time
	applyErr error
	listErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		requests: make(map[string]*models.ReviewRequest),
		clock:    time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryStore) Create(_ context.Context, req *models.ReviewRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := m.tick()
	req.CreatedAt, req.UpdatedAt = now, now
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*models.ReviewRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memoryStore) List(_ context.Context, requesterID string) ([]models.ReviewRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReviewRequest
	for _, r := range m.requests {
		if requesterID == "" || r.RequesterID == requesterID {
			out = append(out, *r)
		}
	}
	slices.SortFunc(out, func(a, b models.ReviewRequest) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *memoryStore) ApplyReview(_ context.Context, id string, status models.ReviewRequestStatus, adminNotes string, notes []*models.ReviewNote) (*models.ReviewRequest, models.ReviewRequestStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applyErr != nil {
		return nil, "", m.applyErr
	}
	r, ok := m.requests[id]
	if !ok {
		return nil, "", nil
	}
	previous := r.Status
	r.Status = status
	r.AdminNotes = adminNotes
	r.UpdatedAt = m.tick()
	for _, n := range notes {
		n.ReviewRequestID = id
		m.appendLocked(n)
	}
	cp := *r
	return &cp, previous, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return false, nil
	}
	delete(m.requests, id)
	m.notes = slices.DeleteFunc(m.notes, func(n models.ReviewNote) bool { return n.ReviewRequestID == id })
	return true, nil
}

func (m *memoryStore) appendLocked(n *models.ReviewNote) {
	m.seq++
	n.ID = uuid.NewString()
	n.Seq = m.seq
	n.CreatedAt = m.tick()
	m.notes = append(m.notes, *n)
}

func (m *memoryStore) Append(_ context.Context, n *models.ReviewNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLocked(n)
	return nil
}

func (m *memoryStore) ListByRequest(_ context.Context, id string) ([]models.ReviewNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.ReviewNote
	for _, n := range m.notes {
		if n.ReviewRequestID == id {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memoryStore) ListByRequests(ctx context.Context, ids []string) (map[string][]models.ReviewNote, error) {
	out := make(map[string][]models.ReviewNote, len(ids))
	for _, id := range ids {
		notes, _ := m.ListByRequest(ctx, id)
		if len(notes) > 0 {
			out[id] = notes
		}
	}
	return out, nil
}

// recordingDispatcher captures notifications synchronously
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (d *recordingDispatcher) Dispatch(n notify.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

type recordingAudit struct {
	actions []string
}

func (a *recordingAudit) Log(_ context.Context, _ Actor, action, _, _ string) {
	a.actions = append(a.actions, action)
}

var (
	adminActor = Actor{UserID: "00000000-0000-0000-0000-00000000000a", Email: "admin@test.com", Name: "Admin Pháp chế", Role: models.RoleAdmin}
	legalActor = Actor{UserID: "00000000-0000-0000-0000-00000000000b", Email: "legal@test.com", Role: models.RoleLegal}
	userActor  = Actor{UserID: "00000000-0000-0000-0000-00000000000c", Email: "user@test.com", Name: "Nguyễn Văn A", Department: "Kinh doanh", Role: models.RoleUser}
	otherActor = Actor{UserID: "00000000-0000-0000-0000-00000000000d", Email: "other@test.com", Role: models.RoleUser}
)
