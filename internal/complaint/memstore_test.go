package complaint

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
)

// memStore is an in-memory datastore implementing ComplaintService and
// PhotoService with the same visibility and ordering rules as postgres.
type memStore struct {
	mu         sync.Mutex
	complaints map[uuid.UUID]*recicla.Complaint
	photos     map[uuid.UUID][]*recicla.Photo
	logs       map[uuid.UUID][]*recicla.ComplaintLog
	now        func() time.Time

	// failPhotoInsert makes CreatePhoto fail for the n-th call (1-based).
	failPhotoInsert map[int]error
	photoInserts    int
}

var (
	_ recicla.ComplaintService = (*memStore)(nil)
	_ recicla.PhotoService     = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		complaints: make(map[uuid.UUID]*recicla.Complaint),
		photos:     make(map[uuid.UUID][]*recicla.Photo),
		logs:       make(map[uuid.UUID][]*recicla.ComplaintLog),
		now:        time.Now,
	}
}

// seed inserts a visible complaint with one photo.
func (m *memStore) seed(c recicla.Complaint) *recicla.Complaint {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = recicla.ComplaintStatusSent
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.now()
	}
	c.UpdatedAt = c.CreatedAt
	stored := c
	m.complaints[c.ID] = &stored
	m.photos[c.ID] = append(m.photos[c.ID], &recicla.Photo{
		ID:          uuid.New(),
		ComplaintID: c.ID,
		PhotoURL:    "https://cdn.example.com/" + c.ID.String() + ".jpg",
		CreatedAt:   c.CreatedAt,
	})
	return &stored
}

func (m *memStore) exists(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.complaints[id]
	return ok
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.complaints)
}

func (m *memStore) logCount(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs[id])
}

func (m *memStore) status(id uuid.UUID) recicla.ComplaintStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.complaints[id].Status
}

func (m *memStore) visible(c *recicla.Complaint) bool {
	return len(m.photos[c.ID]) > 0
}

func (m *memStore) matches(c *recicla.Complaint, f recicla.ComplaintFilter) bool {
	if !m.visible(c) {
		return false
	}
	if f.ID != nil && c.ID != *f.ID {
		return false
	}
	if f.UserID != nil && c.UserID != *f.UserID {
		return false
	}
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	if f.Box != nil && !f.Box.Contains(c.Point()) {
		return false
	}
	if f.CreatedFrom != nil && c.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && c.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func (m *memStore) filtered(f recicla.ComplaintFilter) []*recicla.Complaint {
	var out []*recicla.Complaint
	for _, c := range m.complaints {
		if m.matches(c, f) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *memStore) FindComplaintByID(ctx context.Context, id uuid.UUID) (*recicla.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.filtered(recicla.ComplaintFilter{ID: &id})
	if len(rows) == 0 {
		return nil, recicla.NotFound("Complaint not found")
	}
	c := *rows[0]
	c.Photos = m.photos[id]
	c.Logs = m.logs[id]
	return &c, nil
}

func (m *memStore) FindComplaints(ctx context.Context, f recicla.ComplaintFilter) ([]*recicla.Complaint, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.filtered(f)
	total := len(rows)
	if f.Offset >= len(rows) {
		rows = nil
	} else {
		rows = rows[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(rows) {
		rows = rows[:f.Limit]
	}

	out := make([]*recicla.Complaint, len(rows))
	for i, r := range rows {
		c := *r
		c.Photos = m.photos[c.ID]
		out[i] = &c
	}
	return out, total, nil
}

func (m *memStore) FindStatusSamples(ctx context.Context, f recicla.ComplaintFilter) ([]recicla.StatusSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f.Offset, f.Limit = 0, 0
	var samples []recicla.StatusSample
	for _, c := range m.filtered(f) {
		samples = append(samples, recicla.StatusSample{Status: c.Status, CreatedAt: c.CreatedAt})
	}
	return samples, nil
}

func (m *memStore) CreateComplaint(ctx context.Context, c *recicla.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = uuid.New()
	c.CreatedAt = m.now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	m.complaints[c.ID] = &stored
	return nil
}

func (m *memStore) UpdateComplaintStatus(ctx context.Context, id uuid.UUID, change recicla.StatusChange) (*recicla.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.complaints[id]
	if !ok {
		return nil, recicla.NotFound("Complaint not found")
	}
	c.Status = change.Status
	c.UpdatedAt = m.now()
	m.logs[id] = append(m.logs[id], &recicla.ComplaintLog{
		ID:          uuid.New(),
		ComplaintID: id,
		Status:      change.Status,
		ChangedBy:   change.ChangedBy,
		Notes:       change.Notes,
		CreatedAt:   c.UpdatedAt,
	})
	out := *c
	return &out, nil
}

func (m *memStore) DeleteComplaint(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.complaints[id]; !ok {
		return recicla.NotFound("Complaint not found")
	}
	delete(m.complaints, id)
	delete(m.photos, id)
	delete(m.logs, id)
	return nil
}

func (m *memStore) photosOf(complaintID uuid.UUID) []*recicla.Photo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.photos[complaintID]
}

func (m *memStore) CreatePhoto(ctx context.Context, p *recicla.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.photoInserts++
	if err := m.failPhotoInsert[m.photoInserts]; err != nil {
		return err
	}
	if _, ok := m.complaints[p.ComplaintID]; !ok {
		return recicla.NotFound("Complaint not found")
	}
	p.ID = uuid.New()
	p.CreatedAt = m.now()
	m.photos[p.ComplaintID] = append(m.photos[p.ComplaintID], p)
	return nil
}
