package recicla

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Complaint is a citizen report of illegal dumping at a geographic point.
type Complaint struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Description string          `json:"description"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Status      ComplaintStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Joined fields (populated by some queries)
	User   *UserSummary    `json:"user,omitempty"`
	Photos []*Photo        `json:"photos,omitempty"`
	Logs   []*ComplaintLog `json:"logs,omitempty"`
}

// Point returns the complaint location.
func (c *Complaint) Point() Point {
	return Point{Lat: c.Latitude, Lng: c.Longitude}
}

// ComplaintStatus represents the lifecycle state of a complaint.
type ComplaintStatus string

const (
	ComplaintStatusSent      ComplaintStatus = "sent"
	ComplaintStatusAnalyzing ComplaintStatus = "analyzing"
	ComplaintStatusResolved  ComplaintStatus = "resolved"
)

// ComplaintStatuses lists every known status in workflow order.
var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusSent,
	ComplaintStatusAnalyzing,
	ComplaintStatusResolved,
}

// IsValid reports whether s is one of the known statuses.
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintStatusSent, ComplaintStatusAnalyzing, ComplaintStatusResolved:
		return true
	default:
		return false
	}
}

// CanTransitionTo returns true if this status can transition to the target status.
// Any move between known statuses is allowed, backwards included.
func (s ComplaintStatus) CanTransitionTo(target ComplaintStatus) bool {
	return s.IsValid() && target.IsValid()
}

// ParseComplaintStatus converts raw input into a ComplaintStatus.
// Returns EINVALID for anything outside the known set.
func ParseComplaintStatus(raw string) (ComplaintStatus, error) {
	s := ComplaintStatus(raw)
	if !s.IsValid() {
		names := make([]string, len(ComplaintStatuses))
		for i, known := range ComplaintStatuses {
			names[i] = string(known)
		}
		return "", Invalid("Invalid status %q, must be one of %s", raw, strings.Join(names, ", "))
	}
	return s, nil
}

// ComplaintLog is an append-only audit entry recording a status change.
type ComplaintLog struct {
	ID            uuid.UUID       `json:"id"`
	ComplaintID   uuid.UUID       `json:"complaint_id"`
	Status        ComplaintStatus `json:"status"`
	ChangedBy     uuid.UUID       `json:"changed_by"`
	ChangedByName string          `json:"changed_by_name,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ComplaintService defines datastore operations for complaints and their audit log.
type ComplaintService interface {
	// FindComplaintByID retrieves a visible complaint with its user summary,
	// photos and logs.
	// Returns ENOTFOUND if the complaint does not exist or has no photos.
	FindComplaintByID(ctx context.Context, id uuid.UUID) (*Complaint, error)

	// FindComplaints retrieves visible complaints matching the filter, newest first,
	// with user summary and photos joined.
	// Returns the page of complaints and the total count of the unpaginated set.
	FindComplaints(ctx context.Context, filter ComplaintFilter) ([]*Complaint, int, error)

	// FindStatusSamples returns the status and creation time of every visible
	// complaint matching the filter. Pagination fields are ignored.
	FindStatusSamples(ctx context.Context, filter ComplaintFilter) ([]StatusSample, error)

	// CreateComplaint inserts a new complaint owned by complaint.UserID.
	// The datastore generates ID, CreatedAt and UpdatedAt.
	CreateComplaint(ctx context.Context, complaint *Complaint) error

	// UpdateComplaintStatus sets the status and appends one ComplaintLog row
	// in the same datastore transaction.
	// Returns ENOTFOUND if the complaint does not exist.
	UpdateComplaintStatus(ctx context.Context, id uuid.UUID, change StatusChange) (*Complaint, error)

	// DeleteComplaint removes a complaint and, by cascade, its photos and logs.
	// Only used to compensate a creation whose photos all failed.
	DeleteComplaint(ctx context.Context, id uuid.UUID) error
}

// ComplaintFilter defines criteria for filtering complaints.
type ComplaintFilter struct {
	ID     *uuid.UUID
	UserID *uuid.UUID
	Status *ComplaintStatus
	Box    *BoundingBox

	// Inclusive creation-time range, either bound optional.
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	// Pagination
	Offset int
	Limit  int
}

// StatusChange describes a status transition and its audit entry.
type StatusChange struct {
	Status    ComplaintStatus
	ChangedBy uuid.UUID
	Notes     string
}

// StatusSample is the minimal projection used for statistics.
type StatusSample struct {
	Status    ComplaintStatus
	CreatedAt time.Time
}

// Stats contains aggregated complaint counts.
type Stats struct {
	Total    int          `json:"total"`
	ByStatus StatusCounts `json:"by_status"`
	ByPeriod PeriodCounts `json:"by_period"`
}

// StatusCounts holds per-status counts.
type StatusCounts struct {
	Sent      int `json:"sent"`
	Analyzing int `json:"analyzing"`
	Resolved  int `json:"resolved"`
}

// Sum returns the number of complaints with a known status.
func (c StatusCounts) Sum() int {
	return c.Sent + c.Analyzing + c.Resolved
}

// PeriodCounts holds cumulative counts relative to local midnight today.
type PeriodCounts struct {
	Today int `json:"today"`
	Week  int `json:"week"`
	Month int `json:"month"`
}
