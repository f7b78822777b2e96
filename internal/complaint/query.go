package complaint

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
)

// Listing defaults.
const (
	DefaultRadiusMeters = 5000
	DefaultPageLimit    = 20
	MaxPageLimit        = 100
)

// ListParams are the caller-facing listing criteria.
type ListParams struct {
	// OwnerID restricts results to one user's complaints.
	OwnerID *uuid.UUID

	// Status is a raw status value; empty means any.
	Status string

	// Center enables the geographic filter. RadiusMeters defaults to
	// DefaultRadiusMeters when zero.
	Center       *recicla.Point
	RadiusMeters float64

	// Page is 1-based. Page and Limit must be at least 1, see NormalizePage.
	Page  int
	Limit int
}

// NormalizePage maps non-positive values to 1 and caps limit at MaxPageLimit.
func NormalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// BuildFilter translates listing criteria into a datastore filter.
// The window covers rows [(page-1)*limit, page*limit-1] of the result
// ordered by creation time, newest first.
func BuildFilter(p ListParams) (recicla.ComplaintFilter, error) {
	if p.Page < 1 || p.Limit < 1 {
		return recicla.ComplaintFilter{}, recicla.Invalid("Page and limit must be at least 1")
	}

	filter := recicla.ComplaintFilter{
		UserID: p.OwnerID,
		Offset: (p.Page - 1) * p.Limit,
		Limit:  p.Limit,
	}

	if raw := strings.TrimSpace(p.Status); raw != "" {
		status, err := recicla.ParseComplaintStatus(raw)
		if err != nil {
			return recicla.ComplaintFilter{}, err
		}
		filter.Status = &status
	}

	if p.Center != nil {
		if !p.Center.IsFinite() {
			return recicla.ComplaintFilter{}, recicla.Invalid("Invalid coordinates")
		}
		radius := p.RadiusMeters
		if math.IsNaN(radius) || math.IsInf(radius, 0) {
			return recicla.ComplaintFilter{}, recicla.Invalid("Invalid radius")
		}
		if radius < 0 {
			return recicla.ComplaintFilter{}, recicla.Invalid("Radius must not be negative")
		}
		if radius == 0 {
			radius = DefaultRadiusMeters
		}
		box := recicla.BoundingBoxAround(*p.Center, radius)
		filter.Box = &box
	}

	return filter, nil
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination derives the page count as ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// ComplaintList is a page of complaints.
type ComplaintList struct {
	Complaints []*recicla.Complaint `json:"complaints"`
	Pagination Pagination           `json:"pagination"`
}
