package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
)

// Compile-time interface check
var _ recicla.ComplaintService = (*ComplaintService)(nil)

// ComplaintService is a mock implementation of recicla.ComplaintService.
type ComplaintService struct {
	FindComplaintByIDFn     func(ctx context.Context, id uuid.UUID) (*recicla.Complaint, error)
	FindComplaintsFn        func(ctx context.Context, filter recicla.ComplaintFilter) ([]*recicla.Complaint, int, error)
	FindStatusSamplesFn     func(ctx context.Context, filter recicla.ComplaintFilter) ([]recicla.StatusSample, error)
	CreateComplaintFn       func(ctx context.Context, complaint *recicla.Complaint) error
	UpdateComplaintStatusFn func(ctx context.Context, id uuid.UUID, change recicla.StatusChange) (*recicla.Complaint, error)
	DeleteComplaintFn       func(ctx context.Context, id uuid.UUID) error
}

func (s *ComplaintService) FindComplaintByID(ctx context.Context, id uuid.UUID) (*recicla.Complaint, error) {
	if s.FindComplaintByIDFn != nil {
		return s.FindComplaintByIDFn(ctx, id)
	}
	return nil, recicla.NotFound("Complaint not found")
}

func (s *ComplaintService) FindComplaints(ctx context.Context, filter recicla.ComplaintFilter) ([]*recicla.Complaint, int, error) {
	if s.FindComplaintsFn != nil {
		return s.FindComplaintsFn(ctx, filter)
	}
	return []*recicla.Complaint{}, 0, nil
}

func (s *ComplaintService) FindStatusSamples(ctx context.Context, filter recicla.ComplaintFilter) ([]recicla.StatusSample, error) {
	if s.FindStatusSamplesFn != nil {
		return s.FindStatusSamplesFn(ctx, filter)
	}
	return []recicla.StatusSample{}, nil
}

func (s *ComplaintService) CreateComplaint(ctx context.Context, complaint *recicla.Complaint) error {
	if s.CreateComplaintFn != nil {
		return s.CreateComplaintFn(ctx, complaint)
	}
	complaint.ID = uuid.New()
	return nil
}

func (s *ComplaintService) UpdateComplaintStatus(ctx context.Context, id uuid.UUID, change recicla.StatusChange) (*recicla.Complaint, error) {
	if s.UpdateComplaintStatusFn != nil {
		return s.UpdateComplaintStatusFn(ctx, id, change)
	}
	return nil, recicla.NotFound("Complaint not found")
}

func (s *ComplaintService) DeleteComplaint(ctx context.Context, id uuid.UUID) error {
	if s.DeleteComplaintFn != nil {
		return s.DeleteComplaintFn(ctx, id)
	}
	return nil
}
