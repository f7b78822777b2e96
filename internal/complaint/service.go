// Package complaint implements the complaint lifecycle: intake, evidence
// capture, the status workflow, listing and statistics.
package complaint

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
)

// maxDescriptionLength bounds a complaint description, in characters.
const maxDescriptionLength = 1000

// Config holds the collaborators of a Service.
type Config struct {
	Complaints recicla.ComplaintService
	Photos     recicla.PhotoService
	Users      recicla.UserService
	Storage    recicla.FileStorage
	Email      recicla.EmailService

	// Area bounds accepted coordinates. Defaults to recicla.DefaultServiceArea.
	Area *recicla.ServiceArea

	// Location anchors the statistics period buckets. Defaults to time.Local.
	Location *time.Location

	Logger  *slog.Logger
	Metrics *Metrics

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service orchestrates the complaint lifecycle.
type Service struct {
	complaints recicla.ComplaintService
	users      recicla.UserService
	email      recicla.EmailService
	area       recicla.ServiceArea
	logger     *slog.Logger
	metrics    *Metrics

	uploader   *EvidenceUploader
	workflow   *Workflow
	aggregator *Aggregator
}

// New creates a Service from cfg.
func New(cfg Config) *Service {
	area := recicla.DefaultServiceArea
	if cfg.Area != nil {
		area = *cfg.Area
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	uploader := NewEvidenceUploader(cfg.Photos, cfg.Storage, logger, cfg.Metrics)
	uploader.now = now

	return &Service{
		complaints: cfg.Complaints,
		users:      cfg.Users,
		email:      cfg.Email,
		area:       area,
		logger:     logger,
		metrics:    cfg.Metrics,
		uploader:   uploader,
		workflow:   NewWorkflow(cfg.Complaints, cfg.Metrics),
		aggregator: NewAggregator(cfg.Complaints, cfg.Location, now),
	}
}

// CreateInput is the unvalidated complaint form.
type CreateInput struct {
	Description string
	Latitude    string
	Longitude   string
}

// CreateResult is a created complaint plus the photos that were skipped.
type CreateResult struct {
	Complaint *recicla.Complaint
	Skipped   []recicla.UploadSkip
}

// CreateComplaint validates the input, records the complaint and stores its
// evidence. Individual photo failures are reported in Skipped. When no photo
// is stored the complaint is deleted again and ECREATIONFAILED is returned.
func (s *Service) CreateComplaint(ctx context.Context, subject *recicla.Subject, credential string, in CreateInput, photos []recicla.RawImage) (*CreateResult, error) {
	if subject == nil {
		return nil, recicla.Unauthorized("Authentication required")
	}

	description, err := validateDescription(in.Description)
	if err != nil {
		return nil, err
	}
	point, err := s.area.Validate(in.Latitude, in.Longitude)
	if err != nil {
		return nil, err
	}
	switch {
	case len(photos) == 0:
		return nil, recicla.ErrorWithFields(map[string]string{"photos": "at least one photo is required"})
	case len(photos) > recicla.MaxPhotosPerComplaint:
		return nil, recicla.ErrorWithFields(map[string]string{
			"photos": fmt.Sprintf("at most %d photos are allowed", recicla.MaxPhotosPerComplaint),
		})
	}

	ctx = recicla.NewContextWithSubject(ctx, subject)

	complaint := &recicla.Complaint{
		UserID:      subject.ID,
		Description: description,
		Latitude:    point.Lat,
		Longitude:   point.Lng,
		Status:      recicla.ComplaintStatusSent,
	}
	if err := s.complaints.CreateComplaint(ctx, complaint); err != nil {
		s.metrics.complaintCreated("error")
		return nil, err
	}

	result := s.uploader.Upload(ctx, complaint.ID, credential, photos)
	if len(result.Stored) == 0 {
		s.metrics.complaintCreated("no_photos")
		if err := s.complaints.DeleteComplaint(ctx, complaint.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete complaint without photos",
				slog.String("complaint_id", complaint.ID.String()),
				slog.String("error", err.Error()),
			)
		}
		return nil, recicla.CreationFailed(skipFields(result.Skipped))
	}

	complaint.Photos = result.Stored
	s.metrics.complaintCreated("created")
	s.logger.InfoContext(ctx, "complaint created",
		slog.String("complaint_id", complaint.ID.String()),
		slog.String("user_id", subject.ID.String()),
		slog.Int("photos", len(result.Stored)),
		slog.Int("skipped", len(result.Skipped)),
	)

	return &CreateResult{Complaint: complaint, Skipped: result.Skipped}, nil
}

// ListComplaints returns one page of visible complaints, newest first.
func (s *Service) ListComplaints(ctx context.Context, params ListParams) (*ComplaintList, error) {
	filter, err := BuildFilter(params)
	if err != nil {
		return nil, err
	}

	complaints, total, err := s.complaints.FindComplaints(ctx, filter)
	if err != nil {
		return nil, err
	}
	if complaints == nil {
		complaints = []*recicla.Complaint{}
	}

	return &ComplaintList{
		Complaints: complaints,
		Pagination: NewPagination(params.Page, params.Limit, total),
	}, nil
}

// GetComplaint returns a complaint with its user summary, photos and logs.
func (s *Service) GetComplaint(ctx context.Context, id uuid.UUID) (*recicla.Complaint, error) {
	return s.complaints.FindComplaintByID(ctx, id)
}

// UpdateStatus transitions the complaint and notifies its owner by email.
// Notification failures are logged, not returned.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string, actor *recicla.Subject, notes string) (*recicla.Complaint, error) {
	if actor != nil {
		ctx = recicla.NewContextWithSubject(ctx, actor)
	}

	complaint, err := s.workflow.Transition(ctx, id, rawStatus, actor, notes)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "complaint status changed",
		slog.String("complaint_id", id.String()),
		slog.String("status", string(complaint.Status)),
		slog.String("changed_by", actor.ID.String()),
	)

	s.notifyOwner(ctx, complaint, strings.TrimSpace(notes))
	return complaint, nil
}

// GetStats aggregates complaint counts within r. Managers only.
func (s *Service) GetStats(ctx context.Context, actor *recicla.Subject, r StatsRange) (*recicla.Stats, error) {
	if actor == nil {
		return nil, recicla.Unauthorized("Authentication required")
	}
	if !actor.IsManager() {
		return nil, recicla.Forbidden("Only managers can view statistics")
	}

	ctx = recicla.NewContextWithSubject(ctx, actor)
	return s.aggregator.Aggregate(ctx, r)
}

func (s *Service) notifyOwner(ctx context.Context, complaint *recicla.Complaint, notes string) {
	if s.email == nil || s.users == nil {
		return
	}

	owner, err := s.users.FindUserByID(ctx, complaint.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "status email not sent, owner lookup failed",
			slog.String("complaint_id", complaint.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	if owner.Email == "" {
		return
	}

	err = s.email.SendStatusChangedEmail(ctx, owner.Email, recicla.StatusChangedEmail{
		Name:        owner.FullName,
		ComplaintID: complaint.ID.String(),
		Status:      complaint.Status,
		Notes:       notes,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "status email not sent",
			slog.String("complaint_id", complaint.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// validateDescription trims raw and checks it is 1 to 1000 printable
// characters without markup.
func validateDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)

	var msg string
	switch {
	case description == "":
		msg = "is required"
	case utf8.RuneCountInString(description) > maxDescriptionLength:
		msg = "must be no more than 1000 characters"
	case strings.ContainsAny(description, "<>"):
		msg = "must not contain markup"
	case strings.IndexFunc(description, notPrintable) >= 0:
		msg = "contains invalid characters"
	}
	if msg != "" {
		return "", recicla.ErrorWithFields(map[string]string{"description": msg})
	}
	return description, nil
}

func notPrintable(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return !unicode.IsPrint(r)
}

// skipFields maps each skipped file to its reason. Repeated names get an
// index suffix so no reason is lost.
func skipFields(skipped []recicla.UploadSkip) map[string]string {
	fields := make(map[string]string, len(skipped))
	for i, skip := range skipped {
		name := skip.Filename
		if name == "" {
			name = "photo"
		}
		if _, dup := fields[name]; dup {
			name = fmt.Sprintf("%s#%d", name, i+1)
		}
		fields[name] = skip.Reason
	}
	return fields
}
