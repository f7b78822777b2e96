package complaint

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
)

// maxNotesLength bounds the free-text notes of a status change.
const maxNotesLength = 1000

// Workflow applies status transitions. Any move between known statuses is
// allowed; each one appends exactly one audit log row.
type Workflow struct {
	complaints recicla.ComplaintService
	metrics    *Metrics
}

// NewWorkflow creates a workflow over the given datastore.
func NewWorkflow(complaints recicla.ComplaintService, metrics *Metrics) *Workflow {
	return &Workflow{complaints: complaints, metrics: metrics}
}

// Transition moves the complaint to rawStatus on behalf of actor.
// Returns EINVALID for an unknown status or a disallowed move, EFORBIDDEN if
// actor is not a manager and ENOTFOUND if the complaint is not visible.
func (w *Workflow) Transition(ctx context.Context, id uuid.UUID, rawStatus string, actor *recicla.Subject, notes string) (*recicla.Complaint, error) {
	status, err := recicla.ParseComplaintStatus(strings.TrimSpace(rawStatus))
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, recicla.Unauthorized("Authentication required")
	}
	if !actor.IsManager() {
		return nil, recicla.Forbidden("Only managers can change a complaint status")
	}

	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return nil, recicla.ErrorWithFields(map[string]string{
			"notes": "must be no more than 1000 characters",
		})
	}

	current, err := w.complaints.FindComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, recicla.Invalid("Cannot change status from %s to %s", current.Status, status)
	}

	complaint, err := w.complaints.UpdateComplaintStatus(ctx, id, recicla.StatusChange{
		Status:    status,
		ChangedBy: actor.ID,
		Notes:     notes,
	})
	if err != nil {
		return nil, err
	}
	w.metrics.statusChanged(string(status))
	return complaint, nil
}
