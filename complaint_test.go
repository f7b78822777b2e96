package recicla_test

import (
	"testing"

	"github.com/reciclamais/recicla"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComplaintStatus(t *testing.T) {
	for _, s := range recicla.ComplaintStatuses {
		got, err := recicla.ParseComplaintStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, raw := range []string{"", "SENT", "closed", "resolved "} {
		_, err := recicla.ParseComplaintStatus(raw)
		assert.Equal(t, recicla.EINVALID, recicla.ErrorCode(err), "%q", raw)
	}

	_, err := recicla.ParseComplaintStatus("closed")
	assert.Equal(t, `Invalid status "closed", must be one of sent, analyzing, resolved`, recicla.ErrorMessage(err))
}

func TestComplaintStatus_CanTransitionTo(t *testing.T) {
	// Every pair of known statuses is allowed, including backwards moves.
	for _, from := range recicla.ComplaintStatuses {
		for _, to := range recicla.ComplaintStatuses {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, recicla.ComplaintStatusSent.CanTransitionTo("closed"))
}

func TestStatusCounts_Sum(t *testing.T) {
	assert.Equal(t, 6, recicla.StatusCounts{Sent: 1, Analyzing: 2, Resolved: 3}.Sum())
}

func TestSubject_IsManager(t *testing.T) {
	var nilSubject *recicla.Subject
	assert.False(t, nilSubject.IsManager())
	assert.False(t, (&recicla.Subject{Role: recicla.RoleCitizen}).IsManager())
	assert.True(t, (&recicla.Subject{Role: recicla.RoleManager}).IsManager())
}
