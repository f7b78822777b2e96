package complaint

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload outcomes recorded by recicla_photo_uploads_total.
const (
	outcomeStored          = "stored"
	outcomeTooLarge        = "too_large"
	outcomeUnsupportedType = "unsupported_type"
	outcomeStorageFailed   = "storage_failed"
	outcomeNoURL           = "no_url"
	outcomeRecordFailed    = "record_failed"
)

// Metrics holds the domain counters of the complaint lifecycle.
type Metrics struct {
	photoUploads    *prometheus.CounterVec
	complaintsTotal *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		photoUploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recicla_photo_uploads_total",
				Help: "Evidence photos processed, by outcome",
			},
			[]string{"outcome"},
		),
		complaintsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recicla_complaints_created_total",
				Help: "Complaint creation attempts, by result",
			},
			[]string{"result"},
		),
		statusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recicla_complaint_status_changes_total",
				Help: "Complaint status transitions, by target status",
			},
			[]string{"status"},
		),
	}
}

func (m *Metrics) photoUpload(outcome string) {
	if m != nil {
		m.photoUploads.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) complaintCreated(result string) {
	if m != nil {
		m.complaintsTotal.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) statusChanged(status string) {
	if m != nil {
		m.statusChanges.WithLabelValues(status).Inc()
	}
}
