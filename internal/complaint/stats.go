package complaint

import (
	"context"
	"strings"
	"time"

	"github.com/reciclamais/recicla"
)

// StatsRange is an inclusive creation-time range; nil bounds are open.
type StatsRange struct {
	Start *time.Time
	End   *time.Time
}

// Aggregator computes complaint statistics.
type Aggregator struct {
	complaints recicla.ComplaintService
	loc        *time.Location
	now        func() time.Time
}

// NewAggregator creates an aggregator. Period buckets are anchored at local
// midnight in loc.
func NewAggregator(complaints recicla.ComplaintService, loc *time.Location, now func() time.Time) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Aggregator{complaints: complaints, loc: loc, now: now}
}

// Aggregate counts visible complaints created within r.
func (a *Aggregator) Aggregate(ctx context.Context, r StatsRange) (*recicla.Stats, error) {
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return nil, recicla.Invalid("Start date must not be after end date")
	}

	samples, err := a.complaints.FindStatusSamples(ctx, recicla.ComplaintFilter{
		CreatedFrom: r.Start,
		CreatedTo:   r.End,
	})
	if err != nil {
		return nil, err
	}

	stats := aggregate(samples, midnight(a.now(), a.loc))
	return &stats, nil
}

func midnight(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
}

// aggregate buckets samples by status and by cumulative period relative to
// today. Unknown statuses count toward the total only.
func aggregate(samples []recicla.StatusSample, today time.Time) recicla.Stats {
	weekAgo := today.Add(-7 * 24 * time.Hour)
	monthAgo := today.Add(-30 * 24 * time.Hour)

	stats := recicla.Stats{Total: len(samples)}
	for _, s := range samples {
		switch s.Status {
		case recicla.ComplaintStatusSent:
			stats.ByStatus.Sent++
		case recicla.ComplaintStatusAnalyzing:
			stats.ByStatus.Analyzing++
		case recicla.ComplaintStatusResolved:
			stats.ByStatus.Resolved++
		}

		if !s.CreatedAt.Before(today) {
			stats.ByPeriod.Today++
		}
		if !s.CreatedAt.Before(weekAgo) {
			stats.ByPeriod.Week++
		}
		if !s.CreatedAt.Before(monthAgo) {
			stats.ByPeriod.Month++
		}
	}
	return stats
}

// ParseRangeBound parses an RFC 3339 timestamp or a YYYY-MM-DD date in loc.
// A date-only end bound covers the whole day. Empty input yields nil.
func ParseRangeBound(raw string, end bool, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return nil, recicla.Invalid("Invalid date %q, use YYYY-MM-DD or RFC 3339", raw)
	}
	if end {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
