package postgres

import (
	"fmt"
	"strings"

	"github.com/reciclamais/recicla"
)

// visibleComplaint restricts reads to complaints holding at least one photo.
const visibleComplaint = `EXISTS (SELECT 1 FROM complaint_photos p WHERE p.complaint_id = c.id)`

// where accumulates AND-ed SQL conditions with numbered placeholders.
type where struct {
	conds []string
	args  []any
}

// add appends a condition. Each %d verb in format is replaced by the
// placeholder number of the matching argument.
func (w *where) add(format string, args ...any) {
	nums := make([]any, len(args))
	for i, arg := range args {
		w.args = append(w.args, arg)
		nums[i] = len(w.args)
	}
	w.conds = append(w.conds, fmt.Sprintf(format, nums...))
}

// next returns the placeholder number the next argument would receive.
func (w *where) next() int {
	return len(w.args) + 1
}

// String renders the WHERE clause, or an empty string when there are no conditions.
func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// complaintWhere translates a filter into conditions over the alias c.
func complaintWhere(filter recicla.ComplaintFilter) *where {
	w := &where{}
	w.add(visibleComplaint)

	if filter.ID != nil {
		w.add("c.id = $%d", toPgUUID(*filter.ID))
	}
	if filter.UserID != nil {
		w.add("c.user_id = $%d", toPgUUID(*filter.UserID))
	}
	if filter.Status != nil {
		w.add("c.status = $%d", string(*filter.Status))
	}
	if b := filter.Box; b != nil {
		w.add("c.latitude BETWEEN $%d AND $%d", b.MinLat, b.MaxLat)
		w.add("c.longitude BETWEEN $%d AND $%d", b.MinLng, b.MaxLng)
	}
	if filter.CreatedFrom != nil {
		w.add("c.created_at >= $%d", toPgTimestampPtr(filter.CreatedFrom))
	}
	if filter.CreatedTo != nil {
		w.add("c.created_at <= $%d", toPgTimestampPtr(filter.CreatedTo))
	}
	return w
}

// pageClause renders LIMIT/OFFSET for the filter and appends its arguments.
// A zero limit means no limit.
func pageClause(w *where, filter recicla.ComplaintFilter) string {
	var b strings.Builder
	if filter.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT $%d", w.next())
		w.args = append(w.args, filter.Limit)
	}
	if filter.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET $%d", w.next())
		w.args = append(w.args, filter.Offset)
	}
	return b.String()
}
