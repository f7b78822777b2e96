package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/reciclamais/recicla"
)

// UUID conversions

// toPgUUID converts a google/uuid.UUID to pgtype.UUID.
func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}

// toPgUUIDs converts a slice of UUIDs for use with = ANY($n).
func toPgUUIDs(ids []uuid.UUID) []pgtype.UUID {
	result := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		result[i] = toPgUUID(id)
	}
	return result
}

// fromPgUUID converts a pgtype.UUID to google/uuid.UUID.
func fromPgUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.UUID{}
	}
	return uuid.UUID(id.Bytes)
}

// Text conversions

// toPgText converts a string to pgtype.Text.
func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// toPgTextPtr converts a string pointer to pgtype.Text.
func toPgTextPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// fromPgText converts a pgtype.Text to string.
func fromPgText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// Timestamp conversions

// toPgTimestampPtr converts a time.Time pointer to pgtype.Timestamptz.
func toPgTimestampPtr(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// fromPgTimestamp converts a pgtype.Timestamptz to time.Time.
func fromPgTimestamp(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// Row models

const complaintColumns = `c.id, c.user_id, c.description, c.latitude, c.longitude, c.status, c.created_at, c.updated_at, u.full_name`

type complaintRow struct {
	ID           pgtype.UUID
	UserID       pgtype.UUID
	Description  string
	Latitude     float64
	Longitude    float64
	Status       string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
	UserFullName pgtype.Text
}

// dest returns scan targets in complaintColumns order.
func (r *complaintRow) dest() []any {
	return []any{&r.ID, &r.UserID, &r.Description, &r.Latitude, &r.Longitude, &r.Status, &r.CreatedAt, &r.UpdatedAt, &r.UserFullName}
}

const photoColumns = `id, complaint_id, photo_url, created_at`

type photoRow struct {
	ID          pgtype.UUID
	ComplaintID pgtype.UUID
	PhotoURL    string
	CreatedAt   pgtype.Timestamptz
}

func (r *photoRow) dest() []any {
	return []any{&r.ID, &r.ComplaintID, &r.PhotoURL, &r.CreatedAt}
}

const logColumns = `l.id, l.complaint_id, l.status, l.changed_by, u.full_name, l.notes, l.created_at`

type logRow struct {
	ID            pgtype.UUID
	ComplaintID   pgtype.UUID
	Status        string
	ChangedBy     pgtype.UUID
	ChangedByName pgtype.Text
	Notes         pgtype.Text
	CreatedAt     pgtype.Timestamptz
}

func (r *logRow) dest() []any {
	return []any{&r.ID, &r.ComplaintID, &r.Status, &r.ChangedBy, &r.ChangedByName, &r.Notes, &r.CreatedAt}
}

const userColumns = `id, email, full_name, phone, user_type, created_at, updated_at`

type userRow struct {
	ID        pgtype.UUID
	Email     string
	FullName  string
	Phone     pgtype.Text
	UserType  string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

func (r *userRow) dest() []any {
	return []any{&r.ID, &r.Email, &r.FullName, &r.Phone, &r.UserType, &r.CreatedAt, &r.UpdatedAt}
}

// Domain type conversions

func toDomainComplaint(r complaintRow) *recicla.Complaint {
	c := &recicla.Complaint{
		ID:          fromPgUUID(r.ID),
		UserID:      fromPgUUID(r.UserID),
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Status:      recicla.ComplaintStatus(r.Status),
		CreatedAt:   fromPgTimestamp(r.CreatedAt),
		UpdatedAt:   fromPgTimestamp(r.UpdatedAt),
	}
	if r.UserFullName.Valid {
		c.User = &recicla.UserSummary{ID: c.UserID, FullName: r.UserFullName.String}
	}
	return c
}

func toDomainPhoto(r photoRow) *recicla.Photo {
	return &recicla.Photo{
		ID:          fromPgUUID(r.ID),
		ComplaintID: fromPgUUID(r.ComplaintID),
		PhotoURL:    r.PhotoURL,
		CreatedAt:   fromPgTimestamp(r.CreatedAt),
	}
}

func toDomainLog(r logRow) *recicla.ComplaintLog {
	return &recicla.ComplaintLog{
		ID:            fromPgUUID(r.ID),
		ComplaintID:   fromPgUUID(r.ComplaintID),
		Status:        recicla.ComplaintStatus(r.Status),
		ChangedBy:     fromPgUUID(r.ChangedBy),
		ChangedByName: fromPgText(r.ChangedByName),
		Notes:         fromPgText(r.Notes),
		CreatedAt:     fromPgTimestamp(r.CreatedAt),
	}
}

func toDomainUser(r userRow) *recicla.User {
	return &recicla.User{
		ID:        fromPgUUID(r.ID),
		Email:     r.Email,
		FullName:  r.FullName,
		Phone:     fromPgText(r.Phone),
		Role:      recicla.Role(r.UserType),
		CreatedAt: fromPgTimestamp(r.CreatedAt),
		UpdatedAt: fromPgTimestamp(r.UpdatedAt),
	}
}
