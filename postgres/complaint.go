package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/reciclamais/recicla"
)

// Compile-time check that ComplaintService implements recicla.ComplaintService.
var _ recicla.ComplaintService = (*ComplaintService)(nil)

// ComplaintService implements recicla.ComplaintService using PostgreSQL.
type ComplaintService struct {
	db *DB
}

func (s *ComplaintService) FindComplaintByID(ctx context.Context, id uuid.UUID) (*recicla.Complaint, error) {
	var complaint *recicla.Complaint
	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		w := complaintWhere(recicla.ComplaintFilter{ID: &id})
		query := fmt.Sprintf(`SELECT %s FROM complaints c LEFT JOIN users u ON u.id = c.user_id %s`,
			complaintColumns, w)

		var row complaintRow
		if err := tx.QueryRow(ctx, query, w.args...).Scan(row.dest()...); err != nil {
			return err
		}
		complaint = toDomainComplaint(row)

		photos, err := findPhotos(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		complaint.Photos = photos

		logs, err := findLogs(ctx, tx, id)
		if err != nil {
			return err
		}
		complaint.Logs = logs
		return nil
	})
	if err != nil {
		return nil, translate(err, "Complaint not found")
	}
	return complaint, nil
}

func (s *ComplaintService) FindComplaints(ctx context.Context, filter recicla.ComplaintFilter) ([]*recicla.Complaint, int, error) {
	var (
		complaints []*recicla.Complaint
		total      int
	)
	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		w := complaintWhere(filter)
		if err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM complaints c %s`, w), w.args...).Scan(&total); err != nil {
			return fmt.Errorf("counting complaints: %w", err)
		}

		query := fmt.Sprintf(`SELECT %s FROM complaints c LEFT JOIN users u ON u.id = c.user_id %s ORDER BY c.created_at DESC, c.id DESC`,
			complaintColumns, w)
		query += pageClause(w, filter)

		rows, err := tx.Query(ctx, query, w.args...)
		if err != nil {
			return fmt.Errorf("listing complaints: %w", err)
		}
		var row complaintRow
		_, err = pgx.ForEachRow(rows, row.dest(), func() error {
			complaints = append(complaints, toDomainComplaint(row))
			return nil
		})
		if err != nil {
			return fmt.Errorf("scanning complaints: %w", err)
		}

		if len(complaints) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, len(complaints))
		byID := make(map[uuid.UUID]*recicla.Complaint, len(complaints))
		for i, c := range complaints {
			ids[i] = c.ID
			byID[c.ID] = c
		}
		photos, err := findPhotos(ctx, tx, ids)
		if err != nil {
			return err
		}
		for _, p := range photos {
			if c, ok := byID[p.ComplaintID]; ok {
				c.Photos = append(c.Photos, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, translate(err, "Complaint not found")
	}
	return complaints, total, nil
}

func (s *ComplaintService) FindStatusSamples(ctx context.Context, filter recicla.ComplaintFilter) ([]recicla.StatusSample, error) {
	filter.Offset, filter.Limit = 0, 0

	var samples []recicla.StatusSample
	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		w := complaintWhere(filter)
		rows, err := tx.Query(ctx, fmt.Sprintf(`SELECT c.status, c.created_at FROM complaints c %s`, w), w.args...)
		if err != nil {
			return fmt.Errorf("selecting status samples: %w", err)
		}
		var sample recicla.StatusSample
		var status string
		_, err = pgx.ForEachRow(rows, []any{&status, &sample.CreatedAt}, func() error {
			sample.Status = recicla.ComplaintStatus(status)
			samples = append(samples, sample)
			return nil
		})
		return err
	})
	if err != nil {
		return nil, translate(err, "Complaint not found")
	}
	return samples, nil
}

func (s *ComplaintService) CreateComplaint(ctx context.Context, complaint *recicla.Complaint) error {
	if complaint.Status == "" {
		complaint.Status = recicla.ComplaintStatusSent
	}
	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		var row complaintRow
		err := tx.QueryRow(ctx, `
			INSERT INTO complaints (user_id, description, latitude, longitude, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			toPgUUID(complaint.UserID),
			complaint.Description,
			complaint.Latitude,
			complaint.Longitude,
			string(complaint.Status),
		).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
		if err != nil {
			return err
		}
		// Update complaint with generated values
		complaint.ID = fromPgUUID(row.ID)
		complaint.CreatedAt = fromPgTimestamp(row.CreatedAt)
		complaint.UpdatedAt = fromPgTimestamp(row.UpdatedAt)
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return recicla.NotFound("User profile not found")
		}
		return translate(err, "Complaint not found")
	}
	return nil
}

func (s *ComplaintService) UpdateComplaintStatus(ctx context.Context, id uuid.UUID, change recicla.StatusChange) (*recicla.Complaint, error) {
	var complaint *recicla.Complaint
	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		var row complaintRow
		err := tx.QueryRow(ctx, `
			UPDATE complaints SET status = $2, updated_at = now()
			WHERE id = $1
			RETURNING id, user_id, description, latitude, longitude, status, created_at, updated_at`,
			toPgUUID(id), string(change.Status),
		).Scan(&row.ID, &row.UserID, &row.Description, &row.Latitude, &row.Longitude, &row.Status, &row.CreatedAt, &row.UpdatedAt)
		if err != nil {
			return err
		}
		complaint = toDomainComplaint(row)

		var logRow logRow
		err = tx.QueryRow(ctx, `
			INSERT INTO complaint_logs (complaint_id, status, changed_by, notes)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			toPgUUID(id), string(change.Status), toPgUUID(change.ChangedBy), toPgText(change.Notes),
		).Scan(&logRow.ID, &logRow.CreatedAt)
		if err != nil {
			return fmt.Errorf("appending complaint log: %w", err)
		}
		complaint.Logs = []*recicla.ComplaintLog{{
			ID:          fromPgUUID(logRow.ID),
			ComplaintID: id,
			Status:      change.Status,
			ChangedBy:   change.ChangedBy,
			Notes:       change.Notes,
			CreatedAt:   fromPgTimestamp(logRow.CreatedAt),
		}}
		return nil
	})
	if err != nil {
		return nil, translate(err, "Complaint not found")
	}
	return complaint, nil
}

func (s *ComplaintService) DeleteComplaint(ctx context.Context, id uuid.UUID) error {
	return translate(s.db.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, toPgUUID(id))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	}), "Complaint not found")
}

// findLogs loads the audit trail of one complaint, oldest first.
func findLogs(ctx context.Context, tx pgx.Tx, complaintID uuid.UUID) ([]*recicla.ComplaintLog, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM complaint_logs l
		LEFT JOIN users u ON u.id = l.changed_by
		WHERE l.complaint_id = $1
		ORDER BY l.created_at, l.id`, logColumns),
		toPgUUID(complaintID))
	if err != nil {
		return nil, fmt.Errorf("listing complaint logs: %w", err)
	}
	var (
		row  logRow
		logs []*recicla.ComplaintLog
	)
	_, err = pgx.ForEachRow(rows, row.dest(), func() error {
		logs = append(logs, toDomainLog(row))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning complaint logs: %w", err)
	}
	return logs, nil
}
