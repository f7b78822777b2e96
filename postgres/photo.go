package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/reciclamais/recicla"
)

// Compile-time check that PhotoService implements recicla.PhotoService.
var _ recicla.PhotoService = (*PhotoService)(nil)

// PhotoService implements recicla.PhotoService using PostgreSQL.
type PhotoService struct {
	db *DB
}

func (s *PhotoService) CreatePhoto(ctx context.Context, photo *recicla.Photo) error {
	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		var row photoRow
		err := tx.QueryRow(ctx, `
			INSERT INTO complaint_photos (complaint_id, photo_url)
			VALUES ($1, $2)
			RETURNING id, created_at`,
			toPgUUID(photo.ComplaintID), photo.PhotoURL,
		).Scan(&row.ID, &row.CreatedAt)
		if err != nil {
			return err
		}
		// Update photo with generated values
		photo.ID = fromPgUUID(row.ID)
		photo.CreatedAt = fromPgTimestamp(row.CreatedAt)
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return recicla.NotFound("Complaint not found")
		}
		return translate(err, "Complaint not found")
	}
	return nil
}

// findPhotos loads the photos of the given complaints in upload order.
func findPhotos(ctx context.Context, tx pgx.Tx, complaintIDs []uuid.UUID) ([]*recicla.Photo, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM complaint_photos
		WHERE complaint_id = ANY($1)
		ORDER BY created_at, id`, photoColumns),
		toPgUUIDs(complaintIDs))
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	var (
		row    photoRow
		photos []*recicla.Photo
	)
	_, err = pgx.ForEachRow(rows, row.dest(), func() error {
		photos = append(photos, toDomainPhoto(row))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning photos: %w", err)
	}
	return photos, nil
}
