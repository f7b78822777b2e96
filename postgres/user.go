package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/reciclamais/recicla"
)

// Compile-time check that UserService implements recicla.UserService.
var _ recicla.UserService = (*UserService)(nil)

// UserService implements recicla.UserService using PostgreSQL.
type UserService struct {
	db *DB
}

func (s *UserService) FindUserByID(ctx context.Context, id uuid.UUID) (*recicla.User, error) {
	var row userRow
	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, toPgUUID(id)).Scan(row.dest()...)
	})
	if err != nil {
		return nil, translate(err, "User not found")
	}
	return toDomainUser(row), nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, upd recicla.UserUpdate) (*recicla.User, error) {
	var row userRow
	err := s.db.withTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			UPDATE users SET
				full_name = COALESCE($2, full_name),
				phone = COALESCE($3, phone),
				updated_at = now()
			WHERE id = $1
			RETURNING `+userColumns,
			toPgUUID(id), toPgTextPtr(upd.FullName), toPgTextPtr(upd.Phone),
		).Scan(row.dest()...)
	})
	if err != nil {
		return nil, translate(err, "User not found")
	}
	return toDomainUser(row), nil
}
