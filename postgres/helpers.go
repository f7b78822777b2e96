package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/reciclamais/recicla"
)

// isForeignKeyViolation checks if an error is a PostgreSQL foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}

// isPolicyViolation checks if a row-level security policy rejected the write.
func isPolicyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42501" // insufficient_privilege
	}
	return false
}

// translate maps a pgx error to a domain error. Errors that are already
// domain errors pass through unchanged.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *recicla.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, pgx.ErrNoRows):
		return recicla.NotFound("%s", notFound)
	case isPolicyViolation(err):
		return recicla.Forbidden("Operation not permitted for this user")
	default:
		return recicla.Persistence(err)
	}
}
