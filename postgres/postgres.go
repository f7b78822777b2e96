// Package postgres provides PostgreSQL implementations of domain service interfaces.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/reciclamais/recicla"
)

// DB wraps the database connection pool and exposes domain services.
type DB struct {
	pool *pgxpool.Pool

	// Domain services (initialized in NewDB)
	ComplaintService recicla.ComplaintService
	PhotoService     recicla.PhotoService
	UserService      recicla.UserService
}

// NewDB creates a new database wrapper with all services initialized.
func NewDB(pool *pgxpool.Pool) *DB {
	db := &DB{pool: pool}

	// Initialize services with reference back to DB
	db.ComplaintService = &ComplaintService{db: db}
	db.PhotoService = &PhotoService{db: db}
	db.UserService = &UserService{db: db}

	return db
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// withTx runs fn inside a transaction scoped to the subject found in ctx.
// Row-level security policies read the subject from the transaction-local
// settings app.subject_id and app.subject_role.
func (db *DB) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		if err := setSubject(ctx, tx); err != nil {
			return err
		}
		return fn(tx)
	})
}

func setSubject(ctx context.Context, tx pgx.Tx) error {
	var id, role string
	if subject := recicla.SubjectFromContext(ctx); subject != nil {
		id = subject.ID.String()
		role = string(subject.Role)
	}
	_, err := tx.Exec(ctx,
		`SELECT set_config('app.subject_id', $1, true), set_config('app.subject_role', $2, true)`,
		id, role)
	if err != nil {
		return fmt.Errorf("setting subject: %w", err)
	}
	return nil
}
