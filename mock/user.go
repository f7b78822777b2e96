package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
)

// Compile-time interface check
var _ recicla.UserService = (*UserService)(nil)

// UserService is a mock implementation of recicla.UserService.
type UserService struct {
	FindUserByIDFn func(ctx context.Context, id uuid.UUID) (*recicla.User, error)
	UpdateUserFn   func(ctx context.Context, id uuid.UUID, upd recicla.UserUpdate) (*recicla.User, error)
}

func (s *UserService) FindUserByID(ctx context.Context, id uuid.UUID) (*recicla.User, error) {
	if s.FindUserByIDFn != nil {
		return s.FindUserByIDFn(ctx, id)
	}
	return nil, recicla.NotFound("User not found")
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, upd recicla.UserUpdate) (*recicla.User, error) {
	if s.UpdateUserFn != nil {
		return s.UpdateUserFn(ctx, id, upd)
	}
	return nil, recicla.NotFound("User not found")
}
