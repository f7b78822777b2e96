package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
)

// Compile-time interface check
var _ recicla.PhotoService = (*PhotoService)(nil)

// PhotoService is a mock implementation of recicla.PhotoService.
type PhotoService struct {
	CreatePhotoFn func(ctx context.Context, photo *recicla.Photo) error
}

func (s *PhotoService) CreatePhoto(ctx context.Context, photo *recicla.Photo) error {
	if s.CreatePhotoFn != nil {
		return s.CreatePhotoFn(ctx, photo)
	}
	photo.ID = uuid.New()
	return nil
}
