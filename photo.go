package recicla

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Photo is an image stored as evidence for a complaint.
type Photo struct {
	ID          uuid.UUID `json:"id"`
	ComplaintID uuid.UUID `json:"complaint_id"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// PhotoService defines operations for managing photo records.
type PhotoService interface {
	// CreatePhoto creates a new photo record.
	// Note: Actual file upload is handled by FileStorage.
	// Returns ENOTFOUND if the complaint does not exist.
	CreatePhoto(ctx context.Context, photo *Photo) error
}

// RawImage is an uploaded image payload before validation.
type RawImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the payload size in bytes.
func (r RawImage) Size() int64 {
	return int64(len(r.Data))
}

// UploadSkip records why one image of a batch was not stored.
type UploadSkip struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
	Err      error  `json:"-"`
}

// UploadResult is the outcome of storing a batch of images.
type UploadResult struct {
	Stored  []*Photo
	Skipped []UploadSkip
}
