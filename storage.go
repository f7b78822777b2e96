package recicla

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// FileStorage defines operations for file storage.
type FileStorage interface {
	// Upload uploads a file and returns its URL.
	// The key is the storage path/identifier for the file.
	// The contentType should be a valid MIME type (e.g., "image/jpeg").
	// A caller credential attached with NewContextWithCredential is used to
	// authorize the write when the provider supports it.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (url string, err error)

	// Delete removes a file from storage.
	// Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a stored file.
	GetURL(key string) string
}

// StorageConfig holds configuration for file storage.
type StorageConfig struct {
	// Provider is the storage provider ("local" or "s3").
	Provider string

	// Local storage configuration
	LocalPath string
	LocalURL  string

	// S3 storage configuration
	S3Bucket  string
	S3Region  string
	S3BaseURL string

	// S3Endpoint points the client at an S3-compatible service.
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool

	// S3SessionCredential sends the caller credential as the session token
	// of each write, letting the storage service apply per-user policies.
	S3SessionCredential bool
}

// AcceptedImageTypes lists content types accepted as evidence.
var AcceptedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// AcceptedImageExtensions lists file extensions accepted as evidence.
var AcceptedImageExtensions = []string{".jpeg", ".jpg", ".png", ".gif", ".webp"}

// MaxUploadSize is the maximum allowed file size (5MB).
const MaxUploadSize = 5 * 1024 * 1024

// MaxPhotosPerComplaint is the largest accepted evidence batch.
const MaxPhotosPerComplaint = 5

// IsAcceptedImageType checks if a content type is accepted.
func IsAcceptedImageType(contentType string) bool {
	for _, t := range AcceptedImageTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// IsAcceptedImageExtension checks if a filename carries an accepted extension.
func IsAcceptedImageExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range AcceptedImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
