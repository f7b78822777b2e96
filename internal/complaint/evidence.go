package complaint

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
)

// Skip reasons reported back to the caller.
const (
	reasonTooLarge      = "file exceeds the 5MB limit"
	reasonUnsupported   = "unsupported file type, use JPEG, PNG, GIF or WebP"
	reasonStorageFailed = "failed to store file"
	reasonNoURL         = "failed to resolve file URL"
	reasonRecordFailed  = "failed to save photo record"
)

// maxSanitizedName bounds the filename part of a storage key.
const maxSanitizedName = 100

// EvidenceUploader stores complaint photos one by one. A failing photo is
// recorded as skipped and never aborts the rest of the batch.
type EvidenceUploader struct {
	photos  recicla.PhotoService
	storage recicla.FileStorage
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// NewEvidenceUploader creates an uploader.
func NewEvidenceUploader(photos recicla.PhotoService, storage recicla.FileStorage, logger *slog.Logger, metrics *Metrics) *EvidenceUploader {
	return &EvidenceUploader{
		photos:  photos,
		storage: storage,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Upload validates and stores each image for complaintID. Writes are
// authorized with credential when it is not empty. Callers enforce the
// batch size limit.
func (u *EvidenceUploader) Upload(ctx context.Context, complaintID uuid.UUID, credential string, images []recicla.RawImage) recicla.UploadResult {
	if credential != "" {
		ctx = recicla.NewContextWithCredential(ctx, credential)
	}

	var result recicla.UploadResult
	for _, img := range images {
		photo, skip := u.uploadOne(ctx, complaintID, img)
		if skip != nil {
			u.logger.WarnContext(ctx, "photo skipped",
				slog.String("complaint_id", complaintID.String()),
				slog.String("filename", skip.Filename),
				slog.String("reason", skip.Reason),
				slog.Any("error", skip.Err),
			)
			result.Skipped = append(result.Skipped, *skip)
			continue
		}
		u.metrics.photoUpload(outcomeStored)
		result.Stored = append(result.Stored, photo)
	}
	return result
}

func (u *EvidenceUploader) uploadOne(ctx context.Context, complaintID uuid.UUID, img recicla.RawImage) (*recicla.Photo, *recicla.UploadSkip) {
	skip := func(outcome, reason string, err error) (*recicla.Photo, *recicla.UploadSkip) {
		u.metrics.photoUpload(outcome)
		return nil, &recicla.UploadSkip{Filename: img.Filename, Reason: reason, Err: err}
	}

	if img.Size() > recicla.MaxUploadSize {
		return skip(outcomeTooLarge, reasonTooLarge, nil)
	}

	contentType, ok := acceptedContentType(img)
	if !ok {
		return skip(outcomeUnsupportedType, reasonUnsupported, fmt.Errorf("content type %q", contentType))
	}

	key := storageKey(complaintID, u.now(), img.Filename)
	url, err := u.storage.Upload(ctx, key, bytes.NewReader(img.Data), contentType)
	if err != nil {
		return skip(outcomeStorageFailed, reasonStorageFailed, err)
	}
	if url == "" {
		url = u.storage.GetURL(key)
	}
	if url == "" {
		u.deleteBlob(ctx, key)
		return skip(outcomeNoURL, reasonNoURL, nil)
	}

	photo := &recicla.Photo{ComplaintID: complaintID, PhotoURL: url}
	if err := u.photos.CreatePhoto(ctx, photo); err != nil {
		u.deleteBlob(ctx, key)
		return skip(outcomeRecordFailed, reasonRecordFailed, err)
	}
	return photo, nil
}

// deleteBlob removes an object whose photo row could not be written.
func (u *EvidenceUploader) deleteBlob(ctx context.Context, key string) {
	if err := u.storage.Delete(ctx, key); err != nil {
		u.logger.ErrorContext(ctx, "failed to remove orphaned blob",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// acceptedContentType resolves the image's content type and reports whether
// both the type and the file extension are accepted. The payload is sniffed
// only when the client did not declare a specific type.
func acceptedContentType(img recicla.RawImage) (string, bool) {
	contentType := strings.ToLower(strings.TrimSpace(img.ContentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(img.Data).String()
	}
	return contentType, recicla.IsAcceptedImageType(contentType) && recicla.IsAcceptedImageExtension(img.Filename)
}

// storageKey builds complaints/<id>/<unix-millis>-<8 hex>-<sanitized name>.
func storageKey(complaintID uuid.UUID, now time.Time, filename string) string {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("complaints/%s/%d-%s-%s", complaintID, now.UnixMilli(), nonce, sanitizeFilename(filename))
}

// sanitizeFilename replaces every rune outside [A-Za-z0-9.-] with '_'.
func sanitizeFilename(name string) string {
	if name == "" {
		return "photo"
	}

	var b strings.Builder
	n := 0
	for _, r := range name {
		if n == maxSanitizedName {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		n++
	}
	return b.String()
}
