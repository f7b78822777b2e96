package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
)

// s3API is the subset of *s3.Client used by S3Storage.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// staticKeys are paired with a caller credential to build per-request
// session credentials.
type staticKeys struct {
	accessKey string
	secretKey string
}

// S3Storage implements recicla.FileStorage for S3 and S3-compatible services.
type S3Storage struct {
	client  s3API
	bucket  string
	region  string
	baseURL string // CloudFront, S3 or endpoint URL

	// sessionKeys, when set, makes writes carry the caller credential from
	// the context as the session token.
	sessionKeys *staticKeys
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(client s3API, bucket, region, baseURL string) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: baseURL,
	}
}

// Upload puts the object under key and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	}
	if id := recicla.SubjectIDFromContext(ctx); id != uuid.Nil {
		input.Metadata = map[string]string{"uploaded-by": id.String()}
	}

	if _, err := s.client.PutObject(ctx, input, s.callerCredentials(ctx)...); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.GetURL(key), nil
}

// Delete removes a file from S3
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s.callerCredentials(ctx)...)

	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// GetURL returns the URL to access the file
func (s *S3Storage) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}

func (s *S3Storage) callerCredentials(ctx context.Context) []func(*s3.Options) {
	if s.sessionKeys == nil {
		return nil
	}
	token := recicla.CredentialFromContext(ctx)
	if token == "" {
		return nil
	}
	keys := *s.sessionKeys
	return []func(*s3.Options){func(o *s3.Options) {
		o.Credentials = credentials.NewStaticCredentialsProvider(keys.accessKey, keys.secretKey, token)
	}}
}
