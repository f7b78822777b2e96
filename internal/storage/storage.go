// Package storage provides recicla.FileStorage implementations backed by
// local disk and S3-compatible object stores.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/reciclamais/recicla"
)

// Compile-time interface checks
var (
	_ recicla.FileStorage = (*LocalStorage)(nil)
	_ recicla.FileStorage = (*S3Storage)(nil)
)

// NewFileStorage creates a file storage instance based on the provider configuration
func NewFileStorage(ctx context.Context, logger *slog.Logger, cfg recicla.StorageConfig) (recicla.FileStorage, error) {
	switch cfg.Provider {
	case "s3":
		opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.S3Region)}
		if cfg.S3AccessKey != "" {
			opts = append(opts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
		}

		// Load AWS configuration
		awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		// Create S3 client
		s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			}
			o.UsePathStyle = cfg.S3UsePathStyle
		})

		logger.Info("initialized S3 storage",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
			slog.String("endpoint", cfg.S3Endpoint),
			slog.Bool("session_credential", cfg.S3SessionCredential),
		)

		storage := NewS3Storage(s3Client, cfg.S3Bucket, cfg.S3Region, s3BaseURL(cfg))
		if cfg.S3SessionCredential {
			storage.sessionKeys = &staticKeys{accessKey: cfg.S3AccessKey, secretKey: cfg.S3SecretKey}
		}
		return storage, nil

	case "local", "":
		storage, err := NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}

		logger.Info("initialized local storage",
			slog.String("path", cfg.LocalPath),
			slog.String("url", cfg.LocalURL),
		)

		return storage, nil

	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// s3BaseURL resolves the public URL prefix for objects in the bucket.
func s3BaseURL(cfg recicla.StorageConfig) string {
	switch {
	case cfg.S3BaseURL != "":
		return strings.TrimRight(cfg.S3BaseURL, "/")
	case cfg.S3Endpoint != "":
		return fmt.Sprintf("%s/%s", strings.TrimRight(cfg.S3Endpoint, "/"), cfg.S3Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
}

// LocalStorage implements recicla.FileStorage for local disk storage
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes the reader to basePath/key and returns the public URL.
func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	destPath, err := s.path(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	// O_EXCL: never overwrite existing evidence
	dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, reader); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return s.GetURL(key), nil
}

// Delete removes a file from local disk
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetURL returns the URL to access the file
func (s *LocalStorage) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}

// path resolves key under basePath, rejecting keys that escape it.
func (s *LocalStorage) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}
	p := filepath.Join(s.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.basePath, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return p, nil
}
