package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/reciclamais/recicla"
	"github.com/reciclamais/recicla/internal/auth"
	"github.com/reciclamais/recicla/internal/complaint"
	"github.com/reciclamais/recicla/internal/email"
	"github.com/reciclamais/recicla/internal/storage"
	"github.com/reciclamais/recicla/postgres"
)

// Services holds all application services.
type Services struct {
	DB          *postgres.DB
	UserService recicla.UserService
	Identity    *auth.Verifier
	Complaints  *complaint.Service
	Location    *time.Location
}

// initServices initializes all application services.
func initServices(ctx context.Context, pool *pgxpool.Pool, cfg *Config, reg prometheus.Registerer, logger *slog.Logger) (*Services, error) {
	// Initialize database wrapper with all domain services
	db := postgres.NewDB(pool)
	logger.Info("database services initialized")

	fileStorage, err := initFileStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("file storage initialized", slog.String("provider", cfg.StorageProvider))

	emailService := initEmailService(cfg, logger)
	logger.Info("email service initialized", slog.String("provider", cfg.EmailProvider))

	verifier := auth.NewVerifier(auth.Config{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		Leeway:     cfg.JWTLeeway,
		ProfileTTL: cfg.ProfileCacheTTL,
	}, db.UserService, logger)

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}

	area := cfg.ServiceArea
	complaints := complaint.New(complaint.Config{
		Complaints: db.ComplaintService,
		Photos:     db.PhotoService,
		Users:      db.UserService,
		Storage:    fileStorage,
		Email:      emailService,
		Area:       &area,
		Location:   location,
		Logger:     logger,
		Metrics:    complaint.NewMetrics(reg),
	})
	logger.Info("complaint service initialized",
		slog.String("service_area", area.Name),
		slog.String("timezone", location.String()))

	return &Services{
		DB:          db,
		UserService: db.UserService,
		Identity:    verifier,
		Complaints:  complaints,
		Location:    location,
	}, nil
}

// initFileStorage creates the appropriate file storage implementation.
func initFileStorage(ctx context.Context, cfg *Config, logger *slog.Logger) (recicla.FileStorage, error) {
	logger.Debug("storage service configuration",
		slog.String("provider", cfg.StorageProvider),
		slog.String("local_path", cfg.StorageLocalPath),
		slog.String("s3_bucket", cfg.StorageS3Bucket),
		slog.String("s3_region", cfg.StorageS3Region))

	storageCfg := recicla.StorageConfig{
		Provider:            cfg.StorageProvider,
		LocalPath:           cfg.StorageLocalPath,
		LocalURL:            cfg.StorageLocalURL,
		S3Bucket:            cfg.StorageS3Bucket,
		S3Region:            cfg.StorageS3Region,
		S3BaseURL:           cfg.StorageS3BaseURL,
		S3Endpoint:          cfg.StorageS3Endpoint,
		S3AccessKey:         cfg.StorageS3AccessKey,
		S3SecretKey:         cfg.StorageS3SecretKey,
		S3UsePathStyle:      cfg.StorageS3UsePathStyle,
		S3SessionCredential: cfg.StorageSessionCredential,
	}

	return storage.NewFileStorage(ctx, logger, storageCfg)
}

// initEmailService creates the appropriate email service implementation.
func initEmailService(cfg *Config, logger *slog.Logger) recicla.EmailService {
	logger.Debug("email service configuration",
		slog.String("provider", cfg.EmailProvider),
		slog.String("from_address", cfg.EmailFromAddress),
		slog.String("from_name", cfg.EmailFromName))

	emailCfg := recicla.EmailConfig{
		Provider:             cfg.EmailProvider,
		FromAddress:          cfg.EmailFromAddress,
		FromName:             cfg.EmailFromName,
		ComplaintBaseURL:     cfg.ComplaintBaseURL,
		PostmarkServerToken:  cfg.EmailPostmarkToken,
		PostmarkAccountToken: cfg.EmailPostmarkAccount,
	}

	return email.NewEmailService(logger, emailCfg)
}
