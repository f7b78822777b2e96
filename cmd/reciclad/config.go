package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reciclamais/recicla"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds all application configuration.
type Config struct {
	// Server settings
	Host           string
	Port           int
	Environment    string
	LogLevel       string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	BodyLimit      string
	CORSOrigins    []string
	RateLimit      bool

	// Database settings
	DatabaseDSN string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string

	// Identity provider settings
	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	JWTLeeway       time.Duration
	ProfileCacheTTL time.Duration

	// Email settings
	EmailProvider        string
	EmailPostmarkToken   string
	EmailPostmarkAccount string
	EmailFromAddress     string
	EmailFromName        string
	ComplaintBaseURL     string

	// Storage settings
	StorageProvider          string
	StorageLocalPath         string
	StorageLocalURL          string
	StorageS3Bucket          string
	StorageS3Region          string
	StorageS3BaseURL         string
	StorageS3Endpoint        string
	StorageS3AccessKey       string
	StorageS3SecretKey       string
	StorageS3UsePathStyle    bool
	StorageSessionCredential bool

	// Service area and clock
	ServiceArea recicla.ServiceArea
	Timezone    string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig(getenv func(string) string) (*Config, error) {
	area := recicla.DefaultServiceArea

	cfg := &Config{
		// Server settings
		Host:           envString(getenv, "SERVER_HOST", "localhost"),
		Port:           envInt(getenv, "SERVER_PORT", 8080),
		Environment:    envString(getenv, "ENVIRONMENT", "dev"),
		LogLevel:       envString(getenv, "LOG_LEVEL", "info"),
		RequestTimeout: envDuration(getenv, "REQUEST_TIMEOUT", 5*time.Second),
		UploadTimeout:  envDuration(getenv, "UPLOAD_TIMEOUT", 60*time.Second),
		BodyLimit:      envString(getenv, "BODY_LIMIT", "30M"),
		CORSOrigins:    envList(getenv, "CORS_ORIGINS"),
		RateLimit:      envBool(getenv, "RATE_LIMIT", true),

		// Database settings
		DatabaseDSN: envString(getenv, "DATABASE_URL", ""),
		DBUser:      envString(getenv, "DB_USER", "postgres"),
		DBPassword:  envString(getenv, "DB_PASSWORD", ""),
		DBHost:      envString(getenv, "DB_HOSTNAME", "localhost"),
		DBPort:      envString(getenv, "DB_PORT", "5432"),
		DBName:      envString(getenv, "DB_NAME", "postgres"),

		// Identity provider settings
		JWTSecret:       envString(getenv, "JWT_SECRET", defaultJWTSecret),
		JWTIssuer:       envString(getenv, "JWT_ISSUER", ""),
		JWTAudience:     envString(getenv, "JWT_AUDIENCE", "authenticated"),
		JWTLeeway:       envDuration(getenv, "JWT_LEEWAY", 30*time.Second),
		ProfileCacheTTL: envDuration(getenv, "PROFILE_CACHE_TTL", 5*time.Minute),

		// Email settings
		EmailProvider:        envString(getenv, "EMAIL_PROVIDER", "mock"),
		EmailPostmarkToken:   envString(getenv, "POSTMARK_SERVER_TOKEN", ""),
		EmailPostmarkAccount: envString(getenv, "POSTMARK_ACCOUNT_TOKEN", ""),
		EmailFromAddress:     envString(getenv, "EMAIL_FROM_ADDRESS", "noreply@example.com"),
		EmailFromName:        envString(getenv, "EMAIL_FROM_NAME", "Recicla+"),
		ComplaintBaseURL:     envString(getenv, "COMPLAINT_BASE_URL", "http://localhost:8080/complaints"),

		// Storage settings
		StorageProvider:          envString(getenv, "STORAGE_PROVIDER", "local"),
		StorageLocalPath:         envString(getenv, "STORAGE_LOCAL_PATH", "./uploads"),
		StorageLocalURL:          envString(getenv, "STORAGE_LOCAL_URL", "http://localhost:8080/uploads"),
		StorageS3Bucket:          envString(getenv, "STORAGE_S3_BUCKET", "complaint-photos"),
		StorageS3Region:          envString(getenv, "STORAGE_S3_REGION", "us-east-1"),
		StorageS3BaseURL:         envString(getenv, "STORAGE_S3_BASE_URL", ""),
		StorageS3Endpoint:        envString(getenv, "STORAGE_S3_ENDPOINT", ""),
		StorageS3AccessKey:       envString(getenv, "STORAGE_S3_ACCESS_KEY", ""),
		StorageS3SecretKey:       envString(getenv, "STORAGE_S3_SECRET_KEY", ""),
		StorageS3UsePathStyle:    envBool(getenv, "STORAGE_S3_USE_PATH_STYLE", false),
		StorageSessionCredential: envBool(getenv, "STORAGE_SESSION_CREDENTIAL", false),

		// Service area and clock
		ServiceArea: recicla.ServiceArea{
			Name: envString(getenv, "SERVICE_AREA_NAME", area.Name),
			BoundingBox: recicla.BoundingBox{
				MinLat: envFloat(getenv, "SERVICE_AREA_MIN_LAT", area.MinLat),
				MaxLat: envFloat(getenv, "SERVICE_AREA_MAX_LAT", area.MaxLat),
				MinLng: envFloat(getenv, "SERVICE_AREA_MIN_LNG", area.MinLng),
				MaxLng: envFloat(getenv, "SERVICE_AREA_MAX_LNG", area.MaxLng),
			},
		},
		Timezone: envString(getenv, "TIMEZONE", "America/Fortaleza"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseURL returns the PostgreSQL connection string. DATABASE_URL wins
// over the individual DB_* settings.
func (c *Config) DatabaseURL() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// IsProduction reports whether ENVIRONMENT names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}

// validate checks production requirements and value ranges.
func (c *Config) validate() error {
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	a := c.ServiceArea
	if a.MinLat >= a.MaxLat || a.MinLng >= a.MaxLng {
		return fmt.Errorf("service area bounds are empty: lat [%v, %v], lng [%v, %v]",
			a.MinLat, a.MaxLat, a.MinLng, a.MaxLng)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}

	switch c.StorageProvider {
	case "local", "s3":
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}
	return nil
}

// Helper functions for loading environment variables with defaults.

func envString(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func envFloat(getenv func(string) string, key string, defaultValue float64) float64 {
	if value := getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func envBool(getenv func(string) string, key string, defaultValue bool) bool {
	if value := getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func envDuration(getenv func(string) string, key string, defaultValue time.Duration) time.Duration {
	if value := getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// envList splits a comma-separated value, dropping blanks.
func envList(getenv func(string) string, key string) []string {
	var out []string
	for _, part := range strings.Split(getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
