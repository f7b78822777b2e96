package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reciclamais/recicla"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 60*time.Second, cfg.UploadTimeout)
	assert.Equal(t, "30M", cfg.BodyLimit)
	assert.True(t, cfg.RateLimit)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, "America/Fortaleza", cfg.Timezone)
	assert.Equal(t, recicla.DefaultServiceArea, cfg.ServiceArea)
	assert.Equal(t, "local", cfg.StorageProvider)
	assert.Equal(t, "postgresql://postgres:@localhost:5432/postgres", cfg.DatabaseURL())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := LoadConfig(envMap(map[string]string{
		"SERVER_PORT":          "9000",
		"DATABASE_URL":         "postgres://app@db/recicla",
		"CORS_ORIGINS":         "https://a.example, ,https://b.example",
		"RATE_LIMIT":           "false",
		"UPLOAD_TIMEOUT":       "2m",
		"SERVICE_AREA_NAME":    "Caucaia",
		"SERVICE_AREA_MIN_LAT": "-3.8",
		"SERVICE_AREA_MAX_LAT": "-3.6",
		"SERVICE_AREA_MIN_LNG": "-38.8",
		"SERVICE_AREA_MAX_LNG": "-38.6",
		"STORAGE_PROVIDER":     "s3",
		"STORAGE_S3_BUCKET":    "evidence",
		"JWT_LEEWAY":           "not-a-duration",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://app@db/recicla", cfg.DatabaseURL())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.RateLimit)
	assert.Equal(t, 2*time.Minute, cfg.UploadTimeout)
	assert.Equal(t, "Caucaia", cfg.ServiceArea.Name)
	assert.Equal(t, -38.8, cfg.ServiceArea.MinLng)
	assert.Equal(t, "evidence", cfg.StorageS3Bucket)
	// Unparseable values fall back to the default.
	assert.Equal(t, 30*time.Second, cfg.JWTLeeway)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{
			name: "default secret in production",
			env:  map[string]string{"ENVIRONMENT": "production"},
			msg:  "JWT_SECRET",
		},
		{
			name: "empty service area",
			env:  map[string]string{"SERVICE_AREA_MIN_LAT": "-3.5"},
			msg:  "service area",
		},
		{
			name: "unknown timezone",
			env:  map[string]string{"TIMEZONE": "Mars/Olympus"},
			msg:  "TIMEZONE",
		},
		{
			name: "unknown storage provider",
			env:  map[string]string{"STORAGE_PROVIDER": "ftp"},
			msg:  "STORAGE_PROVIDER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(envMap(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadConfig_ProductionWithSecret(t *testing.T) {
	cfg, err := LoadConfig(envMap(map[string]string{
		"ENVIRONMENT": "prod",
		"JWT_SECRET":  "s3cret",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestNewLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{Environment: "prod", LogLevel: "info"})

	ctx := recicla.NewContextWithRequestID(context.Background(), "req-42")
	logger.With(slog.String("component", "test")).InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-42"`)
	assert.Contains(t, out, `"component":"test"`)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogLevel: "warn"})

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, loadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("RECICLA_DOTENV_TEST=loaded\n"), 0o600))
	t.Setenv("RECICLA_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("RECICLA_DOTENV_TEST"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("RECICLA_DOTENV_TEST"))
}
