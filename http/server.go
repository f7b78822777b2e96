package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/reciclamais/recicla"
	"github.com/reciclamais/recicla/internal/complaint"
	"github.com/reciclamais/recicla/internal/middleware"
	"github.com/reciclamais/recicla/internal/validation"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProfileCache drops cached identities after a profile change.
type ProfileCache interface {
	Forget(id uuid.UUID)
}

// Server represents the HTTP server with all its dependencies.
type Server struct {
	echo   *echo.Echo
	ln     net.Listener
	logger *slog.Logger

	// Configuration
	Addr           string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	Location       *time.Location
	UploadsDir     string

	// Domain services
	complaints  *complaint.Service
	userService recicla.UserService
	identity    recicla.IdentityService
	profiles    ProfileCache
	database    Pinger

	// Operational
	metrics          *middleware.HTTPMetrics
	gatherer         prometheus.Gatherer
	submissionLimits *middleware.RateLimiter
	globalLimits     *middleware.RateLimiter
}

// Config holds the configuration for creating a new Server.
type Config struct {
	Addr   string
	Logger *slog.Logger

	// RequestTimeout bounds ordinary handlers, UploadTimeout complaint creation.
	RequestTimeout time.Duration
	UploadTimeout  time.Duration

	// BodyLimit caps request bodies, e.g. "30M".
	BodyLimit string

	// CORSOrigins lists allowed origins; empty allows any.
	CORSOrigins []string

	// Location interprets date-only statistics bounds.
	Location *time.Location

	// Domain services
	Complaints  *complaint.Service
	UserService recicla.UserService
	Identity    recicla.IdentityService
	Profiles    ProfileCache
	Database    Pinger

	// Registerer and Gatherer back /metrics. Nil disables HTTP metrics.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	// RateLimit enables per-IP and per-subject submission limits.
	RateLimit bool

	// UploadsDir, when set, serves locally stored evidence under /uploads.
	UploadsDir string
}

// NewServer creates a new HTTP server with the given configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		Addr:           cfg.Addr,
		RequestTimeout: cfg.RequestTimeout,
		UploadTimeout:  cfg.UploadTimeout,
		Location:       cfg.Location,
		UploadsDir:     cfg.UploadsDir,
		logger:         cfg.Logger,
		complaints:     cfg.Complaints,
		userService:    cfg.UserService,
		identity:       cfg.Identity,
		profiles:       cfg.Profiles,
		database:       cfg.Database,
		gatherer:       cfg.Gatherer,
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultTimeout
	}
	if s.UploadTimeout == 0 {
		s.UploadTimeout = DefaultUploadTimeout
	}
	if s.Location == nil {
		s.Location = time.Local
	}
	if cfg.Registerer != nil {
		s.metrics = middleware.NewHTTPMetrics(cfg.Registerer)
	}
	if cfg.RateLimit {
		s.globalLimits = middleware.NewRateLimiter(s.logger, middleware.DefaultRateLimitConfig(), middleware.IPKey)
		s.submissionLimits = middleware.NewRateLimiter(s.logger, middleware.ComplaintRateLimitConfig(), middleware.SubjectKey)
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = validation.NewValidator()

	s.registerMiddleware(cfg)
	s.registerRoutes()

	return s
}

// Echo returns the underlying Echo instance.
// Use sparingly - prefer registering routes through Server methods.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Open starts the HTTP server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server started", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	if s.globalLimits != nil {
		s.globalLimits.Shutdown()
	}
	if s.submissionLimits != nil {
		s.submissionLimits.Shutdown()
	}
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// URL returns the URL of the server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}
