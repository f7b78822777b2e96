package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/reciclamais/recicla"
	"github.com/reciclamais/recicla/internal/middleware"
)

const (
	// DefaultTimeout bounds ordinary handler operations.
	DefaultTimeout = 5 * time.Second

	// DefaultUploadTimeout bounds complaint creation, which stores up to
	// five photos sequentially.
	DefaultUploadTimeout = 60 * time.Second

	// DefaultBodyLimit fits five 5MB photos plus form fields.
	DefaultBodyLimit = "30M"
)

// registerMiddleware sets up all middleware for the server.
func (s *Server) registerMiddleware(cfg Config) {
	s.echo.Use(echomw.Recover())

	if s.metrics != nil {
		s.echo.Use(s.metrics.Middleware())
	}

	// Request ID, request-scoped logger and completion logging
	s.echo.Use(middleware.RequestLogger(s.logger))

	if s.globalLimits != nil {
		s.echo.Use(s.globalLimits.Middleware())
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.echo.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))

	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}
	s.echo.Use(echomw.BodyLimit(bodyLimit))

	s.echo.HTTPErrorHandler = s.httpErrorHandler
}

// httpErrorHandler handles errors and returns appropriate responses.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if he, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(he.Code, ErrorResponse{
			Error:   httpErrorCode(he.Code),
			Message: httpErrorMessage(he),
		})
		return
	}

	_ = HandleError(c, s.log(c), err)
}

// RequireAuth verifies the bearer credential and attaches the subject and
// the raw credential to the request context.
func (s *Server) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return recicla.Unauthorized("Authentication required")
			}

			subject, err := s.identity.VerifyCredential(c.Request().Context(), token)
			if err != nil {
				s.log(c).Debug("bearer token rejected", slog.String("error", err.Error()))
				return err
			}

			ctx := recicla.NewContextWithSubject(c.Request().Context(), subject)
			ctx = recicla.NewContextWithCredential(ctx, token)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("subject", subject)

			return next(c)
		}
	}
}

// RequireManager rejects subjects that may not triage complaints.
// Must run after RequireAuth.
func (s *Server) RequireManager() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, err := requireSubject(c)
			if err != nil {
				return err
			}
			if !subject.IsManager() {
				return recicla.Forbidden("Access restricted to managers")
			}
			return next(c)
		}
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// getRequestLogger retrieves the request-scoped logger from context.
func (s *Server) getRequestLogger(c echo.Context) *slog.Logger {
	if logger, ok := c.Get("logger").(*slog.Logger); ok {
		return logger
	}
	return s.logger
}
