package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/reciclamais/recicla"
)

// withTimeout creates a context with a timeout for handler operations.
func (s *Server) withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), s.RequestTimeout)
}

// parseUUID parses a UUID from a string, returning a domain error if invalid.
func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, recicla.Invalid("Invalid ID format")
	}
	return id, nil
}

// requireUUIDParam extracts and parses a required UUID route parameter.
func requireUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	value := c.Param(name)
	if value == "" {
		return uuid.UUID{}, recicla.Invalid("%s is required", name)
	}
	return parseUUID(value)
}

// requireSubject extracts the authenticated subject from context.
func requireSubject(c echo.Context) (*recicla.Subject, error) {
	subject := recicla.SubjectFromContext(c.Request().Context())
	if subject == nil {
		return nil, recicla.Unauthorized("Authentication required")
	}
	return subject, nil
}

// bind binds the request body to a struct and validates it.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return recicla.Invalid("Invalid request body")
	}
	if err := c.Validate(v); err != nil {
		return err
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, recicla.Invalid("%s must be an integer", name)
	}
	return n, nil
}

// log returns the request-scoped logger.
func (s *Server) log(c echo.Context) *slog.Logger {
	return s.getRequestLogger(c)
}

// Health handlers

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

// handleReadinessCheck reports ready only when the database answers.
func (s *Server) handleReadinessCheck(c echo.Context) error {
	if s.database == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.database.Ping(ctx); err != nil {
		s.log(c).Warn("readiness check failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": "unreachable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
