package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/reciclamais/recicla"
)

// errorStatusCode maps domain error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case recicla.ENOTFOUND:
		return http.StatusNotFound
	case recicla.EINVALID:
		return http.StatusBadRequest
	case recicla.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case recicla.EFORBIDDEN:
		return http.StatusForbidden
	case recicla.ECREATIONFAILED:
		return http.StatusUnprocessableEntity
	case recicla.EPERSISTENCE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// httpErrorCode names framework errors (404 route, 413 body, 429 limit)
// with the same vocabulary as domain errors.
func httpErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return recicla.ENOTFOUND
	case http.StatusUnauthorized:
		return recicla.EUNAUTHORIZED
	case http.StatusForbidden:
		return recicla.EFORBIDDEN
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	}
	if status >= 500 {
		return recicla.EINTERNAL
	}
	return recicla.EINVALID
}

func httpErrorMessage(he *echo.HTTPError) string {
	if m, ok := he.Message.(string); ok {
		return m
	}
	return http.StatusText(he.Code)
}

// ErrorResponse represents the JSON error response format.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HandleError converts domain errors to appropriate HTTP responses.
// It logs internal errors and returns user-safe messages.
func HandleError(c echo.Context, logger *slog.Logger, err error) error {
	code := recicla.ErrorCode(err)
	message := recicla.ErrorMessage(err)
	fields := recicla.ErrorFields(err)
	status := errorStatusCode(code)

	switch code {
	case recicla.EINTERNAL:
		logger.Error("internal error",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
			slog.String("method", c.Request().Method),
		)
		// Don't expose internal error details to clients
		message = "An internal error occurred."
	case recicla.EPERSISTENCE:
		logger.Error("collaborator failure",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
		)
	}

	return c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
		Fields:  fields,
	})
}
