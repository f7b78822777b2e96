package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/reciclamais/recicla"
)

// RequestLogger assigns every request an ID and a request-scoped logger.
//
// The ID is taken from an incoming X-Request-ID header when present and
// generated otherwise. It is echoed in the response header, stored on the
// echo context and attached to the request context so domain code logging
// with *Context methods can correlate entries.
//
// Handler errors are rendered through echo's HTTPErrorHandler here, so the
// completion entry carries the final status. Completion is logged at Info,
// Warn for 4xx and Error for 5xx.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" || len(requestID) > 64 {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.Set("request_id", requestID)

			ctx := recicla.NewContextWithRequestID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			requestLogger := logger.With(
				slog.String("request_id", requestID),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
			)
			c.Set("logger", requestLogger)

			err := next(c)
			if err != nil {
				// Render the error now so the logged status is the one sent.
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}

			switch {
			case status >= 500:
				requestLogger.Error("request failed", attrs...)
			case status >= 400:
				requestLogger.Warn("request completed with client error", attrs...)
			default:
				requestLogger.Info("request completed", attrs...)
			}

			return nil
		}
	}
}

// GetRequestID retrieves the request ID from the Echo context.
func GetRequestID(c echo.Context) string {
	requestID, ok := c.Get("request_id").(string)
	if !ok {
		return ""
	}
	return requestID
}

// GetRequestLogger retrieves the request-scoped logger from the Echo context,
// falling back to slog.Default.
func GetRequestLogger(c echo.Context) *slog.Logger {
	logger, ok := c.Get("logger").(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}
