package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/reciclamais/recicla"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures a token bucket per key.
type RateLimitConfig struct {
	// Rate is the sustained number of requests per second.
	Rate float64

	// Burst is the bucket size.
	Burst int

	// CleanupInterval is how often idle buckets are dropped.
	CleanupInterval time.Duration

	// IdleTimeout is how long a bucket may go unused before it is dropped.
	IdleTimeout time.Duration
}

// DefaultRateLimitConfig is the global per-IP limit: 100 req/s, burst 200.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Rate:            100,
		Burst:           200,
		CleanupInterval: time.Hour,
		IdleTimeout:     time.Hour,
	}
}

// ComplaintRateLimitConfig limits complaint submissions per subject:
// 10 per hour with a burst of 5.
func ComplaintRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Rate:            10.0 / 3600,
		Burst:           5,
		CleanupInterval: time.Hour,
		IdleTimeout:     2 * time.Hour,
	}
}

// KeyFunc extracts the bucket key for a request. An empty key skips limiting.
type KeyFunc func(c echo.Context) string

// IPKey keys buckets by client IP.
//
// SECURITY: c.RealIP honours X-Forwarded-For only as configured by
// e.IPExtractor. Behind a proxy configure echo.ExtractIPFromXFFHeader with
// the proxy's network trusted, otherwise clients can rotate forged IPs.
func IPKey(c echo.Context) string {
	return c.RealIP()
}

// SubjectKey keys buckets by authenticated subject, falling back to the
// client IP for anonymous requests.
func SubjectKey(c echo.Context) string {
	if subject := recicla.SubjectFromContext(c.Request().Context()); subject != nil {
		return "subject:" + subject.ID.String()
	}
	return "ip:" + c.RealIP()
}

// RateLimiter applies a token bucket per key.
type RateLimiter struct {
	limiters sync.Map // key -> *limiterEntry
	logger   *slog.Logger
	config   RateLimitConfig
	key      KeyFunc
	now      func() time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64 // Unix timestamp in seconds
}

// NewRateLimiter creates a limiter and starts its cleanup goroutine.
// Call Shutdown to stop it.
func NewRateLimiter(logger *slog.Logger, config RateLimitConfig, key KeyFunc) *RateLimiter {
	ctx, cancel := context.WithCancel(context.Background())

	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Hour
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = time.Hour
	}
	if key == nil {
		key = IPKey
	}

	rl := &RateLimiter{
		logger: logger,
		config: config,
		key:    key,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}

	go rl.cleanupLoop()

	return rl
}

// Middleware returns the rate limiting middleware. Rejected requests get 429
// with a Retry-After header.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	limitHeader := fmt.Sprintf("%d", rl.limitPerWindow())

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rl.key(c)
			if key == "" {
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", limitHeader)

			if !rl.getLimiter(key).Allow() {
				rl.logger.Warn("rate limit exceeded",
					slog.String("key", key),
					slog.String("path", c.Path()),
					slog.String("method", c.Request().Method))

				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", rl.retryAfterSeconds()))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")

				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}

// limitPerWindow reports the sustained rate per second, or per hour for
// limits slower than one request per second.
func (rl *RateLimiter) limitPerWindow() int {
	if rl.config.Rate >= 1 {
		return int(rl.config.Rate)
	}
	return int(rl.config.Rate * 3600)
}

// retryAfterSeconds is the time needed to refill one token.
func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.config.Rate <= 0 {
		return 60
	}
	seconds := int(1/rl.config.Rate + 0.5)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.now().Unix()

	if entry, exists := rl.limiters.Load(key); exists {
		limEntry := entry.(*limiterEntry)
		limEntry.lastAccess.Store(now)
		return limEntry.limiter
	}

	entry := &limiterEntry{
		limiter: rate.NewLimiter(rate.Limit(rl.config.Rate), rl.config.Burst),
	}
	entry.lastAccess.Store(now)
	actual, _ := rl.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := rl.cleanup(); removed > 0 {
				rl.logger.Info("cleaned up idle rate limiters", slog.Int("removed", removed))
			}
		case <-rl.ctx.Done():
			rl.logger.Debug("rate limiter cleanup goroutine stopping")
			return
		}
	}
}

// cleanup drops buckets idle for longer than IdleTimeout.
func (rl *RateLimiter) cleanup() int {
	var removed int
	cutoff := rl.now().Add(-rl.config.IdleTimeout).Unix()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*limiterEntry).lastAccess.Load() < cutoff {
			rl.limiters.Delete(key)
			removed++
		}
		return true
	})

	return removed
}

// Shutdown stops the cleanup goroutine.
func (rl *RateLimiter) Shutdown() {
	if rl.cancel != nil {
		rl.cancel()
	}
}
