package middleware

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"dafoerum/internal/cache"
	"dafoerum/internal/metrics"
)

// WriteLimiter is the rate limit backend, cache.Cache or cache.Noop.
type WriteLimiter interface {
	CheckWriteRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for the write rate limiter.
type RateLimitConfig struct {
	Limiter WriteLimiter
	RPS     int
	Burst   int
	Logger  *slog.Logger
	Metrics *metrics.Forum
}

// RateLimitWrites limits non-GET requests per client IP with a token bucket.
// Rejected requests get 429 with a Retry-After header. Limiter errors let
// the request through.
func RateLimitWrites(cfg RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isWrite(c.Method()) || cfg.Limiter == nil {
			return c.Next()
		}

		ip := c.IP()
		res, err := cfg.Limiter.CheckWriteRateLimit(c.UserContext(), ip, cfg.RPS, cfg.Burst)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("rate limit check failed", slog.String("error", err.Error()))
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if res.Allowed {
			return c.Next()
		}

		cfg.Metrics.RateLimited()
		if cfg.Logger != nil {
			cfg.Logger.Warn("rate limit exceeded",
				slog.String("type", "write"),
				slog.String("endpoint", c.Method()+" "+c.Path()),
				slog.Int64("retry_after_seconds", int64(res.RetryAfter.Seconds())),
				slog.String("request_id", RequestIDFromCtx(c)),
			)
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(res.RetryAfter.Seconds())))
		return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
	}
}

func isWrite(method string) bool {
	switch method {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		return true
	}
	return false
}
