package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dafoerum/internal/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFromCtx(c))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("should replace oversized request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", 500))

		resp, _ := app.Test(req)

		rid := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, rid)
		assert.LessOrEqual(t, len(rid), 128)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, loc))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "http_request", logData["msg"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
}

func TestLogger_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("kaput")
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/boom", nil))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, "ERROR", logData["level"])
	assert.Equal(t, float64(500), logData["status"])
	assert.Equal(t, "kaput", logData["error"])
}

func TestTrimTrailingSlash(t *testing.T) {
	app := fiber.New()
	app.Use(TrimTrailingSlash())
	app.Get("/latest", func(c *fiber.Ctx) error { return c.SendString("latest") })
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("home") })

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantLoc    string
	}{
		{"root untouched", "/", fiber.StatusOK, ""},
		{"no slash untouched", "/latest", fiber.StatusOK, ""},
		{"trailing slash", "/latest/", fiber.StatusMovedPermanently, "/latest"},
		{"keeps query", "/forum/3/?page=2", fiber.StatusMovedPermanently, "/forum/3?page=2"},
		{"stays on site", "//evil.example/", fiber.StatusMovedPermanently, "/evil.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantLoc, resp.Header.Get("Location"))
		})
	}
}

type stubLimiter struct {
	res   *cache.RateLimitResult
	err   error
	calls int
}

func (s *stubLimiter) CheckWriteRateLimit(context.Context, string, int, int) (*cache.RateLimitResult, error) {
	s.calls++
	return s.res, s.err
}

func TestRateLimitWrites(t *testing.T) {
	newApp := func(l WriteLimiter) *fiber.App {
		app := fiber.New()
		app.Use(RateLimitWrites(RateLimitConfig{Limiter: l, RPS: 1, Burst: 5}))
		app.Get("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		app.Post("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
		return app
	}

	t.Run("reads are not limited", func(t *testing.T) {
		l := &stubLimiter{res: &cache.RateLimitResult{Allowed: false}}
		resp, _ := newApp(l).Test(httptest.NewRequest("GET", "/x", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Zero(t, l.calls)
	})

	t.Run("allowed write", func(t *testing.T) {
		l := &stubLimiter{res: &cache.RateLimitResult{Allowed: true, Remaining: 4}}
		resp, _ := newApp(l).Test(httptest.NewRequest("POST", "/x", nil))
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "4", resp.Header.Get("X-RateLimit-Remaining"))
	})

	t.Run("limited write", func(t *testing.T) {
		l := &stubLimiter{res: &cache.RateLimitResult{Allowed: false, RetryAfter: 2 * time.Second}}
		resp, _ := newApp(l).Test(httptest.NewRequest("POST", "/x", nil))
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("Retry-After"))
	})

	t.Run("limiter error fails open", func(t *testing.T) {
		l := &stubLimiter{err: errors.New("redis down")}
		resp, _ := newApp(l).Test(httptest.NewRequest("POST", "/x", nil))
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("noop limiter", func(t *testing.T) {
		resp, _ := newApp(cache.Noop{}).Test(httptest.NewRequest("POST", "/x", nil))
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})
}
