package cache

import (
	"context"
	"time"

	"dafoerum/internal/model"
)

// Noop satisfies the same method set as Cache without a backend: reads always
// miss, writes are dropped and every rate limit check passes.
type Noop struct{}

func (Noop) GetLatestPosts(context.Context, int) ([]model.Post, int64, error) {
	return nil, 0, ErrCacheMiss
}

func (Noop) SetLatestPosts(context.Context, int, int64, []model.Post, time.Duration) error {
	return nil
}

func (Noop) InvalidateLatestPosts(context.Context) error {
	return nil
}

func (Noop) CheckWriteRateLimit(_ context.Context, _ string, _, burst int) (*RateLimitResult, error) {
	return allowAll(burst), nil
}

func (Noop) Ping(context.Context) error {
	return nil
}

func (Noop) Close() error {
	return nil
}
