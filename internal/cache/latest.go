package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"dafoerum/internal/model"
)

const (
	latestPostsPrefix = "posts:latest:"
	latestPostsGenKey = latestPostsPrefix + "gen"

	// DefaultLatestPostsTTL is how long a latest-posts page stays cached.
	DefaultLatestPostsTTL = 30 * time.Second
)

// ErrCacheMiss is returned when a key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// latestPostsKey names the newest-n page cached under generation gen.
func latestPostsKey(gen int64, n int) string {
	return latestPostsPrefix + strconv.FormatInt(gen, 10) + ":" + strconv.Itoa(n)
}

func (c *Cache) latestPostsGen(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, latestPostsGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}

// GetLatestPosts returns the cached newest-n page of the current generation.
// On ErrCacheMiss the returned generation is the one a freshly loaded page
// must be stored under.
func (c *Cache) GetLatestPosts(ctx context.Context, n int) ([]model.Post, int64, error) {
	gen, err := c.latestPostsGen(ctx)
	if err != nil {
		return nil, 0, err
	}

	raw, err := c.client.Get(ctx, latestPostsKey(gen, n)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, ErrCacheMiss
	}
	if err != nil {
		return nil, 0, fmt.Errorf("redis get failed: %w", err)
	}

	var posts []model.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, 0, fmt.Errorf("decode cached posts: %w", err)
	}
	return posts, gen, nil
}

// SetLatestPosts caches the newest-n page under gen for ttl. A page stored
// under a generation that has since been invalidated is never read.
func (c *Cache) SetLatestPosts(ctx context.Context, n int, gen int64, posts []model.Post, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultLatestPostsTTL
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	return c.client.Set(ctx, latestPostsKey(gen, n), raw, ttl).Err()
}

// InvalidateLatestPosts starts a new generation. Pages of older generations
// expire with their TTL.
func (c *Cache) InvalidateLatestPosts(ctx context.Context) error {
	if err := c.client.Incr(ctx, latestPostsGenKey).Err(); err != nil {
		return fmt.Errorf("redis incr generation failed: %w", err)
	}
	return nil
}
