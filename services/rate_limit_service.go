package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiterInterface defines the contract for rate limiting operations.
type RateLimiterInterface interface {
	// CheckLimit counts one request against key. When the limit is exceeded
	// it reports how long until the window resets.
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

// RateLimitService is a fixed-window limiter backed by Redis.
type RateLimitService struct {
	redis     redis.Cmdable
	keyPrefix string
}

func NewRateLimitService(client redis.Cmdable) *RateLimitService {
	return &RateLimitService{
		redis:     client,
		keyPrefix: "serendibtrip:rate_limit:",
	}
}

// CheckLimit sets the window expiry only on the first hit so steady traffic
// cannot keep a window open forever.
func (s *RateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	rKey := s.keyPrefix + key

	pipe := s.redis.Pipeline()
	incr := pipe.Incr(ctx, rKey)
	pipe.ExpireNX(ctx, rKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	if incr.Val() <= int64(limit) {
		return true, 0, nil
	}

	ttl, err := s.redis.TTL(ctx, rKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit ttl lookup failed: %w", err)
	}
	if ttl < 0 {
		ttl = window
	}
	return false, ttl, nil
}
