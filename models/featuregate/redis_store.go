package featuregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serendibtrip/serendibtrip-api/types"
)

// RedisCounterStore keeps counters in Redis. Daily keys expire shortly after
// the next UTC midnight; session keys expire after the guest session length.
type RedisCounterStore struct {
	redis      redis.Cmdable
	sessionTTL time.Duration
}

func NewRedisCounterStore(client redis.Cmdable, sessionTTL time.Duration) *RedisCounterStore {
	return &RedisCounterStore{redis: client, sessionTTL: sessionTTL}
}

func (s *RedisCounterStore) Get(ctx context.Context, key CounterKey, now time.Time) (int, error) {
	n, err := s.redis.Get(ctx, key.String(now)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read usage counter: %w", err)
	}
	return n, nil
}

// Increment runs INCR and the expiry in one MULTI/EXEC block.
func (s *RedisCounterStore) Increment(ctx context.Context, key CounterKey, now time.Time) (int, error) {
	k := key.String(now)
	pipe := s.redis.TxPipeline()
	incr := pipe.Incr(ctx, k)
	if key.Scope == types.QuotaScopeDaily {
		pipe.ExpireAt(ctx, k, NextReset(now).Add(dailyGrace))
	} else {
		pipe.Expire(ctx, k, s.sessionTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment usage counter: %w", err)
	}
	return int(incr.Val()), nil
}

// Acquire increments first and rolls back when the new count overshoots.
func (s *RedisCounterStore) Acquire(ctx context.Context, key CounterKey, limit int, now time.Time) (int, bool, error) {
	n, err := s.Increment(ctx, key, now)
	if err != nil {
		return 0, false, err
	}
	if n <= limit {
		return n, true, nil
	}
	if err := s.redis.Decr(ctx, key.String(now)).Err(); err != nil {
		return n, false, fmt.Errorf("failed to roll back usage counter: %w", err)
	}
	return n - 1, false, nil
}

func (s *RedisCounterStore) Decrement(ctx context.Context, key CounterKey, now time.Time) error {
	k := key.String(now)
	n, err := s.redis.Decr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("failed to refund usage counter: %w", err)
	}
	if n < 0 {
		// Refund raced the key's expiry.
		return s.redis.Del(ctx, k).Err()
	}
	return nil
}
