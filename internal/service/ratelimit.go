package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is the slice of redis the rate limit helpers need. *redis.Client
// satisfies it; a nil limiter disables rate limiting.
type RateLimiter interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CheckAndSetRateLimit returns false when subject already performed action
// within the limit window.
func CheckAndSetRateLimit(ctx context.Context, rdb RateLimiter, subject, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:%s:%s", action, subject)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// ClearRateLimit releases the window early, for rolling back a slot taken by a
// request that later failed.
func ClearRateLimit(ctx context.Context, rdb RateLimiter, subject, action string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("rate_limit:%s:%s", action, subject)
	_, err := rdb.Del(ctx, key).Result()
	return err
}
