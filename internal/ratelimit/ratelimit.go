package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter allows one action per key per window. A nil client allows everything.
type Limiter struct {
	rdb    *redis.Client
	window time.Duration
}

func New(rdb *redis.Client, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, window: window}
}

func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func key(scope, id string) string {
	return fmt.Sprintf("rate_limit:%s:%s", scope, id)
}

func (l *Limiter) Allow(ctx context.Context, scope, id string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(scope, id), "locked", l.window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	return wasSet, nil
}

func (l *Limiter) TTL(ctx context.Context, scope, id string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, key(scope, id)).Result()
}
