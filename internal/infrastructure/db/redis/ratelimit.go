package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLoginLimit  = 10
	defaultLoginWindow = time.Minute
)

// LoginLimiter throttles credential-guessing by counting login attempts per
// client key in a fixed window. Key format: login_attempts:<key>
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = defaultLoginLimit
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether another attempt under key fits in the current
// window. The first attempt of a window sets the expiry.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "login_attempts:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}
	return count <= int64(l.limit), nil
}
