package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginFailurePrefix = "auth:login-failures:"

// LoginThrottle counts failed logins per key inside a fixed window that
// starts at the first failure.
type LoginThrottle struct {
	client *redis.Client
	window time.Duration
}

func NewLoginThrottle(client *redis.Client, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, window: window}
}

func (t *LoginThrottle) Failures(ctx context.Context, key string) (int, error) {
	n, err := t.client.Get(ctx, loginFailurePrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (t *LoginThrottle) RecordFailure(ctx context.Context, key string) (int, error) {
	redisKey := loginFailurePrefix + key
	n, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := t.client.Expire(ctx, redisKey, t.window).Err(); err != nil {
			return int(n), err
		}
	}
	return int(n), nil
}

func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, loginFailurePrefix+key).Err()
}
