package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nahomatnafu/dj-event-management/internal/config"
)

// NewRedisClient connects to Redis. It returns a nil client when no address
// is configured; callers treat that as "feature disabled".
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// Health adapts a Redis client to the health check's Ping(ctx) error shape.
type Health struct {
	client *redis.Client
}

func NewHealth(client *redis.Client) *Health {
	return &Health{client: client}
}

func (h *Health) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}
