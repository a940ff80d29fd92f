package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "auth:revoked:"

// TokenRevocations is a deny-list of token ids. Entries expire together with
// the token they revoke.
type TokenRevocations struct {
	client *redis.Client
}

func NewTokenRevocations(client *redis.Client) *TokenRevocations {
	return &TokenRevocations{client: client}
}

func (r *TokenRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err()
}

func (r *TokenRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
