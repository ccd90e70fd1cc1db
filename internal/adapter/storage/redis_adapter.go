package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	couponKeyPrefix = "coupon:"

	claimTTL  = 24 * time.Hour
	couponTTL = 24 * time.Hour
)

// RedisAdapter backs the session store: checkout idempotency claims and
// the single applied coupon per session.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) ClaimRequest(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, claimTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RedisAdapter) ReleaseRequest(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisAdapter) SetAppliedCoupon(ctx context.Context, sessionID, code string) error {
	return r.client.Set(ctx, couponKeyPrefix+sessionID, code, couponTTL).Err()
}

func (r *RedisAdapter) AppliedCoupon(ctx context.Context, sessionID string) (string, error) {
	code, err := r.client.Get(ctx, couponKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (r *RedisAdapter) ClearAppliedCoupon(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, couponKeyPrefix+sessionID).Err()
}
