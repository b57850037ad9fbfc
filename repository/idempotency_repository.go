package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyRepository stores checkout idempotency keys in Redis, mapping a
// user-scoped key to the JSON summary of the order it produced.
type IdempotencyRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyRepository(client *redis.Client, ttl time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{client: client, ttl: ttl}
}

func (r *IdempotencyRepository) key(key string) string {
	return "idem:checkout:" + key
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *IdempotencyRepository) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, r.ttl).Err()
}
