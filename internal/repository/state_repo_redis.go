package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStateRepository keeps JSON documents as plain Redis strings under prefix+key.
type RedisStateRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisStateRepository(client *redis.Client, prefix string) *RedisStateRepository {
	return &RedisStateRepository{client: client, prefix: prefix}
}

func (r *RedisStateRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state %q: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisStateRepository) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("save state %q: %w", key, err)
	}
	return nil
}
