package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

// RedisStore implements Store on Redis with one JSON string per session.
type RedisStore[T any] struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed Store. A non-positive ttl falls back
// to [constants.DefaultSessionTTL].
func NewRedisStore[T any](client *redis.Client, ttl time.Duration) *RedisStore[T] {
	return &RedisStore[T]{client: client, ttl: ttlOrDefault(ttl, constants.DefaultSessionTTL)}
}

func (store *RedisStore[T]) key(id string) string {
	return constants.RedisPrefixWorkbenchSession + id
}

func (store *RedisStore[T]) Create(ctx context.Context, id string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session_encode_failed: %w", err)
	}

	created, err := store.client.SetNX(ctx, store.key(id), payload, store.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	if !created {
		return errSessionExists
	}
	return nil
}

func (store *RedisStore[T]) Load(ctx context.Context, id string) (T, error) {
	var value T

	// GETEX refreshes the TTL in the same round trip.
	payload, err := store.client.GetEx(ctx, store.key(id), store.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return value, errSessionNotFound
		}
		return value, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	if err := json.Unmarshal(payload, &value); err != nil {
		return value, fmt.Errorf("session_decode_failed: %w", err)
	}
	return value, nil
}

func (store *RedisStore[T]) Save(ctx context.Context, id string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session_encode_failed: %w", err)
	}

	updated, err := store.client.SetXX(ctx, store.key(id), payload, store.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	if !updated {
		return errSessionNotFound
	}
	return nil
}

func (store *RedisStore[T]) Delete(ctx context.Context, id string) error {
	if err := store.client.Del(ctx, store.key(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
