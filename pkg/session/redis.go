package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Session backed by a Redis hash-per-token layout. Each session
// key lives under "cart:session:<token>:<key>" with a sliding TTL, so idle
// sessions expire server-side.
type Redis struct {
	client *redis.Client
	token  string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed session for the given actor token.
func NewRedis(client *redis.Client, token string, ttl time.Duration) *Redis {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &Redis{
		client: client,
		token:  token,
		ttl:    ttl,
	}
}

// Get implements Session.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", ErrNoValue
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

// Set implements Session.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete implements Session.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *Redis) key(key string) string {
	return fmt.Sprintf("cart:session:%s:%s", r.token, key)
}
