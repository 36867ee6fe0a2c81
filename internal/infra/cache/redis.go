package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/curiomuse/artefact-catalog/internal/config"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// Redis is a small JSON read-through cache. It is an optional dependency: a
// nil *Redis is valid and every method degrades to a miss/no-op.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func New(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("instrument redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// GetJSON reports whether the key was present and, if so, unmarshals it into v.
func (c *Redis) GetJSON(ctx context.Context, key string, v any) (bool, error) {
	if c == nil {
		return false, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := sonic.Unmarshal(b, v); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Redis) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil {
		return nil
	}
	b, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}

func (c *Redis) Del(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Redis) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
