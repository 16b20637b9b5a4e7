package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheNotFound     = errors.New("cache: key not found")
	ErrCacheNotAvailable = errors.New("cache: not available")
)

type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
}

type redisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisCache returns a JSON cache over client. Keys are namespaced by prefix.
// A nil client yields a cache that stores nothing and always misses.
func NewRedisCache(client *redis.Client, prefix string, logger *slog.Logger) CacheService {
	return &redisCache{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (r *redisCache) key(key string) string {
	return r.prefix + key
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if r.client == nil || len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = r.key(key)
	}
	return r.client.Del(ctx, full...).Err()
}

// DeletePattern removes every key under the prefix matching pattern
func (r *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	if r.client == nil {
		return nil
	}

	iter := r.client.Scan(ctx, 0, r.key(pattern), 100).Iterator()
	pipe := r.client.Pipeline()
	count := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan error: %w", err)
	}
	if count == 0 {
		return nil
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	r.logger.Debug("Cache keys invalidated", "pattern", pattern, "count", count)
	return nil
}
