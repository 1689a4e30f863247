// Package cache provides a small Redis-backed read cache for the product
// catalog. A nil *Cache is valid and behaves as an always-miss cache, so
// callers never have to branch on whether caching is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent (or caching is disabled).
var ErrMiss = errors.New("cache miss")

// Config holds Redis connection details.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Cache wraps a Redis client with JSON marshaling.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Cache{client: client}, nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Get unmarshals the value stored at key into dest, or returns ErrMiss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if c == nil || c.client == nil {
		return ErrMiss
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set stores data at key for the given expiration.
func (c *Cache) Set(ctx context.Context, key string, data interface{}, expiration time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, dataJSON, expiration).Err()
}

// Delete removes a single key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

// DeleteByPattern removes all keys matching a glob pattern.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Cache key layout for the product catalog.
const (
	ProductListPattern = "products:*"
)

// ProductKey is the cache key for a single product.
func ProductKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// ProductListKey is the cache key for a filtered catalog listing.
func ProductListKey(category, search, sellerID string) string {
	return fmt.Sprintf("products:%s:%s:%s", category, search, sellerID)
}
