// Package cache holds the shared Redis client and JSON get/set helpers.
//
// Redis is optional for the HTTP API: when Connect fails RDB stays nil, the
// helpers become no-ops and Remember always calls through to the loader.
// Token sessions, by contrast, require Redis and report ErrNoSessions.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/pkg/metrics"
)

var RDB *redis.Client

// Connect initialises RDB and pings it.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       config.Int("REDIS_DB", 0),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	return nil
}

// Use replaces the shared client; tests point it at miniredis.
func Use(c *redis.Client) { RDB = c }

// Close releases the client.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Get unmarshals key into dest. It reports false on miss or error.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

// Set stores value as JSON under key for ttl.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Forget removes keys.
func Forget(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Remember returns the cached value under key, or calls load, caches its
// result for ttl and returns it. Cache write failures are ignored.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues(key).Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues(key).Inc()

	fresh, err := load(ctx)
	if err != nil {
		return fresh, err
	}
	_ = Set(ctx, key, fresh, ttl)
	return fresh, nil
}
