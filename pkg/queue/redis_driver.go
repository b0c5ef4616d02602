package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisQueueKey = "foodhub:queue:jobs"

// RedisDriver keeps jobs in a Redis list so they survive restarts and can be
// consumed by a separate `foodhub queue:work` process.
type RedisDriver struct {
	rdb     redis.Cmdable
	key     string
	timeout time.Duration
}

// NewRedisDriver uses the shared client from pkg/cache.
func NewRedisDriver(rdb redis.Cmdable) *RedisDriver {
	return &RedisDriver{rdb: rdb, key: redisQueueKey, timeout: 5 * time.Second}
}

// WithPopTimeout changes how long Pop blocks before returning empty.
// Redis rounds anything below one second up to one second.
func (d *RedisDriver) WithPopTimeout(t time.Duration) *RedisDriver {
	d.timeout = t
	return d
}

// Push appends with LPUSH.
func (d *RedisDriver) Push(ctx context.Context, payload []byte) error {
	if err := d.rdb.LPush(ctx, d.key, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks with BRPOP for up to the driver timeout. A timeout returns
// (nil, nil) so the worker loop can observe cancellation.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, d.timeout, d.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	return []byte(result[1]), nil
}

// Len reports the list length.
func (d *RedisDriver) Len(ctx context.Context) (int64, error) {
	return d.rdb.LLen(ctx, d.key).Result()
}
