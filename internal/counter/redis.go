package counter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// incrScript increments and sets the expiry in one step. A key left without
// a TTL by an older writer gets one on its next increment.
var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

type RedisCounter struct {
	client *redis.Client
	prefix string
}

// NewRedisCounter connects using a redis:// URL.
func NewRedisCounter(ctx context.Context, url, prefix string) (*RedisCounter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisCounterFromClient(ctx, redis.NewClient(opts), prefix)
}

// NewRedisCounterFromClient wraps an existing client.
func NewRedisCounterFromClient(ctx context.Context, client *redis.Client, prefix string) (*RedisCounter, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisCounter{client: client, prefix: prefix}, nil
}

func (r *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := incrScript.Run(ctx, r.client, []string{r.prefix + key}, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return n, nil
}

func (r *RedisCounter) Get(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, r.prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return n, nil
}

func (r *RedisCounter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *RedisCounter) Close() error {
	return r.client.Close()
}
