package counter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCounter(t *testing.T) (*RedisCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCounterFromClient(context.Background(), redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCounter_IncrSetsExpiry(t *testing.T) {
	c, mr := newRedisCounter(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := c.Incr(ctx, "login:a", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, time.Minute, mr.TTL("test:login:a"))

	n, err := c.Get(ctx, "login:a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mr.FastForward(61 * time.Second)
	n, err = c.Get(ctx, "login:a")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisCounter_RepairsKeyWithoutTTL(t *testing.T) {
	c, mr := newRedisCounter(t)
	ctx := context.Background()

	// a counter left behind without an expiry
	require.NoError(t, mr.Set("test:login:stuck", "7"))
	assert.Zero(t, mr.TTL("test:login:stuck"))

	n, err := c.Incr(ctx, "login:stuck", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, time.Minute, mr.TTL("test:login:stuck"))
}

func TestRedisCounter_Reset(t *testing.T) {
	c, mr := newRedisCounter(t)
	ctx := context.Background()

	_, err := c.Incr(ctx, "login:a", time.Minute)
	require.NoError(t, err)
	require.NoError(t, c.Reset(ctx, "login:a"))
	assert.False(t, mr.Exists("test:login:a"))

	n, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisCounter_IncrFailsWhenServerDown(t *testing.T) {
	c, mr := newRedisCounter(t)
	mr.Close()

	_, err := c.Incr(context.Background(), "login:a", time.Minute)
	assert.Error(t, err)
}
