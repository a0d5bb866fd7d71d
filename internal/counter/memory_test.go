package counter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestMemoryCounter_IncrAndExpire(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCounter().WithClock(clock.now)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := c.Incr(ctx, "login:a", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	clock.advance(30 * time.Second)
	n, err := c.Get(ctx, "login:a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// later increments do not extend the window
	_, _ = c.Incr(ctx, "login:a", time.Minute)
	clock.advance(31 * time.Second)
	n, err = c.Get(ctx, "login:a")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = c.Incr(ctx, "login:a", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryCounter_ResetAndSweep(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCounter().WithClock(clock.now)
	ctx := context.Background()

	_, _ = c.Incr(ctx, "a", time.Minute)
	_, _ = c.Incr(ctx, "b", time.Hour)
	require.NoError(t, c.Reset(ctx, "a"))
	n, _ := c.Get(ctx, "a")
	assert.Zero(t, n)

	_, _ = c.Incr(ctx, "c", time.Minute)
	clock.advance(2 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	n, _ = c.Get(ctx, "b")
	assert.Equal(t, int64(1), n)
}

func TestMemoryCounter_Concurrent(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Incr(ctx, "k", time.Minute)
		}()
	}
	wg.Wait()

	n, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)
}
