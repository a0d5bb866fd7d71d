// Package counter provides keyed counters that expire, used for login
// lockout. The in-memory implementation suits a single instance; the Redis
// implementation is shared across instances.
package counter

import (
	"context"
	"time"
)

type Counter interface {
	// Incr adds one to key and returns the new value. The expiry is set
	// when the key is created and is not extended by later increments.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Get returns the current value, zero when the key is missing or expired.
	Get(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}
