package counter

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	n         int64
	expiresAt time.Time
}

type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (m *MemoryCounter) WithClock(now func() time.Time) *MemoryCounter {
	m.now = now
	return m
}

func (m *MemoryCounter) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || !now.Before(e.expiresAt) {
		e = entry{expiresAt: now.Add(ttl)}
	}
	e.n++
	m.entries[key] = e
	return e.n, nil
}

func (m *MemoryCounter) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return 0, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return 0, nil
	}
	return e.n, nil
}

func (m *MemoryCounter) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Sweep drops expired keys.
func (m *MemoryCounter) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until done is closed.
func (m *MemoryCounter) StartSweeper(interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-done:
				return
			}
		}
	}()
}
