package cache

import (
	"sync"
	"time"
)

// ValueCache memoizes a single value with a TTL. It backs the loaded
// snapshot: one full spreadsheet read serves every request until the entry
// expires or a write invalidates it.
type ValueCache[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	value T
	setAt time.Time
	valid bool
}

func NewValueCache[T any](ttl time.Duration) *ValueCache[T] {
	return &ValueCache[T]{ttl: ttl}
}

// Get returns the cached value if present and fresh.
func (c *ValueCache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if !c.valid || time.Since(c.setAt) > c.ttl {
		return zero, false
	}
	return c.value, true
}

func (c *ValueCache[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.setAt = time.Now()
	c.valid = true
}

// Invalidate drops the cached value so the next read reloads from source.
func (c *ValueCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.valid = false
}

// Age reports how long ago the current value was set, zero when empty.
func (c *ValueCache[T]) Age() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return 0
	}
	return time.Since(c.setAt)
}

// CleanExpired drops the value once stale, satisfying Cleaner.
func (c *ValueCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && time.Since(c.setAt) > c.ttl {
		var zero T
		c.value = zero
		c.valid = false
		return 1
	}
	return 0
}
