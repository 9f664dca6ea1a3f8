package cache

import (
	"sync"
	"time"
)

type basicCacheEntry[T any] struct {
	data  T
	valid bool
}

// basicCache is the non-expiring fallback used where computed values are
// invalidated explicitly instead of aging out.
type basicCache[T any] struct {
	mu      sync.Mutex
	entries map[string]basicCacheEntry[T]
}

func (c *basicCache[T]) getOrClaim(key string) hitResult[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.entries[key]
	if ok {
		return hitResult[T]{
			data:    existing.data,
			valid:   existing.valid,
			claimed: false,
		}
	}

	c.entries[key] = basicCacheEntry[T]{valid: false}
	return hitResult[T]{
		valid:   false,
		claimed: true,
	}
}

func (c *basicCache[T]) set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = basicCacheEntry[T]{data: data, valid: true}
}

func (c *basicCache[T]) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *basicCache[T]) wait() {
	time.Sleep(50 * time.Millisecond)
}

func NewBasicCache[T any]() Cache[T] {
	return &basicCache[T]{
		entries: make(map[string]basicCacheEntry[T]),
	}
}
