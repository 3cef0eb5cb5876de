// Package cache provides a small in-process TTL cache. Entries expire
// lazily on read; Sweep removes dead entries for long-lived caches.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	expireAt time.Time
}

// Cache is a generic in-memory key/value store with a fixed TTL per cache.
// All methods are safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[K]entry[V]
	now     func() time.Time
}

// New creates a cache whose entries live for ttl after each Set.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key and whether it is still fresh.
func (c *Cache[K, V]) Get(_ context.Context, key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expireAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, resetting its TTL.
func (c *Cache[K, V]) Set(_ context.Context, key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expireAt: c.now().Add(c.ttl)}
}

// Delete removes key from the cache.
func (c *Cache[K, V]) Delete(_ context.Context, key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries, expired ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep drops expired entries. Call periodically on caches with churn.
func (c *Cache[K, V]) Sweep() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expireAt) {
			delete(c.entries, k)
		}
	}
}
