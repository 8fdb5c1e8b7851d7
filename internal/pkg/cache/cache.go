package cache

import (
	"sync"
	"time"
)

// Cache is a small TTL memoizer for expensive report rollups. It is advisory
// only: results must stay correct with the cache disabled, just slower.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]entry
	disabled bool
	now      func() time.Time
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewDisabled returns a cache that never stores anything.
func NewDisabled() *Cache {
	c := New()
	c.disabled = true
	return c
}

// Get returns the cached value when present and unexpired.
func (c *Cache) Get(key string) (interface{}, bool) {
	if c.disabled {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores a value for ttl.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if c.disabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Remember returns the cached value for key, computing and storing it on miss.
// Compute errors are returned as-is and never cached.
func (c *Cache) Remember(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.Set(key, value, ttl)
	return value, nil
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
