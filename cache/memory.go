package cache

import (
	"context"
	"sync"
	"time"

	"github.com/CreativeUnicorns/viewerprefs"
)

// item represents a single cache item with a value and an expiration time.
type item struct {
	value      interface{}
	expiration time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.expiration.IsZero() && now.After(it.expiration)
}

// MemoryCache implements viewerprefs.Cache in process memory.
// Expired items are invisible to Get and swept periodically.
type MemoryCache struct {
	mu        sync.RWMutex
	items     map[string]item
	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryCache starts a MemoryCache that sweeps expired items every minute.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithInterval(time.Minute)
}

// NewMemoryCacheWithInterval starts a MemoryCache sweeping every interval.
func NewMemoryCacheWithInterval(interval time.Duration) *MemoryCache {
	c := &MemoryCache{
		items: make(map[string]item),
		stop:  make(chan struct{}),
	}
	go c.gc(interval)
	return c
}

// Get returns viewerprefs.ErrNotFound for missing or expired keys.
func (c *MemoryCache) Get(_ context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, exists := c.items[key]
	if !exists || it.expired(time.Now()) {
		return nil, viewerprefs.ErrNotFound
	}
	return it.value, nil
}

// Set stores value; a ttl of zero or less never expires.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiration time.Time
	if ttl > 0 {
		expiration = time.Now().Add(ttl)
	}
	c.items[key] = item{value: value, expiration: expiration}
	return nil
}

// Delete removes a key from the memory cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// Len returns the number of stored items, expired ones included until swept.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the sweeper and drops every item. It is idempotent.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item)
	return nil
}

func (c *MemoryCache) gc(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep(time.Now())
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
		}
	}
}
