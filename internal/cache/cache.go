// Package cache holds the process-wide snapshot caches that bound read
// volume against the remote store. Values are opaque byte snapshots; the
// only mutation besides expiry is an explicit full invalidation.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores TTL-bounded snapshots.
type Cache interface {
	// Get returns the snapshot and whether a fresh one was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a snapshot for the freshness window.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete invalidates a snapshot.
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is the in-process fallback used when Redis is not configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns a snapshot that has not yet expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a snapshot. A non-positive TTL stores nothing.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Delete removes a snapshot.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// SetClock overrides the time source. Test hook.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}
