package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache implements cache.CountryCache using in-memory storage
type MemoryCache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex
	stop    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	country   string
	expiresAt time.Time
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryCache creates a new in-memory cache that sweeps expired entries
// every interval until Close is called.
func NewMemoryCache(interval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]cacheEntry),
		stop:    make(chan struct{}),
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	go c.cleanup(interval)

	return c
}

// Get retrieves a country from cache
func (c *MemoryCache) Get(_ context.Context, ip string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[ip]
	if !exists || entry.expired(time.Now()) {
		return "", false, nil
	}
	return entry.country, true, nil
}

// Set stores a country with TTL. A non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, ip, country string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := cacheEntry{country: country}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.entries[ip] = entry
	return nil
}

// Delete removes an entry
func (c *MemoryCache) Delete(_ context.Context, ip string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, ip)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *MemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}
