// Package cache holds raw upstream responses for a short time so repeated
// identical requests do not leave the process.
package cache

import (
	"encoding/json"
	"sync"
	"time"
)

type entry struct {
	data     json.RawMessage
	storedAt time.Time
}

// TTLCache is a mutex guarded response cache with a fixed time to live
type TTLCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// New creates a cache whose entries expire after ttl. A nil now uses time.Now.
func New(ttl time.Duration, now func() time.Time) *TTLCache {
	if now == nil {
		now = time.Now
	}
	return &TTLCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key if it is younger than the TTL
func (c *TTLCache) Get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().Sub(cached.storedAt) >= c.ttl {
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.storedAt.Equal(cached.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return cached.data, true
}

// Set stores value under key, replacing any previous entry
func (c *TTLCache) Set(key string, value json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: value, storedAt: c.now()}
}

// Len returns the number of entries, expired ones included
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge removes expired entries and returns how many were dropped
func (c *TTLCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	currentTime := c.now()
	purged := 0
	for key, cached := range c.entries {
		if currentTime.Sub(cached.storedAt) >= c.ttl {
			delete(c.entries, key)
			purged++
		}
	}
	return purged
}

// Key derives the cache key for a request from its URL and options.
// encoding/json sorts map keys, so option order does not change the key.
func Key(url string, options map[string]string) string {
	if len(options) == 0 {
		return url
	}
	serialized, err := json.Marshal(options)
	if err != nil {
		return url
	}
	return url + string(serialized)
}
