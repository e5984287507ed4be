// Package cache provides a thread-safe in-memory memoization layer with
// per-entry TTL and tag-based bulk invalidation. It is independent of the
// restaurant domain: callers supply the key, the invalidation tag and a
// producer function for cold keys.
package cache

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	data      any
	tag       string
	expiresAt time.Time
}

// Cache is safe for concurrent use. Concurrent cold reads of the same key
// are collapsed into a single producer call via singleflight; writers for
// the same key apply last-writer-wins and readers never observe a
// partially written entry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
	stop    chan struct{}

	statsMu sync.Mutex
	hits    int64
	misses  int64
}

// New creates a cache and starts a background cleanup loop that evicts
// expired entries. Call Stop to terminate the loop (tests).
func New() *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached value for key if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		if ok {
			c.mu.Lock()
			// Re-check: another writer may have refreshed the entry
			if cur, still := c.entries[key]; still && time.Now().After(cur.expiresAt) {
				delete(c.entries, key)
			}
			c.mu.Unlock()
		}
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	return e.data, true
}

// Set stores value under key with the given tag and TTL, replacing any
// previous entry.
func (c *Cache) Set(key, tag string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{
		data:      value,
		tag:       tag,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// GetOrCompute returns the cached value for key, invoking producer on a
// miss and caching its result for ttl under tag. Producer errors are
// propagated and never cached, so a later call retries.
func (c *Cache) GetOrCompute(ctx context.Context, key, tag string, ttl time.Duration, producer func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have populated the entry while we
		// waited on the flight group
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, tag, v, ttl)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateTag removes every entry stored under tag and returns the
// number of entries removed.
func (c *Cache) InvalidateTag(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if e.tag == tag {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit/miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.hits, c.misses
}

// Stop terminates the background cleanup loop.
func (c *Cache) Stop() {
	close(c.stop)
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) cleanup() {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.hits++
	c.statsMu.Unlock()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.misses++
	c.statsMu.Unlock()
}

// Key joins parts into an order-sensitive cache key. Each part is
// escaped first, so a caller-supplied value containing the separator
// cannot make two distinct part sequences produce the same key.
func Key(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return strings.Join(escaped, ":")
}
