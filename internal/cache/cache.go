package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/aide-portal/internal/models"
)

// DefaultMaxEntries bounds the in-process cache when no limit is given.
const DefaultMaxEntries = 1024

// entry wraps a cached record with its write time and insertion order.
type entry struct {
	record    *models.InsightRecord
	written   time.Time
	insertIdx int64
}

// InsightCache is an in-process TTL cache of insight records.
// Keys are lowercased identifiers. Thread-safe with sync.RWMutex.
// Concurrent writers for the same key are last-writer-wins.
type InsightCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// Option configures an InsightCache.
type Option func(*InsightCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *InsightCache) { c.now = now }
}

// New creates an InsightCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int, opts ...Option) *InsightCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &InsightCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key normalizes an identifier into a cache key.
func Key(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// Get returns a copy of the record if present and younger than the TTL.
func (c *InsightCache) Get(_ context.Context, key string) (*models.InsightRecord, bool, error) {
	key = Key(key)
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if !c.fresh(e) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && !c.fresh(e2) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return e.record.Clone(), true, nil
}

// Set stores a copy of record. Evicts the oldest entry if at capacity.
func (c *InsightCache) Set(_ context.Context, key string, record *models.InsightRecord) error {
	key = Key(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		record:    record.Clone(),
		written:   c.now(),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return nil
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
	return nil
}

// Delete removes key.
func (c *InsightCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, Key(key))
	c.mu.Unlock()
	return nil
}

// Sweep removes every expired entry.
func (c *InsightCache) Sweep(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.items {
		if !c.fresh(e) {
			delete(c.items, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired or not.
func (c *InsightCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close is a no-op for the in-process cache.
func (c *InsightCache) Close() error {
	return nil
}

func (c *InsightCache) fresh(e entry) bool {
	return c.now().Sub(e.written) < c.ttl
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *InsightCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
