package appstate

import (
	"sync"
	"time"
)

// Cache keys. Every entity collection has its own key; the dashboard
// aggregate is cached separately and invalidated by every mutation since it
// derives from all four collections.
const (
	KeyProducts  = "products"
	KeyCustomers = "customers"
	KeyBills     = "bills"
	KeyInventory = "inventory"
	KeyDashboard = "dashboard"
)

// AllKeys lists every cache key, dashboard included.
var AllKeys = []string{KeyProducts, KeyCustomers, KeyBills, KeyInventory, KeyDashboard}

type cacheEntry struct {
	data      any
	fetchedAt time.Time
}

// Cache is the in-memory read cache between the API and the repositories.
// An entry is served as-is while younger than freshFor, still served without
// any background refresh until evictAfter, and dropped past that. There is
// no automatic refresh; only reads after eviction and explicit invalidation
// repopulate it.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	freshFor   time.Duration
	evictAfter time.Duration
	now        func() time.Time
}

func NewCache(freshFor, evictAfter time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]cacheEntry),
		freshFor:   freshFor,
		evictAfter: evictAfter,
		now:        time.Now,
	}
}

// Get returns the cached value for key. The second result reports whether a
// usable value was present; entries older than the eviction window are
// removed and reported as misses.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.evictAfter {
		delete(c.entries, key)
		return nil, false
	}
	return entry.data, true
}

// Fresh reports whether the entry for key exists and is inside the fresh
// window. Stale-but-held entries return false while Get still serves them.
func (c *Cache) Fresh(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	age := c.now().Sub(entry.fetchedAt)
	return age < c.freshFor
}

// Put stores a value for key, stamping it with the current time.
func (c *Cache) Put(key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: data, fetchedAt: c.now()}
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
