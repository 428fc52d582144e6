package appstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCache() (*Cache, *time.Time) {
	c := NewCache(5*time.Minute, 30*time.Minute)
	now := time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheServesFreshEntry(t *testing.T) {
	c, now := newTestCache()
	c.Put(KeyProducts, "catalog")

	*now = now.Add(4 * time.Minute)
	got, ok := c.Get(KeyProducts)
	assert.True(t, ok)
	assert.Equal(t, "catalog", got)
	assert.True(t, c.Fresh(KeyProducts))
}

func TestCacheServesStaleEntryUntilEviction(t *testing.T) {
	c, now := newTestCache()
	c.Put(KeyProducts, "catalog")

	*now = now.Add(20 * time.Minute)
	got, ok := c.Get(KeyProducts)
	assert.True(t, ok, "stale entries are still served")
	assert.Equal(t, "catalog", got)
	assert.False(t, c.Fresh(KeyProducts))
}

func TestCacheEvictsAfterRetentionWindow(t *testing.T) {
	c, now := newTestCache()
	c.Put(KeyProducts, "catalog")

	*now = now.Add(30 * time.Minute)
	_, ok := c.Get(KeyProducts)
	assert.False(t, ok)
}

func TestInvalidateDropsOnlyGivenKeys(t *testing.T) {
	c, _ := newTestCache()
	c.Put(KeyProducts, "catalog")
	c.Put(KeyBills, "history")

	c.Invalidate(KeyProducts)
	_, ok := c.Get(KeyProducts)
	assert.False(t, ok)
	_, ok = c.Get(KeyBills)
	assert.True(t, ok)
}

func TestInvalidateAll(t *testing.T) {
	c, _ := newTestCache()
	for _, key := range AllKeys {
		c.Put(key, key)
	}
	c.InvalidateAll()
	for _, key := range AllKeys {
		_, ok := c.Get(key)
		assert.False(t, ok, key)
	}
}
