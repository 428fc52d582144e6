package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestStore() (*SessionStore, *time.Time) {
	now := time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)
	store := NewSessionStore(2*time.Hour, Context{MakingChargePercent: 10, GSTPercent: 3})
	store.now = func() time.Time { return now }
	return store, &now
}

func TestSessionStoreIsolatesCarts(t *testing.T) {
	store, _ := newTestStore()
	store.WithCart("till-1", func(c *Cart) { c.AddLine(ring("P-1", 4)) })
	store.WithCart("till-2", func(c *Cart) { c.AddLine(ring("P-2", 4)) })

	assert.Equal(t, "P-1", store.Cart("till-1")[0].Product.ProductID)
	assert.Equal(t, "P-2", store.Cart("till-2")[0].Product.ProductID)
}

func TestNewSessionGetsDefaultContext(t *testing.T) {
	store, _ := newTestStore()
	bctx := store.Context("till-1")
	assert.Equal(t, 10.0, bctx.MakingChargePercent)
	assert.Equal(t, 3.0, bctx.GSTPercent)
	assert.Zero(t, bctx.GoldRatePer10g)
}

func TestCompleteSaleResetKeepsPercentages(t *testing.T) {
	store, _ := newTestStore()
	store.WithCart("till-1", func(c *Cart) { c.AddLine(ring("P-1", 4)) })
	store.SetContext("till-1", Context{GoldRatePer10g: 50000, SilverRatePer10g: 800, MakingChargePercent: 12, GSTPercent: 3})

	store.CompleteSaleReset("till-1")

	assert.Empty(t, store.Cart("till-1"))
	bctx := store.Context("till-1")
	assert.Zero(t, bctx.GoldRatePer10g)
	assert.Zero(t, bctx.SilverRatePer10g)
	assert.Equal(t, 12.0, bctx.MakingChargePercent)
	assert.Equal(t, 3.0, bctx.GSTPercent)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	store, now := newTestStore()
	store.WithCart("till-1", func(c *Cart) { c.AddLine(ring("P-1", 4)) })

	*now = now.Add(1 * time.Hour)
	store.WithCart("till-2", func(c *Cart) { c.AddLine(ring("P-2", 4)) })

	*now = now.Add(90 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
	assert.Empty(t, store.Cart("till-1"), "evicted session starts fresh")
}
