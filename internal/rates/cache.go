package rates

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jewelstack/jewelpos-backend/pkg/errors"
	"github.com/jewelstack/jewelpos-backend/pkg/metrics"
)

// GramsPerTroyOunce converts the feed's troy-ounce quotes to the per-gram
// rates shown at the counter.
const GramsPerTroyOunce = 31.1034768

// MetalRates is the per-gram view served to clients, already rounded to two
// decimal places when cached.
type MetalRates struct {
	GoldRatePerGram   float64   `json:"goldRatePerGram"`
	SilverRatePerGram float64   `json:"silverRatePerGram"`
	Currency          string    `json:"currency"`
	LastUpdated       time.Time `json:"lastUpdated"`
	Stale             bool      `json:"stale"`
}

// Cache serves spot rates from memory, refreshing from the feed when the
// cached value is older than the TTL. A failed refresh falls back to the
// last good value marked stale; the cache only errors when it has never
// fetched successfully.
type Cache struct {
	feed    Feed
	ttl     time.Duration
	metrics *metrics.RateFeedMetrics

	mu        sync.Mutex
	last      *MetalRates
	fetchedAt time.Time
	now       func() time.Time
}

func NewCache(feed Feed, ttl time.Duration, m *metrics.RateFeedMetrics) (*Cache, error) {
	if feed == nil {
		return nil, errors.New(errors.CodeInternal, "rate cache requires a feed")
	}
	return &Cache{feed: feed, ttl: ttl, metrics: m, now: time.Now}, nil
}

func perGram(perOunce float64) float64 {
	return decimal.NewFromFloat(perOunce).
		Div(decimal.NewFromFloat(GramsPerTroyOunce)).
		Round(2).
		InexactFloat64()
}

// GetRates returns the cached rates, refreshing from the feed when the
// cached value has aged past the TTL.
func (c *Cache) GetRates(ctx context.Context) (MetalRates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		c.metrics.IncCacheHit()
		return *c.last, nil
	}
	return c.refreshLocked(ctx)
}

// Refresh fetches from the feed unconditionally. The background ticker uses
// it so the cache stays warm between requests.
func (c *Cache) Refresh(ctx context.Context) (MetalRates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Cache) refreshLocked(ctx context.Context) (MetalRates, error) {
	start := c.now()
	quote, err := c.feed.FetchSpot(ctx)
	c.metrics.ObserveFetchDuration(c.now().Sub(start))
	if err != nil {
		c.metrics.IncFetch("error")
		if c.last != nil {
			c.metrics.IncStaleServed()
			stale := *c.last
			stale.Stale = true
			return stale, nil
		}
		return MetalRates{}, errors.Wrap(errors.CodeRateFeed, err, "no cached rates available")
	}

	c.metrics.IncFetch("success")
	rates := MetalRates{
		GoldRatePerGram:   perGram(quote.GoldPerOunce),
		SilverRatePerGram: perGram(quote.SilverPerOunce),
		Currency:          quote.Currency,
		LastUpdated:       quote.FetchedAt,
	}
	c.last = &rates
	c.fetchedAt = c.now()
	return rates, nil
}
