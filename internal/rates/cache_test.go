package rates

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelstack/jewelpos-backend/pkg/errors"
)

type scriptedFeed struct {
	calls  int
	quotes []SpotQuote
	errs   []error
}

func (f *scriptedFeed) FetchSpot(context.Context) (SpotQuote, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return SpotQuote{}, f.errs[i]
	}
	return f.quotes[i], nil
}

func newTestCache(t *testing.T, feed Feed) (*Cache, *time.Time) {
	t.Helper()
	c, err := NewCache(feed, 30*time.Minute, nil)
	require.NoError(t, err)
	now := time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestGetRatesConvertsTroyOunceToGram(t *testing.T) {
	feed := &scriptedFeed{quotes: []SpotQuote{{GoldPerOunce: 155517.384, SilverPerOunce: 3110.34768, Currency: "INR"}}}
	c, _ := newTestCache(t, feed)

	rates, err := c.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5000.0, rates.GoldRatePerGram)
	assert.Equal(t, 100.0, rates.SilverRatePerGram)
	assert.Equal(t, "INR", rates.Currency)
	assert.False(t, rates.Stale)
}

func TestGetRatesRoundsAtCaching(t *testing.T) {
	feed := &scriptedFeed{quotes: []SpotQuote{{GoldPerOunce: 100000, SilverPerOunce: 1000, Currency: "INR"}}}
	c, _ := newTestCache(t, feed)

	rates, err := c.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3215.07, rates.GoldRatePerGram)
	assert.Equal(t, 32.15, rates.SilverRatePerGram)
}

func TestTwoCallsInsideTTLFetchOnce(t *testing.T) {
	feed := &scriptedFeed{quotes: []SpotQuote{{GoldPerOunce: 100000, SilverPerOunce: 1000}}}
	c, now := newTestCache(t, feed)

	_, err := c.GetRates(context.Background())
	require.NoError(t, err)

	*now = now.Add(29 * time.Minute)
	_, err = c.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, feed.calls)
}

func TestExpiredTTLRefetches(t *testing.T) {
	feed := &scriptedFeed{quotes: []SpotQuote{
		{GoldPerOunce: 100000, SilverPerOunce: 1000},
		{GoldPerOunce: 110000, SilverPerOunce: 1100},
	}}
	c, now := newTestCache(t, feed)

	_, err := c.GetRates(context.Background())
	require.NoError(t, err)

	*now = now.Add(31 * time.Minute)
	rates, err := c.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, feed.calls)
	assert.Equal(t, 3536.58, rates.GoldRatePerGram)
}

func TestStaleServedOnFetchError(t *testing.T) {
	feed := &scriptedFeed{
		quotes: []SpotQuote{{GoldPerOunce: 100000, SilverPerOunce: 1000, Currency: "INR"}, {}},
		errs:   []error{nil, fmt.Errorf("upstream 503")},
	}
	c, now := newTestCache(t, feed)

	fresh, err := c.GetRates(context.Background())
	require.NoError(t, err)

	*now = now.Add(31 * time.Minute)
	stale, err := c.GetRates(context.Background())
	require.NoError(t, err)
	assert.True(t, stale.Stale)
	assert.Equal(t, fresh.GoldRatePerGram, stale.GoldRatePerGram)
}

func TestErrorWithNoCachedValue(t *testing.T) {
	feed := &scriptedFeed{quotes: []SpotQuote{{}}, errs: []error{fmt.Errorf("dns failure")}}
	c, _ := newTestCache(t, feed)

	_, err := c.GetRates(context.Background())
	require.Error(t, err)
	appErr := errors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeRateFeed, appErr.Code())
}

func TestPurityFactor(t *testing.T) {
	assert.Equal(t, 1.0, PurityFactor("24K"))
	assert.InDelta(t, 22.0/24.0, PurityFactor("22k"), 1e-9)
	assert.InDelta(t, 0.75, PurityFactor("18KT"), 1e-9)
	assert.Equal(t, 1.0, PurityFactor(""))
	assert.Equal(t, 1.0, PurityFactor("hallmarked"))
	assert.Equal(t, 1.0, PurityFactor("99K"))
}
