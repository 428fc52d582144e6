package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SaleMetrics records billing engine submission outcomes.
type SaleMetrics struct {
	duration  prometheus.Histogram
	submitted prometheus.Counter
	partial   prometheus.Counter
	rejected  *prometheus.CounterVec
}

// NewSaleMetrics registers the billing metrics on the provided registerer.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sale_submission_duration_seconds",
		Help:    "Duration of the per-line bill submission loop.",
		Buckets: prometheus.DefBuckets,
	})
	submitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bills_submitted_total",
		Help: "Bill rows persisted by completed sales.",
	})
	partial := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sale_partial_failures_total",
		Help: "Sales where only a subset of bill rows persisted.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_validation_rejections_total",
		Help: "Sales rejected before any repository call.",
	}, []string{"reason"})
	reg.MustRegister(duration, submitted, partial, rejected)
	return &SaleMetrics{
		duration:  duration,
		submitted: submitted,
		partial:   partial,
		rejected:  rejected,
	}
}

// ObserveDuration records the submission loop duration.
func (s *SaleMetrics) ObserveDuration(d time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.Observe(d.Seconds())
}

// AddSubmitted increments the persisted bill counter.
func (s *SaleMetrics) AddSubmitted(n int) {
	if s == nil || s.submitted == nil {
		return
	}
	s.submitted.Add(float64(n))
}

// IncPartialFailure increments the partial submission counter.
func (s *SaleMetrics) IncPartialFailure() {
	if s == nil || s.partial == nil {
		return
	}
	s.partial.Inc()
}

// IncRejected increments the validation rejection counter for the reason.
func (s *SaleMetrics) IncRejected(reason string) {
	if s == nil || s.rejected == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	s.rejected.WithLabelValues(reason).Inc()
}

// RateFeedMetrics records spot price fetch behavior.
type RateFeedMetrics struct {
	fetches       *prometheus.CounterVec
	cacheHits     prometheus.Counter
	staleServed   prometheus.Counter
	fetchDuration prometheus.Histogram
}

// NewRateFeedMetrics registers the rate feed metrics on the provided registerer.
func NewRateFeedMetrics(reg prometheus.Registerer) *RateFeedMetrics {
	if reg == nil {
		return &RateFeedMetrics{}
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_feed_fetches_total",
		Help: "External spot price fetch attempts.",
	}, []string{"outcome"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_feed_cache_hits_total",
		Help: "Rate reads served from the cache window.",
	})
	staleServed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_feed_stale_served_total",
		Help: "Rate reads served from an expired value after a fetch failure.",
	})
	fetchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rate_feed_fetch_duration_seconds",
		Help:    "Duration of external spot price fetches.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(fetches, cacheHits, staleServed, fetchDuration)
	return &RateFeedMetrics{
		fetches:       fetches,
		cacheHits:     cacheHits,
		staleServed:   staleServed,
		fetchDuration: fetchDuration,
	}
}

// IncFetch increments the fetch counter with the given outcome label.
func (r *RateFeedMetrics) IncFetch(outcome string) {
	if r == nil || r.fetches == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	r.fetches.WithLabelValues(outcome).Inc()
}

// IncCacheHit increments the cache hit counter.
func (r *RateFeedMetrics) IncCacheHit() {
	if r == nil || r.cacheHits == nil {
		return
	}
	r.cacheHits.Inc()
}

// IncStaleServed increments the stale fallback counter.
func (r *RateFeedMetrics) IncStaleServed() {
	if r == nil || r.staleServed == nil {
		return
	}
	r.staleServed.Inc()
}

// ObserveFetchDuration records an external fetch duration.
func (r *RateFeedMetrics) ObserveFetchDuration(d time.Duration) {
	if r == nil || r.fetchDuration == nil {
		return
	}
	r.fetchDuration.Observe(d.Seconds())
}
