package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarttrade_upstream_calls_total",
			Help: "Upstream API calls by source, operation and result",
		},
		[]string{"source", "op", "result"},
	)
	upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smarttrade_upstream_duration_seconds",
			Help:    "Duration of upstream API calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		},
		[]string{"source", "op"},
	)
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarttrade_cache_lookups_total",
			Help: "Response cache lookups by source, key and result",
		},
		[]string{"source", "key", "result"},
	)
	fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarttrade_fallbacks_total",
			Help: "Times a client served stale or static fallback data",
		},
		[]string{"source", "reason"},
	)
	recommendations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarttrade_recommendations_total",
			Help: "Scored recommendations returned, by asset type",
		},
		[]string{"type"},
	)

	registerOnce sync.Once
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct{}

// New registers the collectors on first use and returns a recorder.
func New() *Recorder {
	registerOnce.Do(func() {
		prometheus.MustRegister(upstreamCalls, upstreamLatency, cacheLookups, fallbacks, recommendations)
	})
	return &Recorder{}
}

// RecordUpstreamCall records one outbound call and its latency.
func (r *Recorder) RecordUpstreamCall(source, op string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	upstreamCalls.WithLabelValues(source, op, result).Inc()
	upstreamLatency.WithLabelValues(source, op).Observe(seconds)
}

// RecordCache records a cache hit or miss.
func (r *Recorder) RecordCache(source, key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(source, key, result).Inc()
}

// RecordFallback records a stale or static substitution.
func (r *Recorder) RecordFallback(source, reason string) {
	fallbacks.WithLabelValues(source, reason).Inc()
}

// RecordRecommendations records how many recommendations of a type were returned.
func (r *Recorder) RecordRecommendations(assetType string, n int) {
	recommendations.WithLabelValues(assetType).Add(float64(n))
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordUpstreamCall(string, string, float64, error) {}
func (Nop) RecordCache(string, string, bool) {}
func (Nop) RecordFallback(string, string) {}
func (Nop) RecordRecommendations(string, int) {}
