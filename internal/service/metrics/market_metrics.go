package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    EndpointLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "smarttrade",
            Subsystem: "market",
            Name:      "latency_seconds",
            Help:      "Latency of market endpoints",
            Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
        },
        []string{"endpoint"},
    )

    EndpointErrors = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "smarttrade",
            Subsystem: "market",
            Name:      "errors_total",
            Help:      "Errors by market endpoint and kind",
        },
        []string{"endpoint", "kind"},
    )

    OverviewCache = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "smarttrade",
            Subsystem: "market",
            Name:      "overview_cache_total",
            Help:      "Market overview response cache lookups",
        },
        []string{"result"},
    )
)

func Register() {
    once.Do(func() {
        prometheus.MustRegister(EndpointLatency, EndpointErrors, OverviewCache)
    })
}
