package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nkap"

// Metrics holds the collectors for the conversion core and its HTTP adapter
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CacheLookupsTotal     *prometheus.CounterVec
	CacheWritesTotal      *prometheus.CounterVec
	ProviderFetchesTotal  *prometheus.CounterVec
	ProviderFetchDuration prometheus.Histogram
	ConversionsTotal      *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg gets a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Rate cache lookups by result and miss reason",
			},
			[]string{"result", "reason"},
		),

		CacheWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_writes_total",
				Help:      "Rate cache writes by result",
			},
			[]string{"result"},
		),

		ProviderFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_fetches_total",
				Help:      "Remote rate fetches by result",
			},
			[]string{"result"},
		),

		ProviderFetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_fetch_duration_seconds",
				Help:      "Remote rate fetch duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Currency conversions by result",
			},
			[]string{"result"},
		),
	}
}
