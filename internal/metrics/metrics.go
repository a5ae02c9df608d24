package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateRequestsTotal *prometheus.CounterVec

	UpstreamFetchesTotal  *prometheus.CounterVec
	UpstreamFetchDuration *prometheus.HistogramVec
	CacheLookupsTotal     *prometheus.CounterVec
	HistoryFallbacksTotal prometheus.Counter
}

// NewMetrics registers the service collectors with reg. Pass
// prometheus.DefaultRegisterer in the server and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
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

		RateRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_requests_total",
				Help: "Total number of exchange rate requests by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		UpstreamFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecb_upstream_fetches_total",
				Help: "Total number of ECB document downloads by document and outcome",
			},
			[]string{"document", "outcome"},
		),

		UpstreamFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ecb_upstream_fetch_duration_seconds",
				Help:    "ECB document download and parse duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"document"},
		),

		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecb_cache_lookups_total",
				Help: "Rate table cache lookups by document and result",
			},
			[]string{"document", "result"},
		),

		HistoryFallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ecb_history_fallbacks_total",
				Help: "Historical lookups that missed the 90-day document and fell back to the full history",
			},
		),
	}
}
