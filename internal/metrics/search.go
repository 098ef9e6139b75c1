package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream and search pipeline Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "landscan",
			Name:      "upstream_requests_total",
			Help:      "Total number of listing service requests",
		},
		[]string{"strategy", "status"}, // status: "ok" / "empty" / "error" / "unavailable"
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "landscan",
			Name:      "upstream_request_duration_seconds",
			Help:      "Listing service request duration in seconds, pacing delay included",
			Buckets:   []float64{0.25, 0.5, 1, 1.5, 2, 3, 5, 10, 15, 20},
		},
		[]string{"strategy"},
	)

	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "landscan",
			Name:      "search_total",
			Help:      "Total number of searches by outcome",
		},
		[]string{"outcome"}, // "complete" / "exhausted" / "partial"
	)

	SearchPages = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "landscan",
			Name:      "search_pages",
			Help:      "Pages attempted per search",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)

	SearchFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "landscan",
			Name:      "search_fallback_total",
			Help:      "Pages served by a fallback strategy",
		},
	)

	ListingsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "landscan",
			Name:      "listings_skipped_total",
			Help:      "Raw listings dropped during normalization",
		},
		[]string{"reason"}, // "filtered" / "malformed"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers upstream and search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(SearchPages)
	prometheus.MustRegister(SearchFallbackTotal)
	prometheus.MustRegister(ListingsSkippedTotal)
	searchMetricsRegistered = true
}
