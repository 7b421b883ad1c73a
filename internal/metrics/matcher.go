package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching service client Prometheus metrics.
var (
	MatcherRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dnamatch",
			Name:      "matcher_requests_total",
			Help:      "Total number of k-mer search requests sent to the matching service",
		},
		[]string{"status"}, // "success" / "transport_error" / "service_error" / "decode_error"
	)

	MatcherRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dnamatch",
			Name:      "matcher_request_duration_seconds",
			Help:      "Matching service round-trip duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	MatcherResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dnamatch",
			Name:      "matcher_results",
			Help:      "Number of candidates returned per successful search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	SearchStateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dnamatch",
			Name:      "search_state_transitions_total",
			Help:      "Search lifecycle transitions by target state",
		},
		[]string{"state"},
	)
)

var matcherMetricsRegistered bool

// RegisterMatcherMetrics registers Prometheus matcher metrics. Must be called once from main.
func RegisterMatcherMetrics() {
	if matcherMetricsRegistered {
		return
	}
	prometheus.MustRegister(MatcherRequestsTotal)
	prometheus.MustRegister(MatcherRequestDuration)
	prometheus.MustRegister(MatcherResults)
	prometheus.MustRegister(SearchStateTransitions)
	matcherMetricsRegistered = true
}
