package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "knowsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "knowsearch",
			Name:      "search_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	SearchDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "knowsearch",
			Name:      "search_degraded_total",
			Help:      "Semantic searches that degraded to keyword mode",
		},
	)

	SearchCandidatesSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "knowsearch",
			Name:      "search_candidates_skipped_total",
			Help:      "Candidates excluded from ranking due to dimension mismatch",
		},
	)

	SearchSnippetFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "knowsearch",
			Name:      "search_snippet_failures_total",
			Help:      "Snippet extraction failures recovered with an empty snippet",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SearchCandidatesSkippedTotal)
	prometheus.MustRegister(SearchSnippetFailuresTotal)
	searchMetricsRegistered = true
}
