package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Catalog API metrics
var (
	// JikanRequestsTotal counts gateway outcomes: success, rate_limited,
	// status_error, network_error, malformed, missing_data.
	JikanRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jikan_requests_total",
			Help: "Total number of catalog API fetches by outcome.",
		},
		[]string{"outcome"},
	)

	JikanRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jikan_retries_total",
			Help: "Total number of retries issued after a rate-limited response.",
		},
	)
)

// HTTP front-end metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the front-end.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)

	SuggestionsSupersededTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "search_suggestions_superseded_total",
			Help: "Total number of suggestion requests dropped by the debouncer.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		JikanRequestsTotal,
		JikanRetriesTotal,
		HTTPRequestDuration,
		SuggestionsSupersededTotal,
	)
}
