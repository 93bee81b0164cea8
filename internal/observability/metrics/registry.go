// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks request latency with buckets sized for API
	// response times, enabling accurate p95 and p99 measurements.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks the current number of HTTP requests being processed.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Business metrics track application-specific operations
var (
	// QuoteFetchesTotal counts Finviz quote page fetches by outcome
	QuoteFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_fetches_total",
			Help: "Total number of Finviz quote fetches",
		},
		[]string{"status"},
	)

	// ScreenerFetchesTotal counts screener export fetches by outcome
	// (success, error, stale when the cached snapshot was served)
	ScreenerFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_fetches_total",
			Help: "Total number of screener export fetches",
		},
		[]string{"status"},
	)

	// ScreenerSnapshotRows tracks the row count of the cached screener snapshot
	ScreenerSnapshotRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screener_snapshot_rows",
			Help: "Number of rows in the cached screener snapshot",
		},
	)

	// SummariesTotal counts produced article summaries by mode
	// (extractive, excerpt, fallback)
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_total",
			Help: "Total number of article summaries produced",
		},
		[]string{"mode"},
	)

	// SummarizationDuration measures time to summarize an article
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to summarize an article",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)

	// ArticleFetchDuration measures time to download and extract an article
	ArticleFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "article_fetch_duration_seconds",
			Help:    "Time taken to download and extract an article",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// TranslationsTotal counts translation calls by provider and outcome
	TranslationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translations_total",
			Help: "Total number of translation calls",
		},
		[]string{"provider", "status"},
	)
)

// RecordQuoteFetch records the outcome of a quote fetch.
func RecordQuoteFetch(status string) {
	QuoteFetchesTotal.WithLabelValues(status).Inc()
}

// RecordScreenerFetch records the outcome of a screener export fetch.
func RecordScreenerFetch(status string) {
	ScreenerFetchesTotal.WithLabelValues(status).Inc()
}

// RecordSummary records a produced summary and its duration.
func RecordSummary(mode string, duration time.Duration) {
	SummariesTotal.WithLabelValues(mode).Inc()
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordTranslation records the outcome of a translation call.
func RecordTranslation(provider, status string) {
	TranslationsTotal.WithLabelValues(provider, status).Inc()
}
