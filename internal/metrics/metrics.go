// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flixcase_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flixcase_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Transcoder metrics
var (
	TranscodeJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flixcase_transcode_jobs_total",
			Help: "Total number of transcode jobs by preset and outcome",
		},
		[]string{"preset", "outcome"}, // outcome: success, failure, cancelled
	)

	TranscodeJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flixcase_transcode_job_duration_seconds",
			Help:    "Wall-clock duration of transcode jobs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 2400, 3600, 7200},
		},
		[]string{"preset"},
	)

	TranscodeJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flixcase_transcode_jobs_in_progress",
			Help: "Number of transcode jobs currently running",
		},
	)
)

// Import metrics
var (
	ImportItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flixcase_import_items_total",
			Help: "Imported items by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: movie, episode; outcome: committed, skipped, cancelled, failed
	)

	ImportsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flixcase_imports_in_progress",
			Help: "Number of import operations currently running",
		},
	)
)

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeCancelled = "cancelled"
	OutcomeCommitted = "committed"
	OutcomeSkipped   = "skipped"
)
