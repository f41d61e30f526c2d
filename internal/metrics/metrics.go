// Package metrics provides Prometheus instrumentation for the catalog.
//
// All metrics are prefixed with "hearth_" and registered on the default
// registry through promauto. Mount promhttp.Handler() to expose them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearth_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hearth_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Catalog metrics
var (
	ItemsAllocatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearth_items_allocated_total",
			Help: "Total number of item ids issued, by item type",
		},
		[]string{"type"},
	)

	FilesIndexedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearth_files_indexed_total",
			Help: "Total number of media files indexed, by kind and status",
		},
		[]string{"kind", "status"},
	)

	ArtDedupHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearth_art_dedup_hits_total",
			Help: "Total number of art lookups satisfied by an existing content hash",
		},
	)

	ArtCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearth_art_created_total",
			Help: "Total number of new art records",
		},
	)

	GenreCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearth_genre_cache_hits_total",
			Help: "Total number of genre lookups served from memory",
		},
	)

	GenreCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearth_genre_cache_misses_total",
			Help: "Total number of genre lookups that reached storage",
		},
	)
)

// Scanner metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearth_scan_runs_total",
			Help: "Total number of library scans",
		},
	)

	ScanLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hearth_scan_last_run_duration_seconds",
			Help: "Duration of the last library scan in seconds",
		},
	)

	ScanFilesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearth_scan_files_skipped_total",
			Help: "Total number of files found up to date during scans",
		},
	)

	ScanErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearth_scan_errors_total",
			Help: "Total number of files that failed to index",
		},
	)
)

// RecordQuery records the outcome and duration of one database operation.
func RecordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	DBQueryTotal.WithLabelValues(operation, status).Inc()
	DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
