// Package metrics holds the Prometheus collectors shared by the extractor,
// the batch runner and the keyword graph.
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// System metrics
	SystemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_memory_bytes",
		Help: "Current system memory usage",
	})

	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_goroutines",
		Help: "Number of goroutines",
	})

	// Extraction metrics
	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keyword_extraction_duration_seconds",
			Help:    "Time spent per extraction method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	MethodFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyword_extraction_method_failures_total",
			Help: "Number of extraction methods that failed and contributed nothing",
		},
		[]string{"method"},
	)

	KeywordResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyword_results_total",
			Help: "Number of keywords returned, by keyword type",
		},
		[]string{"type"},
	)

	ShortContent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keyword_extraction_short_content_total",
		Help: "Number of inputs too short to extract keywords from",
	})

	// Batch metrics
	BatchDocuments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyword_batch_documents_total",
			Help: "Number of batch documents by final status",
		},
		[]string{"status"},
	)

	BatchQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "keyword_batch_queue_length",
		Help: "Number of documents waiting to be processed",
	})

	// Graph metrics
	GraphNodeCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "keyword_graph_nodes_total",
			Help: "Total number of nodes in the keyword graph",
		},
		[]string{"node_type"},
	)

	GraphEdgeCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "keyword_graph_edges_total",
			Help: "Total number of edges in the keyword graph",
		},
		[]string{"edge_type"},
	)
)

// UpdateSystemMetrics updates system-level metrics
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SystemMemoryUsage.Set(float64(m.Alloc))
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}
