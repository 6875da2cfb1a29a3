// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the preprocessing pipeline:
// - Record parse and skip counts per source file
// - Loaded dataset shape (users, items, edges)
// - Partition sizes after the split
// - Stage durations and run outcomes
// - Derived-cache efficiency

var (
	// Load Metrics
	RecordsParsedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratingraph_records_parsed_total",
			Help: "Total number of records parsed per source file",
		},
		[]string{"source"},
	)

	RecordsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratingraph_records_skipped_total",
			Help: "Total number of records skipped during bulk scans",
		},
		[]string{"source", "reason"},
	)

	DatasetUsers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratingraph_dataset_users",
			Help: "Number of distinct users after identifier mapping",
		},
		[]string{"dataset"},
	)

	DatasetItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratingraph_dataset_items",
			Help: "Number of distinct items after identifier mapping",
		},
		[]string{"dataset"},
	)

	DatasetEdges = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratingraph_dataset_edges",
			Help: "Number of observed rating edges",
		},
		[]string{"dataset"},
	)

	// Split Metrics
	PartitionEdges = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratingraph_partition_edges",
			Help: "Number of edges in each split partition",
		},
		[]string{"dataset", "partition"}, // partition: "train", "val", "test"
	)

	// Pipeline Metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ratingraph_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}, // large dumps take minutes
		},
		[]string{"stage"}, // "load", "split", "write"
	)

	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratingraph_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"dataset", "status"}, // status: "ok", "error"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratingraph_cache_hits_total",
			Help: "Total number of derived-cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratingraph_cache_misses_total",
			Help: "Total number of derived-cache misses",
		},
	)
)

// Recorder adapts the package counters to the loader-facing stats
// interface.
type Recorder struct{}

// RecordsParsed adds n successfully parsed records for a source file.
func (Recorder) RecordsParsed(source string, n int) {
	RecordsParsedTotal.WithLabelValues(source).Add(float64(n))
}

// RecordSkipped counts one record dropped during a bulk scan.
func (Recorder) RecordSkipped(source, reason string) {
	RecordsSkippedTotal.WithLabelValues(source, reason).Inc()
}

// RecordDatasetShape records the shape of a loaded dataset.
func RecordDatasetShape(dataset string, users, items, edges int) {
	DatasetUsers.WithLabelValues(dataset).Set(float64(users))
	DatasetItems.WithLabelValues(dataset).Set(float64(items))
	DatasetEdges.WithLabelValues(dataset).Set(float64(edges))
}

// RecordPartitionSizes records the three partition sizes after a split.
func RecordPartitionSizes(dataset string, train, val, test int) {
	PartitionEdges.WithLabelValues(dataset, "train").Set(float64(train))
	PartitionEdges.WithLabelValues(dataset, "val").Set(float64(val))
	PartitionEdges.WithLabelValues(dataset, "test").Set(float64(test))
}

// RecordStageDuration records the duration of one pipeline stage.
func RecordStageDuration(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordPipelineRun records a completed pipeline run.
func RecordPipelineRun(dataset string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	PipelineRunsTotal.WithLabelValues(dataset, status).Inc()
}

// RecordCacheHit records a derived-cache hit.
func RecordCacheHit() {
	CacheHits.Inc()
}

// RecordCacheMiss records a derived-cache miss.
func RecordCacheMiss() {
	CacheMisses.Inc()
}
