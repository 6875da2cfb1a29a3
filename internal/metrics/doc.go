// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

/*
Package metrics provides Prometheus metrics collection for the
preprocessing pipeline.

This package instruments every pipeline stage using the Prometheus client
library. A preprocessing run is batch-shaped rather than server-shaped, so
the metrics are gathered and logged at the end of a run instead of being
scraped from an endpoint; pushing to a Pushgateway works unchanged since
all metrics live in the default registry.

# Available Metrics

Load Metrics:
  - ratingraph_records_parsed_total: Parsed records per source file (counter)
    Labels: source
  - ratingraph_records_skipped_total: Records dropped during bulk scans (counter)
    Labels: source, reason
  - ratingraph_dataset_users, ratingraph_dataset_items,
    ratingraph_dataset_edges: Loaded dataset shape (gauges)
    Labels: dataset

Split Metrics:
  - ratingraph_partition_edges: Edges per split partition (gauge)
    Labels: dataset, partition (train, val, test)

Pipeline Metrics:
  - ratingraph_stage_duration_seconds: Stage duration (histogram)
    Labels: stage (load, split, normalize, persist)
  - ratingraph_pipeline_runs_total: Completed runs (counter)
    Labels: dataset, status (ok, error)

Cache Metrics:
  - ratingraph_cache_hits_total, ratingraph_cache_misses_total:
    Derived-cache efficiency (counters)

# Usage

	stats := metrics.Recorder{}           // satisfies the loader stats interface
	metrics.RecordStageDuration("load", time.Since(start))
	metrics.RecordPipelineRun("ml_100k", err)
*/
package metrics
