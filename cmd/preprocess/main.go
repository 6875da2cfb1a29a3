// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

// Package main is the entry point for the Ratingraph preprocessing tool.
//
// Ratingraph turns raw user-item rating dumps (MovieLens, Book-Crossing,
// and Monti-style containers) into the artifacts a matrix-completion model
// consumes: dense-index edge lists, deterministic train/validation/test
// partitions, a sparse training adjacency, and side-feature matrices.
//
// # Execution Order
//
//  1. Configuration: defaults, optional YAML file, RATINGRAPH_ env overrides (Koanf v2)
//  2. Logging: global zerolog logger per the configured level and format
//  3. Pipeline: load (or cache-restore) the dataset, split per its schema policy
//  4. Artifacts: COO dumps of the adjacency and features, partition CSVs, a JSON summary
//
// # Example Usage
//
// Preprocess MovieLens 100K from a local copy:
//
//	export RATINGRAPH_DATASET=ml_100k
//	export RATINGRAPH_DATA_DIR=/srv/datasets
//	export RATINGRAPH_OUTPUT_DIR=/srv/artifacts
//	./preprocess
//
// Fetch missing files from a mirror first:
//
//	export RATINGRAPH_DOWNLOAD_ENABLED=true
//	./preprocess
//
// Final evaluation run with validation folded into training:
//
//	export RATINGRAPH_TESTING=true
//	./preprocess
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/tomtom215/ratingraph/internal/config"
	"github.com/tomtom215/ratingraph/internal/logging"
	"github.com/tomtom215/ratingraph/internal/metrics"
	"github.com/tomtom215/ratingraph/internal/pipeline"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("dataset", cfg.Dataset).
		Str("data_dir", cfg.DataDir).
		Str("output_dir", cfg.OutputDir).
		Int64("seed", cfg.Seed).
		Bool("testing", cfg.Testing).
		Msg("Configuration loaded")

	// Preprocessing is batch-shaped; a signal aborts the run rather than
	// draining it.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := pipeline.Run(ctx, cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Preprocessing failed")
	}

	start := time.Now()
	if err := writeArtifacts(cfg.OutputDir, cfg.Dataset, cfg.Symmetric, res); err != nil {
		logging.Fatal().Err(err).Msg("Failed to write artifacts")
	}
	metrics.RecordStageDuration("write", time.Since(start))

	logMetrics()

	logging.Info().
		Str("output_dir", cfg.OutputDir).
		Int("train", res.Train.Len()).
		Int("val", res.Val.Len()).
		Int("test", res.Test.Len()).
		Msg("Preprocessing complete")

	os.Exit(0)
}

// logMetrics gathers the run's Prometheus metrics and logs them at debug
// level. A batch run has no scrape endpoint, so this is the export path.
func logMetrics() {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to gather metrics")
		return
	}
	for _, mf := range families {
		logFamily(mf)
	}
}

func logFamily(mf *dto.MetricFamily) {
	logging.Debug().
		Str("metric", mf.GetName()).
		Str("type", mf.GetType().String()).
		Int("series", len(mf.GetMetric())).
		Msg("metric gathered")
}
