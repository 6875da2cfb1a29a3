// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

// Package config provides layered configuration for Ratingraph using
// Koanf v2.
//
// Configuration is assembled from three layers with clear precedence:
//
//  1. Defaults: built-in sensible defaults
//  2. Config File: optional YAML file (config.yaml, or CONFIG_PATH)
//  3. Environment Variables: RATINGRAPH_* overrides, highest priority
//
// # Quick Start
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("invalid configuration")
//	}
//
// # Environment Variables
//
//	RATINGRAPH_DATASET          - dataset to preprocess (ml_100k, ml_1m, ...)
//	RATINGRAPH_DATA_DIR         - dataset root directory
//	RATINGRAPH_OUTPUT_DIR       - artifact output directory
//	RATINGRAPH_SEED             - load-time shuffle seed
//	RATINGRAPH_TESTING          - merge validation into training
//	RATINGRAPH_CACHE_ENABLED    - reuse the derived cache
//	RATINGRAPH_DOWNLOAD_ENABLED - fetch missing dataset files
//
// Every setting is validated after loading; an invalid configuration is a
// fatal startup error, never a partial run.
package config
