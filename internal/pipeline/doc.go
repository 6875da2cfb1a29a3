// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

// Package pipeline orchestrates a preprocessing run: schema lookup, the
// derived-tuple cache, the dataset load, and the split, in that order.
//
// A run is a pure function of (dataset files, seed, testing flag); the
// pipeline adds observability around it — a uuid run id on every log line,
// stage timings and partition sizes as Prometheus metrics — without
// touching the data path. Feature padding and degree normalization are left
// to the model layer via internal/sparse.
package pipeline
