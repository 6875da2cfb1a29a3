// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

// Package sparse implements the sparse-matrix primitives used throughout the
// preprocessing pipeline: CSR (compressed sparse row) storage, COO
// (coordinate-triple) export for downstream tensor construction, degree-based
// normalization, and zero-padding of side-feature matrices into a shared
// column space.
//
// # Representations
//
// CSR is the working representation. All construction paths produce
// deterministic, row-major-ordered storage, so byte-identical inputs yield
// byte-identical matrices. COO is a flat export format: (row, col) coordinate
// pairs in row-major scan order, parallel value array, and the matrix shape.
//
// # Normalization
//
// Two normalization families are provided:
//
//   - NormalizeRows: each row divided by its sum (row-stochastic output).
//     Zero-sum rows are treated as having infinite degree and come out all
//     zero rather than raising a division error.
//   - NormalizeBipartite: symmetric (D_r^-1/2 A D_c^-1/2) or asymmetric
//     (D_r^-1 A) normalization of a set of equally shaped adjacency matrices,
//     with degrees computed from the elementwise sum of the set.
//
// A normalization whose result has no nonzero entries signals upstream data
// corruption and is reported as ErrAllZero rather than silently returned.
package sparse
