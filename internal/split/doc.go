// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

// Package split partitions observed rating edges into train/validation/test
// sets and builds the training adjacency matrix.
//
// # Strategies
//
// Three interchangeable strategies produce the same Result shape:
//
//   - RatioSplit: percentage carve over edges shuffled at load time — the
//     last tenth becomes test, a twentieth of the remainder validation.
//   - OfficialSplit: the dataset ships a training/test file pair; validation
//     is carved out of the training-file subset.
//   - MaskedSplit: training/test membership comes from boolean observation
//     masks; the carve is identical to OfficialSplit.
//
// All shuffling goes through an explicit PRNG seeded with a declared
// constant (DefaultShuffleSeed), never process-global random state, so a run
// is a pure function of its inputs and seed. The test partition's relative
// order is never reshuffled.
//
// # Labels
//
// Rating values are mapped to contiguous class indices by rank in the sorted
// unique-value vocabulary. The label grid stores classes in a sparse map
// keyed by flat row-major index; unobserved cells read as the Sentinel
// constant. The training adjacency stores class index + 1 so an absent edge
// (implicit zero) is distinguishable from the lowest rating class.
//
// Every label lookup used while splitting is cross-checked against the
// rating-to-class mapping; a mismatch is an indexing bug and aborts the run.
package split
