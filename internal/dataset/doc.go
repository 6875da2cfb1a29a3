// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

// Package dataset loads rating datasets into the dense-index edge form the
// split engine consumes.
//
// # Supported datasets
//
//   - ml_100k: MovieLens 100K with the official u1.base/u1.test split,
//     demographic user features and genre item features.
//   - ml_1m: MovieLens 1M, randomly split by ratio, one-hot demographic user
//     features and multi-hot genre item features.
//   - flixster, douban, yahoo_music: Monti-style datasets shipped as a
//     named-field matrix container with Otraining/Otest observation masks and
//     optional side-weight matrices.
//   - book_crossing: Book-Crossing, filtered by a one-off utility
//     (FilterBooks) and split with a seeded internal test carve.
//
// Each dataset is described by a Schema registered by name; requesting an
// unregistered name is a configuration error (ErrUnknownDataset), never a
// partial result.
//
// # Identifier mapping
//
// Raw user and item identifiers may be non-contiguous integers or strings
// (ISBNs). MapIDs compresses them into dense zero-based indices in
// first-occurrence order, the order every downstream artifact is aligned to.
//
// # Error policy
//
// Malformed or undecodable records inside bulk catalog scans are counted and
// skipped; the scan continues. Structural problems (missing rating files,
// unknown dataset names, corrupt containers) fail the load.
package dataset
