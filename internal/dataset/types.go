// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingraph/internal/sparse"
)

// RawData is a loaded dataset in dense-index edge form, the input contract
// of the split engine. All slices are parallel: edge k is
// (UserIdx[k], ItemIdx[k], Ratings[k]).
type RawData struct {
	// NumUsers is the number of distinct users after identifier mapping.
	NumUsers int

	// NumItems is the number of distinct items after identifier mapping.
	NumItems int

	// UserIdx holds the dense user index of each observed edge.
	UserIdx []int

	// ItemIdx holds the dense item index of each observed edge.
	ItemIdx []int

	// Ratings holds the raw rating value of each observed edge.
	Ratings []float64

	// UserFeatures and ItemFeatures are the side-feature matrices, rows
	// aligned to the dense index spaces. Identifiers filtered out upstream
	// leave all-zero rows.
	UserFeatures *sparse.CSR
	ItemFeatures *sparse.CSR

	// TrainCount is the number of leading edges that came from the training
	// source (official training file or Otraining mask). Zero for datasets
	// split purely by ratio.
	TrainCount int
}

// Edges returns the number of observed edges.
func (d *RawData) Edges() int {
	return len(d.Ratings)
}

// BooksFilterConfig holds the Book-Crossing filtering thresholds. The
// original pipeline hard-coded these; they are configuration here because
// their derivation is undocumented.
type BooksFilterConfig struct {
	// MinAge and MaxAge bound the plausible user-age window; users outside
	// it (or with no age) are dropped.
	MinAge float64 `koanf:"min_age"`
	MaxAge float64 `koanf:"max_age"`

	// MinRatingFraction is the minimum fraction of the catalog a user must
	// have rated to be kept.
	MinRatingFraction float64 `koanf:"min_rating_fraction"`

	// TestFraction is the fraction of ratings carved off as the test set.
	TestFraction float64 `koanf:"test_fraction"`
}

// DefaultBooksFilterConfig returns the filtering thresholds the original
// pipeline used.
func DefaultBooksFilterConfig() BooksFilterConfig {
	return BooksFilterConfig{
		MinAge:            2,
		MaxAge:            100,
		MinRatingFraction: 0.00005,
		TestFraction:      0.1,
	}
}

// LoadOptions carries everything a dataset loader needs. A load is a pure
// function of (dataset files, Seed, Books thresholds); Logger and Stats only
// observe it.
type LoadOptions struct {
	// DataDir is the dataset root; files live under DataDir/<dataset>/.
	DataDir string

	// Seed drives every randomized load step (upstream edge shuffles, the
	// Book-Crossing test carve) through an explicit PRNG.
	Seed int64

	// Logger receives structured progress and per-record skip events.
	Logger zerolog.Logger

	// Books holds the Book-Crossing filter thresholds.
	Books BooksFilterConfig

	// Fetcher, when non-nil, downloads missing dataset files before the
	// load. Nil disables fetching; missing files then fail the load.
	Fetcher *Fetcher

	// Stats, when non-nil, receives record counters.
	Stats Stats
}

// Stats receives load-time counters. Implemented by the metrics package;
// kept as a local interface so loaders do not depend on the metrics stack.
type Stats interface {
	// RecordsParsed adds n successfully parsed records for a source file.
	RecordsParsed(source string, n int)

	// RecordSkipped counts one record dropped during a bulk scan.
	RecordSkipped(source, reason string)
}
