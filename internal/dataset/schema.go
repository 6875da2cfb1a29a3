// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownDataset indicates a dataset name with no registered schema.
// This is a fatal configuration error: no partial result is produced.
var ErrUnknownDataset = errors.New("unknown dataset")

// SplitPolicy selects the strategy the split engine applies to a loaded
// dataset.
type SplitPolicy int

const (
	// SplitRatio carves test and validation sets by percentage from edges
	// shuffled at load time.
	SplitRatio SplitPolicy = iota

	// SplitOfficial uses an externally supplied training/test file pair and
	// carves validation out of the training-file subset.
	SplitOfficial

	// SplitMasked takes training/test membership from boolean observation
	// masks (Monti-style containers) and carves validation like SplitOfficial.
	SplitMasked
)

// String returns the policy name.
func (p SplitPolicy) String() string {
	switch p {
	case SplitRatio:
		return "ratio"
	case SplitOfficial:
		return "official"
	case SplitMasked:
		return "masked"
	default:
		return "unknown"
	}
}

// Schema describes one dataset variant: how its files are parsed, which
// side features it carries, and how its edges are partitioned. Schemas
// replace scattered per-dataset conditionals with a single registry lookup.
type Schema struct {
	// Name is the dataset identifier, also the directory name under the
	// data root.
	Name string

	// Policy is the split strategy for this dataset.
	Policy SplitPolicy

	// Load parses the dataset files into dense-index edge form. The context
	// bounds the optional dataset fetch; parsing itself is synchronous.
	Load func(ctx context.Context, opts LoadOptions) (*RawData, error)
}

// registry maps dataset names to their schemas.
var registry = map[string]Schema{
	"ml_100k": {
		Name:   "ml_100k",
		Policy: SplitOfficial,
		Load:   LoadML100K,
	},
	"ml_1m": {
		Name:   "ml_1m",
		Policy: SplitRatio,
		Load:   LoadML1M,
	},
	"flixster": {
		Name:   "flixster",
		Policy: SplitMasked,
		Load:   montiLoader("flixster"),
	},
	"douban": {
		Name:   "douban",
		Policy: SplitMasked,
		Load:   montiLoader("douban"),
	},
	"yahoo_music": {
		Name:   "yahoo_music",
		Policy: SplitMasked,
		Load:   montiLoader("yahoo_music"),
	},
	"book_crossing": {
		Name:   "book_crossing",
		Policy: SplitOfficial,
		Load:   LoadBooks,
	},
}

// Lookup returns the schema registered for name.
func Lookup(name string) (Schema, error) {
	s, ok := registry[name]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownDataset, name, Names())
	}
	return s, nil
}

// Names returns the registered dataset names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
