// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package split

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tomtom215/ratingraph/internal/dataset"
)

// holdoutValFraction is the share of the training source carved off as
// validation.
const holdoutValFraction = 0.2

// OfficialSplit handles datasets shipped with an external training/test
// file pair: the leading data.TrainCount edges came from the training file,
// the rest from the test file. The training subset is shuffled with the
// fixed seed and ceil(20%) of it carved off as validation; the test
// subset's order is never touched.
func OfficialSplit(data *dataset.RawData, opts Options) (*Result, error) {
	return holdoutSplit(data, opts)
}

// MaskedSplit handles datasets whose training/test membership comes from
// boolean observation masks. The loader emits mask positions in row-major
// order with the training positions leading, so the carve is identical to
// OfficialSplit.
func MaskedSplit(data *dataset.RawData, opts Options) (*Result, error) {
	return holdoutSplit(data, opts)
}

// holdoutSplit shuffles the training-source prefix and carves validation
// off its front.
func holdoutSplit(data *dataset.RawData, opts Options) (*Result, error) {
	grid, edges, err := buildEdges(data)
	if err != nil {
		return nil, err
	}

	n := data.Edges()
	tc := data.TrainCount
	if tc <= 0 || tc > n {
		return nil, fmt.Errorf("holdout split: training source has %d of %d edges", tc, n)
	}

	numVal := int(math.Ceil(float64(tc) * holdoutValFraction))
	if numVal >= tc {
		return nil, fmt.Errorf("holdout split: %d training edges leave no training set after validation carve", tc)
	}

	// Shuffle only the training-source prefix, keeping pairs and flat
	// indices co-indexed. The test suffix keeps its source order.
	rng := rand.New(rand.NewSource(opts.shuffleSeed())) //nolint:gosec // deterministic shuffle, not cryptographic
	rng.Shuffle(tc, func(i, j int) {
		edges.pairs[i], edges.pairs[j] = edges.pairs[j], edges.pairs[i]
		edges.flat[i], edges.flat[j] = edges.flat[j], edges.flat[i]
	})

	val := edges.slice(0, numVal)
	train := edges.slice(numVal, tc)
	test := edges.slice(tc, n)

	return assemble(data, grid, train, val, test, opts)
}
