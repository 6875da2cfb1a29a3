// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package split

import (
	"fmt"
	"math"

	"github.com/tomtom215/ratingraph/internal/dataset"
)

// Test and validation fractions for the ratio carve. Validation is a
// twentieth of the post-test remainder.
const (
	ratioTestFraction = 0.1
	ratioValFraction  = 0.05
)

// RatioSplit carves percentages off edges that were already shuffled at
// load time: the last ceil(10%) become test, then ceil(90%*5%) of the
// remainder become validation, the rest train. Edge order is not touched
// here — determinism comes from the loader's seeded shuffle.
func RatioSplit(data *dataset.RawData, opts Options) (*Result, error) {
	grid, edges, err := buildEdges(data)
	if err != nil {
		return nil, err
	}

	n := data.Edges()
	numTest := int(math.Ceil(float64(n) * ratioTestFraction))
	numVal := int(math.Ceil(float64(n) * (1 - ratioTestFraction) * ratioValFraction))
	numTrain := n - numVal - numTest
	if numTrain <= 0 {
		return nil, fmt.Errorf("ratio split: %d edges leave no training set (test %d, val %d)", n, numTest, numVal)
	}

	train := edges.slice(0, numTrain)
	val := edges.slice(numTrain, numTrain+numVal)
	test := edges.slice(numTrain+numVal, n)

	return assemble(data, grid, train, val, test, opts)
}
