// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package split

import (
	"fmt"

	"github.com/tomtom215/ratingraph/internal/dataset"
	"github.com/tomtom215/ratingraph/internal/sparse"
)

// DefaultShuffleSeed is the fixed seed for the internal carve shuffle.
// Declared once so every strategy reproduces the same partitions for the
// same input.
const DefaultShuffleSeed = 42

// Options controls a split run.
type Options struct {
	// ShuffleSeed seeds the internal carve shuffle; zero selects
	// DefaultShuffleSeed.
	ShuffleSeed int64

	// Testing merges the validation partition back into training — labels,
	// index arrays, and the training adjacency — for final evaluation runs
	// where validation is not needed for tuning.
	Testing bool
}

// shuffleSeed resolves the effective seed.
func (o Options) shuffleSeed() int64 {
	if o.ShuffleSeed == 0 {
		return DefaultShuffleSeed
	}
	return o.ShuffleSeed
}

// Partition holds one split's labels and parallel edge index arrays.
type Partition struct {
	// Labels holds the class index of each edge.
	Labels []int

	// UserIdx and ItemIdx are parallel to Labels.
	UserIdx []int
	ItemIdx []int
}

// Len returns the number of edges in the partition.
func (p Partition) Len() int {
	return len(p.Labels)
}

// Result is the split engine's return contract, consumed by the model
// layer: side features, the training adjacency, the three partitions, and
// the sorted class vocabulary.
type Result struct {
	// UserFeatures and ItemFeatures pass through from the loaded dataset.
	UserFeatures *sparse.CSR
	ItemFeatures *sparse.CSR

	// TrainAdj is the training adjacency matrix over
	// (num_users x num_items), storing class index + 1 for train edges so
	// an absent edge reads as zero.
	TrainAdj *sparse.CSR

	// Train, Val, and Test partition the observed edges.
	Train Partition
	Val   Partition
	Test  Partition

	// ClassValues is the sorted distinct rating vocabulary; class index i
	// corresponds to ClassValues[i].
	ClassValues []float64
}

// Strategy is one split policy. All strategies produce the same Result
// shape from the same RawData contract.
type Strategy func(data *dataset.RawData, opts Options) (*Result, error)

// ForPolicy returns the strategy implementing a schema's split policy.
func ForPolicy(p dataset.SplitPolicy) (Strategy, error) {
	switch p {
	case dataset.SplitRatio:
		return RatioSplit, nil
	case dataset.SplitOfficial:
		return OfficialSplit, nil
	case dataset.SplitMasked:
		return MaskedSplit, nil
	default:
		return nil, fmt.Errorf("no strategy for split policy %d", p)
	}
}

// edgeList keeps edge pairs and their flat label-grid indices co-indexed
// through shuffles and carves.
type edgeList struct {
	pairs [][2]int
	flat  []int64
}

// buildEdges constructs the label grid and the co-indexed edge arrays, and
// verifies the grid against the source edges before any carving.
func buildEdges(data *dataset.RawData) (*LabelGrid, *edgeList, error) {
	grid, err := BuildLabelGrid(data.NumUsers, data.NumItems, data.UserIdx, data.ItemIdx, data.Ratings)
	if err != nil {
		return nil, nil, err
	}
	if err := grid.Verify(data.UserIdx, data.ItemIdx, data.Ratings); err != nil {
		return nil, nil, err
	}

	edges := &edgeList{
		pairs: make([][2]int, data.Edges()),
		flat:  make([]int64, data.Edges()),
	}
	for k := range data.Ratings {
		u, v := data.UserIdx[k], data.ItemIdx[k]
		edges.pairs[k] = [2]int{u, v}
		edges.flat[k] = grid.FlatIndex(u, v)
	}
	return grid, edges, nil
}

// slice returns the [lo, hi) sub-list.
func (e *edgeList) slice(lo, hi int) *edgeList {
	return &edgeList{pairs: e.pairs[lo:hi], flat: e.flat[lo:hi]}
}

// partition resolves a sub-list's labels through the grid. A sentinel or
// mismatched label here means the co-indexing broke, which aborts the run.
func (e *edgeList) partition(grid *LabelGrid) (Partition, error) {
	p := Partition{
		Labels:  make([]int, len(e.pairs)),
		UserIdx: make([]int, len(e.pairs)),
		ItemIdx: make([]int, len(e.pairs)),
	}
	for k, uv := range e.pairs {
		label := grid.AtFlat(e.flat[k])
		if label == Sentinel || grid.FlatIndex(uv[0], uv[1]) != e.flat[k] {
			return Partition{}, fmt.Errorf("%w: edge (%d,%d) flat %d resolved label %d",
				ErrLabelMismatch, uv[0], uv[1], e.flat[k], label)
		}
		p.Labels[k] = label
		p.UserIdx[k] = uv[0]
		p.ItemIdx[k] = uv[1]
	}
	return p, nil
}

// assemble produces the final Result from carved edge lists. With
// opts.Testing set, validation edges are appended to the training partition
// and contribute to the training adjacency.
func assemble(data *dataset.RawData, grid *LabelGrid, train, val, test *edgeList, opts Options) (*Result, error) {
	trainPart, err := train.partition(grid)
	if err != nil {
		return nil, err
	}
	valPart, err := val.partition(grid)
	if err != nil {
		return nil, err
	}
	testPart, err := test.partition(grid)
	if err != nil {
		return nil, err
	}

	adjEdges := &edgeList{
		pairs: append([][2]int{}, train.pairs...),
		flat:  append([]int64{}, train.flat...),
	}
	if opts.Testing {
		trainPart.Labels = append(trainPart.Labels, valPart.Labels...)
		trainPart.UserIdx = append(trainPart.UserIdx, valPart.UserIdx...)
		trainPart.ItemIdx = append(trainPart.ItemIdx, valPart.ItemIdx...)
		adjEdges.pairs = append(adjEdges.pairs, val.pairs...)
		adjEdges.flat = append(adjEdges.flat, val.flat...)
	}

	adj, err := buildTrainAdjacency(data.NumUsers, data.NumItems, grid, adjEdges)
	if err != nil {
		return nil, err
	}

	return &Result{
		UserFeatures: data.UserFeatures,
		ItemFeatures: data.ItemFeatures,
		TrainAdj:     adj,
		Train:        trainPart,
		Val:          valPart,
		Test:         testPart,
		ClassValues:  grid.ClassValues(),
	}, nil
}

// buildTrainAdjacency builds the sparse training adjacency, storing
// class index + 1 so "no edge" (implicit zero) cannot be confused with
// class zero.
func buildTrainAdjacency(numUsers, numItems int, grid *LabelGrid, edges *edgeList) (*sparse.CSR, error) {
	entries := make([]sparse.Entry, 0, len(edges.pairs))
	for k, uv := range edges.pairs {
		label := grid.AtFlat(edges.flat[k])
		if label == Sentinel {
			return nil, fmt.Errorf("%w: train edge (%d,%d) has no label", ErrLabelMismatch, uv[0], uv[1])
		}
		entries = append(entries, sparse.Entry{Row: uv[0], Col: uv[1], Val: float64(label) + 1})
	}
	return sparse.NewCSRFromEntries(numUsers, numItems, entries)
}
