// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package split

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel marks an unobserved cell in the label grid. It is a negative
// reserved constant so it can never collide with a class index.
const Sentinel = -1

// ErrLabelMismatch indicates a label-grid lookup disagreed with the
// rating-to-class mapping — an indexing bug, never recoverable.
var ErrLabelMismatch = errors.New("label grid does not match rating classes")

// LabelGrid maps observed (user, item) cells to rating class indices.
// Storage is a hash map keyed by flat row-major index rather than a dense
// num_users x num_items grid, which would be memory-proportional to the full
// cross product.
type LabelGrid struct {
	numUsers int
	numItems int

	// cells maps flat index to class index; absent cells are Sentinel.
	cells map[int64]int

	// classIdx maps each distinct rating value to its class index, the
	// value's rank in the sorted vocabulary.
	classIdx map[float64]int

	// classValues is the sorted distinct rating vocabulary.
	classValues []float64
}

// BuildLabelGrid constructs the grid from parallel edge arrays. Class
// indices are contiguous integers 0..K-1 assigned by rank in the sorted
// unique rating values.
func BuildLabelGrid(numUsers, numItems int, uIdx, vIdx []int, ratings []float64) (*LabelGrid, error) {
	if len(uIdx) != len(ratings) || len(vIdx) != len(ratings) {
		return nil, fmt.Errorf("edge arrays not parallel: %d users, %d items, %d ratings",
			len(uIdx), len(vIdx), len(ratings))
	}

	g := &LabelGrid{
		numUsers:    numUsers,
		numItems:    numItems,
		cells:       make(map[int64]int, len(ratings)),
		classIdx:    make(map[float64]int),
		classValues: sortedUnique(ratings),
	}
	for i, v := range g.classValues {
		g.classIdx[v] = i
	}

	for k := range ratings {
		u, v := uIdx[k], vIdx[k]
		if u < 0 || u >= numUsers || v < 0 || v >= numItems {
			return nil, fmt.Errorf("edge (%d,%d) outside %dx%d grid", u, v, numUsers, numItems)
		}
		g.cells[g.FlatIndex(u, v)] = g.classIdx[ratings[k]]
	}

	return g, nil
}

// FlatIndex returns the row-major flat index of cell (u, v).
func (g *LabelGrid) FlatIndex(u, v int) int64 {
	return int64(u)*int64(g.numItems) + int64(v)
}

// At returns the class index at (u, v), or Sentinel when unobserved.
func (g *LabelGrid) At(u, v int) int {
	return g.AtFlat(g.FlatIndex(u, v))
}

// AtFlat returns the class index at a flat row-major index, or Sentinel
// when unobserved.
func (g *LabelGrid) AtFlat(flat int64) int {
	if c, ok := g.cells[flat]; ok {
		return c
	}
	return Sentinel
}

// ClassValues returns the sorted distinct rating vocabulary.
func (g *LabelGrid) ClassValues() []float64 {
	return g.classValues
}

// ClassIndex returns the class index of a rating value, or Sentinel for a
// value outside the vocabulary.
func (g *LabelGrid) ClassIndex(rating float64) int {
	if c, ok := g.classIdx[rating]; ok {
		return c
	}
	return Sentinel
}

// Verify cross-checks every edge's grid cell against the rating-to-class
// mapping. A disagreement means the grid and the edge arrays have drifted
// apart and the run must abort.
func (g *LabelGrid) Verify(uIdx, vIdx []int, ratings []float64) error {
	for k := range ratings {
		want := g.ClassIndex(ratings[k])
		if got := g.At(uIdx[k], vIdx[k]); got != want {
			return fmt.Errorf("%w: edge (%d,%d) has class %d, rating %v maps to %d",
				ErrLabelMismatch, uIdx[k], vIdx[k], got, ratings[k], want)
		}
	}
	return nil
}

// sortedUnique returns the distinct values of vals in ascending order.
func sortedUnique(vals []float64) []float64 {
	seen := make(map[float64]bool, len(vals))
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
