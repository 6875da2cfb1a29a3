// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package sparse

import "fmt"

// COO is the coordinate-triple export of a sparse matrix: (row, col)
// coordinate pairs in row-major scan order of the underlying CSR storage,
// a parallel value array, and the matrix shape. This is the format handed
// to the model layer for sparse-tensor reconstruction.
type COO struct {
	// Coords holds (row, col) pairs in row-major scan order.
	Coords [][2]int `json:"coords"`

	// Values is parallel to Coords.
	Values []float64 `json:"values"`

	// Shape is (numRows, numCols).
	Shape [2]int `json:"shape"`
}

// ToCOO exports the matrix in coordinate form.
func (m *CSR) ToCOO() *COO {
	c := &COO{
		Coords: make([][2]int, 0, m.Nnz()),
		Values: make([]float64, 0, m.Nnz()),
		Shape:  [2]int{m.NumRows, m.NumCols},
	}
	for i := 0; i < m.NumRows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			c.Coords = append(c.Coords, [2]int{i, m.ColIdx[k]})
			c.Values = append(c.Values, m.Data[k])
		}
	}
	return c
}

// ToCSR reconstructs a CSR matrix from coordinate form.
func (c *COO) ToCSR() (*CSR, error) {
	if len(c.Coords) != len(c.Values) {
		return nil, fmt.Errorf("%w: %d coords, %d values", ErrShapeMismatch, len(c.Coords), len(c.Values))
	}
	entries := make([]Entry, len(c.Coords))
	for i, xy := range c.Coords {
		entries[i] = Entry{Row: xy[0], Col: xy[1], Val: c.Values[i]}
	}
	return NewCSRFromEntries(c.Shape[0], c.Shape[1], entries)
}
