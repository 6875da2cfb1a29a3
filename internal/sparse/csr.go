// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package sparse

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ErrDuplicateEntry indicates two entries addressed the same matrix cell.
var ErrDuplicateEntry = errors.New("duplicate entry for matrix cell")

// ErrShapeMismatch indicates matrices or vectors with incompatible shapes.
var ErrShapeMismatch = errors.New("shape mismatch")

// Entry is a single nonzero cell used during matrix construction.
type Entry struct {
	// Row is the zero-based row index.
	Row int

	// Col is the zero-based column index.
	Col int

	// Val is the cell value. Explicit zeros are kept.
	Val float64
}

// CSR is a compressed-sparse-row float64 matrix.
//
// Fields are exported for gob serialization (derived-cache and container
// files); treat a constructed matrix as read-only.
type CSR struct {
	// NumRows and NumCols are the matrix dimensions.
	NumRows int
	NumCols int

	// RowPtr has length NumRows+1; row i occupies RowPtr[i]:RowPtr[i+1]
	// of ColIdx and Data.
	RowPtr []int

	// ColIdx holds the column index of each stored value, ascending within
	// each row.
	ColIdx []int

	// Data holds the stored values in row-major scan order.
	Data []float64
}

// NewCSRFromEntries builds a CSR matrix from unordered entries.
// Entries are sorted into row-major order; two entries for the same cell are
// rejected rather than summed, since every construction site in the pipeline
// produces unique cells and a collision indicates an indexing bug upstream.
func NewCSRFromEntries(numRows, numCols int, entries []Entry) (*CSR, error) {
	if numRows < 0 || numCols < 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", numRows, numCols)
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	m := &CSR{
		NumRows: numRows,
		NumCols: numCols,
		RowPtr:  make([]int, numRows+1),
		ColIdx:  make([]int, 0, len(sorted)),
		Data:    make([]float64, 0, len(sorted)),
	}

	for i, e := range sorted {
		if e.Row < 0 || e.Row >= numRows || e.Col < 0 || e.Col >= numCols {
			return nil, fmt.Errorf("entry (%d,%d) outside %dx%d matrix", e.Row, e.Col, numRows, numCols)
		}
		if i > 0 && sorted[i-1].Row == e.Row && sorted[i-1].Col == e.Col {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrDuplicateEntry, e.Row, e.Col)
		}
		m.ColIdx = append(m.ColIdx, e.Col)
		m.Data = append(m.Data, e.Val)
		m.RowPtr[e.Row+1]++
	}

	for i := 0; i < numRows; i++ {
		m.RowPtr[i+1] += m.RowPtr[i]
	}

	return m, nil
}

// NewCSRFromDense builds a CSR matrix from a dense row-major grid, storing
// only nonzero cells. All rows must have equal length.
func NewCSRFromDense(dense [][]float64) (*CSR, error) {
	numRows := len(dense)
	numCols := 0
	if numRows > 0 {
		numCols = len(dense[0])
	}

	m := &CSR{
		NumRows: numRows,
		NumCols: numCols,
		RowPtr:  make([]int, numRows+1),
	}

	for i, row := range dense {
		if len(row) != numCols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, i, len(row), numCols)
		}
		for j, v := range row {
			if v != 0 {
				m.ColIdx = append(m.ColIdx, j)
				m.Data = append(m.Data, v)
			}
		}
		m.RowPtr[i+1] = len(m.Data)
	}

	return m, nil
}

// Identity returns the n-by-n identity matrix.
func Identity(n int) *CSR {
	m := &CSR{
		NumRows: n,
		NumCols: n,
		RowPtr:  make([]int, n+1),
		ColIdx:  make([]int, n),
		Data:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		m.RowPtr[i+1] = i + 1
		m.ColIdx[i] = i
		m.Data[i] = 1
	}
	return m
}

// Dims returns the matrix dimensions.
func (m *CSR) Dims() (rows, cols int) {
	return m.NumRows, m.NumCols
}

// Nnz returns the number of stored entries.
func (m *CSR) Nnz() int {
	return len(m.Data)
}

// At returns the value at (i, j), zero for cells with no stored entry.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.NumRows || j < 0 || j >= m.NumCols {
		return 0
	}
	lo, hi := m.RowPtr[i], m.RowPtr[i+1]
	k := lo + sort.SearchInts(m.ColIdx[lo:hi], j)
	if k < hi && m.ColIdx[k] == j {
		return m.Data[k]
	}
	return 0
}

// RowSums returns the per-row sum of stored values.
func (m *CSR) RowSums() []float64 {
	sums := make([]float64, m.NumRows)
	for i := 0; i < m.NumRows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			sums[i] += m.Data[k]
		}
	}
	return sums
}

// ColSums returns the per-column sum of stored values.
func (m *CSR) ColSums() []float64 {
	sums := make([]float64, m.NumCols)
	for k, j := range m.ColIdx {
		sums[j] += m.Data[k]
	}
	return sums
}

// ScaleRows returns a copy with row i multiplied by scale[i].
func (m *CSR) ScaleRows(scale []float64) (*CSR, error) {
	if len(scale) != m.NumRows {
		return nil, fmt.Errorf("%w: %d scale factors for %d rows", ErrShapeMismatch, len(scale), m.NumRows)
	}
	out := m.Clone()
	for i := 0; i < m.NumRows; i++ {
		for k := out.RowPtr[i]; k < out.RowPtr[i+1]; k++ {
			out.Data[k] *= scale[i]
		}
	}
	return out, nil
}

// ScaleCols returns a copy with column j multiplied by scale[j].
func (m *CSR) ScaleCols(scale []float64) (*CSR, error) {
	if len(scale) != m.NumCols {
		return nil, fmt.Errorf("%w: %d scale factors for %d columns", ErrShapeMismatch, len(scale), m.NumCols)
	}
	out := m.Clone()
	for k, j := range out.ColIdx {
		out.Data[k] *= scale[j]
	}
	return out, nil
}

// Clone returns a deep copy.
func (m *CSR) Clone() *CSR {
	out := &CSR{
		NumRows: m.NumRows,
		NumCols: m.NumCols,
		RowPtr:  make([]int, len(m.RowPtr)),
		ColIdx:  make([]int, len(m.ColIdx)),
		Data:    make([]float64, len(m.Data)),
	}
	copy(out.RowPtr, m.RowPtr)
	copy(out.ColIdx, m.ColIdx)
	copy(out.Data, m.Data)
	return out
}

// ToDense materializes the matrix as a gonum dense matrix. Intended for
// small matrices (tests, downstream dense arithmetic); the full rating grid
// should never pass through here.
func (m *CSR) ToDense() *mat.Dense {
	d := mat.NewDense(m.NumRows, m.NumCols, nil)
	for i := 0; i < m.NumRows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			d.Set(i, m.ColIdx[k], m.Data[k])
		}
	}
	return d
}
