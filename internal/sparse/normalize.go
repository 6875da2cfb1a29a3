// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package sparse

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrAllZero indicates a normalization collapsed to the all-zero matrix,
// which signals corrupted or empty upstream data.
var ErrAllZero = errors.New("normalized matrix has only zero entries")

// NormalizeRows divides each row of m by its sum, producing a row-stochastic
// matrix. Rows with zero sum are treated as having infinite degree and come
// out all zero. A result with no nonzero entries is reported as ErrAllZero.
func NormalizeRows(m *CSR) (*CSR, error) {
	inv := invertDegrees(m.RowSums())

	out, err := m.ScaleRows(inv)
	if err != nil {
		return nil, err
	}

	if nnzNonZero(out) == 0 {
		return nil, fmt.Errorf("row normalization: %w", ErrAllZero)
	}
	return out, nil
}

// NormalizeBipartite normalizes a set of equally shaped bipartite adjacency
// matrices by the degrees of their elementwise sum.
//
// In symmetric mode each matrix A becomes D_r^-1/2 A D_c^-1/2, where D_r and
// D_c are diagonal row- and column-degree matrices of the sum. In asymmetric
// mode each matrix becomes D_r^-1 A. Zero degrees are treated as infinite,
// zeroing the affected rows or columns.
func NormalizeBipartite(adjs []*CSR, symmetric bool) ([]*CSR, error) {
	if len(adjs) == 0 {
		return nil, errors.New("no adjacency matrices given")
	}

	rows, cols := adjs[0].Dims()
	degU := make([]float64, rows)
	degV := make([]float64, cols)
	for i, adj := range adjs {
		r, c := adj.Dims()
		if r != rows || c != cols {
			return nil, fmt.Errorf("%w: matrix %d is %dx%d, want %dx%d", ErrShapeMismatch, i, r, c, rows, cols)
		}
		floats.Add(degU, adj.RowSums())
		floats.Add(degV, adj.ColSums())
	}

	uInvSqrt := invertSqrtDegrees(degU)
	vInvSqrt := invertSqrtDegrees(degV)

	out := make([]*CSR, len(adjs))
	for i, adj := range adjs {
		var norm *CSR
		var err error
		if symmetric {
			norm, err = adj.ScaleRows(uInvSqrt)
			if err == nil {
				norm, err = norm.ScaleCols(vInvSqrt)
			}
		} else {
			// D_r^-1 = D_r^-1/2 * D_r^-1/2
			uInv := make([]float64, rows)
			floats.MulTo(uInv, uInvSqrt, uInvSqrt)
			norm, err = adj.ScaleRows(uInv)
		}
		if err != nil {
			return nil, err
		}
		if adj.Nnz() > 0 && nnzNonZero(norm) == 0 {
			return nil, fmt.Errorf("bipartite normalization of matrix %d: %w", i, ErrAllZero)
		}
		out[i] = norm
	}

	return out, nil
}

// invertDegrees maps each degree d to 1/d, with zero degrees treated as
// infinite (inverse zero).
func invertDegrees(deg []float64) []float64 {
	inv := make([]float64, len(deg))
	for i, d := range deg {
		if d == 0 {
			continue
		}
		inv[i] = 1 / d
	}
	return inv
}

// invertSqrtDegrees maps each degree d to d^-1/2, with zero degrees treated
// as infinite (inverse zero).
func invertSqrtDegrees(deg []float64) []float64 {
	inv := make([]float64, len(deg))
	for i, d := range deg {
		if d == 0 {
			continue
		}
		inv[i] = 1 / math.Sqrt(d)
	}
	return inv
}

// nnzNonZero counts stored entries with a nonzero value. Scaling can zero
// stored entries without removing them from the structure.
func nnzNonZero(m *CSR) int {
	n := 0
	for _, v := range m.Data {
		if v != 0 {
			n++
		}
	}
	return n
}
