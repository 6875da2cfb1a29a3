// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package sparse

// PadAndStack aligns user and item side-feature matrices into one shared
// column space of width uCols+vCols: user rows keep their features in the
// first uCols columns and are right-padded with vCols zero columns, item
// rows are left-padded with uCols zero columns. Stacking the two results
// vertically yields a single feature matrix over all graph nodes.
//
// Padding is structural: no zero entries are stored, only column offsets
// and widths change.
func PadAndStack(uFeat, vFeat *CSR) (paddedU, paddedV *CSR) {
	_, uCols := uFeat.Dims()
	_, vCols := vFeat.Dims()
	total := uCols + vCols

	paddedU = uFeat.Clone()
	paddedU.NumCols = total

	paddedV = vFeat.Clone()
	paddedV.NumCols = total
	for k := range paddedV.ColIdx {
		paddedV.ColIdx[k] += uCols
	}

	return paddedU, paddedV
}
