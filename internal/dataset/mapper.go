// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

// MapIDs compresses a sequence of raw identifiers into dense zero-based
// indices assigned in first-occurrence order. It returns the dense index of
// every input position, the raw-to-dense mapping, and the count of distinct
// identifiers. The mapping is a bijection over the distinct identifier set
// and is deterministic for a given input order.
func MapIDs[K comparable](raw []K) (idx []int, fwd map[K]int, n int) {
	idx = make([]int, len(raw))
	fwd = make(map[K]int)

	for i, id := range raw {
		dense, ok := fwd[id]
		if !ok {
			dense = len(fwd)
			fwd[id] = dense
		}
		idx[i] = dense
	}

	return idx, fwd, len(fwd)
}
