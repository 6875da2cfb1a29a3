// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/tomtom215/ratingraph/internal/sparse"
)

// montiContainerFile is the container file name shared by the Monti-style
// datasets (flixster, douban, yahoo_music).
const montiContainerFile = "training_test_dataset.gob.gz"

// montiLoader returns the loader for one Monti-style dataset.
func montiLoader(name string) func(context.Context, LoadOptions) (*RawData, error) {
	return func(_ context.Context, opts LoadOptions) (*RawData, error) {
		return loadMonti(name, opts)
	}
}

// loadMonti loads a Monti-style dataset: the full rating matrix M plus
// Otraining/Otest boolean observation masks. Edges are emitted as training
// mask positions followed by test mask positions, both in row-major scan
// order; ratings are read from M at each position.
func loadMonti(name string, opts LoadOptions) (*RawData, error) {
	path := filepath.Join(opts.DataDir, name, montiContainerFile)

	c, err := OpenContainer(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	m, err := c.Field("M")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	training, err := c.Field("Otraining")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	test, err := c.Field("Otest")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	numUsers, numItems := m.Dims()
	for fname, mask := range map[string]*sparse.CSR{"Otraining": training, "Otest": test} {
		if r, cols := mask.Dims(); r != numUsers || cols != numItems {
			return nil, fmt.Errorf("load %s: mask %s is %dx%d, want %dx%d", name, fname, r, cols, numUsers, numItems)
		}
	}

	data := &RawData{NumUsers: numUsers, NumItems: numItems}
	appendMaskEdges(data, training, m)
	data.TrainCount = data.Edges()
	appendMaskEdges(data, test, m)

	data.UserFeatures, data.ItemFeatures, err = montiFeatures(name, c, numUsers, numItems)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	if opts.Stats != nil {
		opts.Stats.RecordsParsed(montiContainerFile, data.Edges())
	}
	opts.Logger.Info().
		Str("dataset", name).
		Int("users", numUsers).
		Int("items", numItems).
		Int("edges", data.Edges()).
		Int("train_mask_edges", data.TrainCount).
		Msg("dataset loaded")

	return data, nil
}

// appendMaskEdges appends one edge per nonzero mask cell, in row-major scan
// order, with the rating read from m.
func appendMaskEdges(data *RawData, mask, m *sparse.CSR) {
	for i := 0; i < mask.NumRows; i++ {
		for k := mask.RowPtr[i]; k < mask.RowPtr[i+1]; k++ {
			if mask.Data[k] == 0 {
				continue
			}
			j := mask.ColIdx[k]
			data.UserIdx = append(data.UserIdx, i)
			data.ItemIdx = append(data.ItemIdx, j)
			data.Ratings = append(data.Ratings, m.At(i, j))
		}
	}
}

// montiFeatures resolves the per-dataset side-weight fields. Sides without a
// weight matrix get an identity matrix, one indicator column per entity.
func montiFeatures(name string, c *Container, numUsers, numItems int) (uFeat, vFeat *sparse.CSR, err error) {
	switch name {
	case "flixster":
		uFeat, err = c.Field("W_users")
		if err != nil {
			return nil, nil, err
		}
		vFeat, err = c.Field("W_movies")
		if err != nil {
			return nil, nil, err
		}
	case "douban":
		uFeat, err = c.Field("W_users")
		if err != nil {
			return nil, nil, err
		}
		vFeat = sparse.Identity(numItems)
	case "yahoo_music":
		uFeat = sparse.Identity(numUsers)
		vFeat, err = c.Field("W_tracks")
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q has no feature layout", ErrUnknownDataset, name)
	}
	return uFeat, vFeat, nil
}
