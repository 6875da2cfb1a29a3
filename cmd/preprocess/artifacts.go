// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ratingraph/internal/sparse"
	"github.com/tomtom215/ratingraph/internal/split"
)

// runSummary is the JSON summary written next to the artifacts.
type runSummary struct {
	Dataset     string    `json:"dataset"`
	WrittenAt   time.Time `json:"written_at"`
	NumUsers    int       `json:"num_users"`
	NumItems    int       `json:"num_items"`
	Train       int       `json:"train_edges"`
	Val         int       `json:"val_edges"`
	Test        int       `json:"test_edges"`
	ClassValues []float64 `json:"class_values"`
}

// writeArtifacts dumps the split result as flat files: COO dumps for the
// training adjacency (raw and degree-normalized) and both feature matrices,
// one CSV per partition, and a JSON summary. symmetric selects d^-1/2
// scaling on both sides of the normalized adjacency; false scales rows by
// d^-1 only.
func writeArtifacts(dir, dataset string, symmetric bool, res *split.Result) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	norm, err := sparse.NormalizeBipartite([]*sparse.CSR{res.TrainAdj}, symmetric)
	if err != nil {
		return fmt.Errorf("normalize training adjacency: %w", err)
	}

	matrices := map[string]*sparse.CSR{
		"train_adj.coo":      res.TrainAdj,
		"train_adj_norm.coo": norm[0],
		"user_features.coo":  res.UserFeatures,
		"item_features.coo":  res.ItemFeatures,
	}
	for name, m := range matrices {
		if m == nil {
			continue
		}
		if err := writeCOO(filepath.Join(dir, name), m); err != nil {
			return err
		}
	}

	partitions := map[string]split.Partition{
		"train.csv": res.Train,
		"val.csv":   res.Val,
		"test.csv":  res.Test,
	}
	for name, p := range partitions {
		if err := writePartition(filepath.Join(dir, name), p); err != nil {
			return err
		}
	}

	rows, cols := res.TrainAdj.Dims()
	summary := runSummary{
		Dataset:     dataset,
		WrittenAt:   time.Now().UTC(),
		NumUsers:    rows,
		NumItems:    cols,
		Train:       res.Train.Len(),
		Val:         res.Val.Len(),
		Test:        res.Test.Len(),
		ClassValues: res.ClassValues,
	}
	raw, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "summary.json"), raw, 0o640); err != nil { //nolint:gosec // summary is not sensitive
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// writeCOO writes a matrix as one "row col value" line per stored entry,
// headed by a "rows cols nnz" line.
func writeCOO(path string, m *sparse.CSR) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is built from the configured output dir
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(f)
	coo := m.ToCOO()
	if _, err := fmt.Fprintf(w, "%d %d %d\n", coo.Shape[0], coo.Shape[1], len(coo.Values)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for k, rc := range coo.Coords {
		if _, err := fmt.Fprintf(w, "%d %d %s\n", rc[0], rc[1],
			strconv.FormatFloat(coo.Values[k], 'g', -1, 64)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// writePartition writes one partition as "user,item,label" CSV rows.
func writePartition(path string, p split.Partition) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is built from the configured output dir
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, "user,item,label"); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for k := 0; k < p.Len(); k++ {
		if _, err := fmt.Fprintf(w, "%d,%d,%d\n", p.UserIdx[k], p.ItemIdx[k], p.Labels[k]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
