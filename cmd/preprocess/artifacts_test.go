// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ratingraph/internal/sparse"
	"github.com/tomtom215/ratingraph/internal/split"
)

func testResult(t *testing.T) *split.Result {
	t.Helper()
	adj, err := sparse.NewCSRFromEntries(2, 3, []sparse.Entry{
		{Row: 0, Col: 0, Val: 3},
		{Row: 0, Col: 2, Val: 1},
		{Row: 1, Col: 1, Val: 2},
	})
	if err != nil {
		t.Fatalf("build adjacency: %v", err)
	}
	feat, err := sparse.NewCSRFromEntries(2, 2, []sparse.Entry{
		{Row: 0, Col: 0, Val: 1},
		{Row: 1, Col: 1, Val: 1},
	})
	if err != nil {
		t.Fatalf("build features: %v", err)
	}
	return &split.Result{
		UserFeatures: feat,
		ItemFeatures: feat,
		TrainAdj:     adj,
		Train: split.Partition{
			Labels:  []int{2, 0, 1},
			UserIdx: []int{0, 0, 1},
			ItemIdx: []int{0, 2, 1},
		},
		Val: split.Partition{
			Labels:  []int{1},
			UserIdx: []int{1},
			ItemIdx: []int{0},
		},
		Test: split.Partition{
			Labels:  []int{0},
			UserIdx: []int{1},
			ItemIdx: []int{2},
		},
		ClassValues: []float64{1, 3, 5},
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	res := testResult(t)

	if err := writeArtifacts(dir, "ml_100k", true, res); err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}

	for _, name := range []string{
		"train_adj.coo", "train_adj_norm.coo", "user_features.coo", "item_features.coo",
		"train.csv", "val.csv", "test.csv", "summary.json",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, "train_adj.coo"))
	if err != nil {
		t.Fatalf("read adjacency dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	want := []string{"2 3 3", "0 0 3", "0 2 1", "1 1 2"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("adjacency dump = %v, want %v", lines, want)
	}

	raw, err = os.ReadFile(filepath.Join(dir, "train.csv"))
	if err != nil {
		t.Fatalf("read train partition: %v", err)
	}
	lines = strings.Split(strings.TrimSpace(string(raw)), "\n")
	want = []string{"user,item,label", "0,0,2", "0,2,0", "1,1,1"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("train partition = %v, want %v", lines, want)
	}
}

func TestWriteArtifacts_Summary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	res := testResult(t)

	if err := writeArtifacts(dir, "douban", true, res); err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var got runSummary
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if got.Dataset != "douban" {
		t.Errorf("Dataset = %q, want %q", got.Dataset, "douban")
	}
	if got.NumUsers != 2 || got.NumItems != 3 {
		t.Errorf("shape = %dx%d, want 2x3", got.NumUsers, got.NumItems)
	}
	if got.Train != 3 || got.Val != 1 || got.Test != 1 {
		t.Errorf("partition sizes = %d/%d/%d, want 3/1/1", got.Train, got.Val, got.Test)
	}
	if !reflect.DeepEqual(got.ClassValues, []float64{1, 3, 5}) {
		t.Errorf("ClassValues = %v, want [1 3 5]", got.ClassValues)
	}
	if got.WrittenAt.IsZero() {
		t.Error("WrittenAt not set")
	}
}

func TestWriteArtifacts_BadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	if err := writeArtifacts(filepath.Join(file, "out"), "ml_100k", true, testResult(t)); err == nil {
		t.Fatal("writeArtifacts() into a file path: expected error")
	}
}

// readCOOValues decodes a COO dump into a cell->value map, skipping the
// header line.
func readCOOValues(t *testing.T, path string) map[[2]int]float64 {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	cells := make(map[[2]int]float64)
	for i, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if i == 0 {
			continue
		}
		var r, c int
		var v float64
		if _, err := fmt.Sscanf(line, "%d %d %g", &r, &c, &v); err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		cells[[2]int{r, c}] = v
	}
	return cells
}

func TestWriteArtifacts_NormalizedAdjacency(t *testing.T) {
	// Adjacency (0,0)=3 (0,2)=1 (1,1)=2: row degrees 4 and 2, column
	// degrees 3, 2, 1.
	tests := []struct {
		name      string
		symmetric bool
		want      map[[2]int]float64
	}{
		{
			name:      "row normalization",
			symmetric: false,
			want: map[[2]int]float64{
				{0, 0}: 0.75,
				{0, 2}: 0.25,
				{1, 1}: 1,
			},
		},
		{
			name:      "symmetric normalization",
			symmetric: true,
			want: map[[2]int]float64{
				{0, 0}: 3 / (2 * math.Sqrt(3)),
				{0, 2}: 0.5,
				{1, 1}: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			if err := writeArtifacts(dir, "ml_100k", tt.symmetric, testResult(t)); err != nil {
				t.Fatalf("writeArtifacts() error = %v", err)
			}

			got := readCOOValues(t, filepath.Join(dir, "train_adj_norm.coo"))
			if len(got) != len(tt.want) {
				t.Fatalf("normalized dump has %d cells, want %d", len(got), len(tt.want))
			}
			for cell, want := range tt.want {
				if math.Abs(got[cell]-want) > 1e-12 {
					t.Errorf("cell %v = %g, want %g", cell, got[cell], want)
				}
			}

			// The raw dump stays unnormalized.
			raw := readCOOValues(t, filepath.Join(dir, "train_adj.coo"))
			if raw[[2]int{0, 0}] != 3 {
				t.Errorf("raw cell (0,0) = %g, want 3", raw[[2]int{0, 0}])
			}
		})
	}
}
