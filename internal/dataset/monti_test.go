// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

// montiFixture writes a 3x3 container for the named dataset: four training
// cells, one test cell, and the side-weight fields the dataset expects.
func montiFixture(t *testing.T, name string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	fields := map[string]FieldData{
		"M": DenseField(3, 3, []float64{
			5, 0, 3,
			0, 2, 0,
			1, 0, 4,
		}),
		"Otraining": DenseField(3, 3, []float64{
			1, 0, 1,
			0, 1, 0,
			1, 0, 0,
		}),
		"Otest": DenseField(3, 3, []float64{
			0, 0, 0,
			0, 0, 0,
			0, 0, 1,
		}),
		"W_users":  DenseField(3, 2, []float64{1, 0, 0, 1, 1, 1}),
		"W_movies": DenseField(3, 2, []float64{0, 1, 1, 0, 1, 1}),
		"W_tracks": DenseField(3, 2, []float64{1, 1, 0, 1, 1, 0}),
	}
	if err := WriteContainer(filepath.Join(dir, montiContainerFile), fields); err != nil {
		t.Fatalf("WriteContainer() error = %v", err)
	}
	return root
}

func TestLoadMonti_Flixster(t *testing.T) {
	root := montiFixture(t, "flixster")
	stats := newFakeStats()

	data, err := loadMonti("flixster", LoadOptions{DataDir: root, Logger: zerolog.Nop(), Stats: stats})
	if err != nil {
		t.Fatalf("loadMonti() error = %v", err)
	}

	if data.NumUsers != 3 || data.NumItems != 3 {
		t.Errorf("dims = %dx%d, want 3x3", data.NumUsers, data.NumItems)
	}
	// Training mask cells in row-major order, then the test cell.
	if want := []int{0, 0, 1, 2, 2}; !reflect.DeepEqual(data.UserIdx, want) {
		t.Errorf("UserIdx = %v, want %v", data.UserIdx, want)
	}
	if want := []int{0, 2, 1, 0, 2}; !reflect.DeepEqual(data.ItemIdx, want) {
		t.Errorf("ItemIdx = %v, want %v", data.ItemIdx, want)
	}
	if want := []float64{5, 3, 2, 1, 4}; !reflect.DeepEqual(data.Ratings, want) {
		t.Errorf("Ratings = %v, want %v", data.Ratings, want)
	}
	if data.TrainCount != 4 {
		t.Errorf("TrainCount = %d, want 4", data.TrainCount)
	}

	// Flixster carries weight matrices on both sides.
	if rows, cols := data.UserFeatures.Dims(); rows != 3 || cols != 2 {
		t.Errorf("user features = %dx%d, want 3x2", rows, cols)
	}
	if rows, cols := data.ItemFeatures.Dims(); rows != 3 || cols != 2 {
		t.Errorf("item features = %dx%d, want 3x2", rows, cols)
	}

	if stats.parsed[montiContainerFile] != 5 {
		t.Errorf("parsed counter = %v", stats.parsed)
	}
}

func TestLoadMonti_IdentitySides(t *testing.T) {
	// Douban has no item weights, yahoo_music no user weights: the bare side
	// gets an identity indicator matrix.
	douban, err := loadMonti("douban", LoadOptions{DataDir: montiFixture(t, "douban"), Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("loadMonti(douban) error = %v", err)
	}
	if rows, cols := douban.ItemFeatures.Dims(); rows != 3 || cols != 3 {
		t.Errorf("douban item features = %dx%d, want 3x3 identity", rows, cols)
	}
	for i := 0; i < 3; i++ {
		if got := douban.ItemFeatures.At(i, i); got != 1 {
			t.Errorf("douban item identity[%d,%d] = %v, want 1", i, i, got)
		}
	}

	yahoo, err := loadMonti("yahoo_music", LoadOptions{DataDir: montiFixture(t, "yahoo_music"), Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("loadMonti(yahoo_music) error = %v", err)
	}
	if rows, cols := yahoo.UserFeatures.Dims(); rows != 3 || cols != 3 {
		t.Errorf("yahoo_music user features = %dx%d, want 3x3 identity", rows, cols)
	}
	if rows, cols := yahoo.ItemFeatures.Dims(); rows != 3 || cols != 2 {
		t.Errorf("yahoo_music item features = %dx%d, want 3x2", rows, cols)
	}
}

func TestLoadMonti_MissingContainer(t *testing.T) {
	_, err := loadMonti("flixster", LoadOptions{DataDir: t.TempDir(), Logger: zerolog.Nop()})
	if err == nil {
		t.Fatal("missing container: expected error")
	}
}

func TestLoadMonti_MaskDimensionMismatch(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "flixster")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	fields := map[string]FieldData{
		"M":         DenseField(2, 2, []float64{1, 0, 0, 2}),
		"Otraining": DenseField(3, 2, []float64{1, 0, 0, 1, 0, 0}),
		"Otest":     DenseField(2, 2, []float64{0, 1, 0, 0}),
	}
	if err := WriteContainer(filepath.Join(dir, montiContainerFile), fields); err != nil {
		t.Fatalf("WriteContainer() error = %v", err)
	}

	_, err := loadMonti("flixster", LoadOptions{DataDir: root, Logger: zerolog.Nop()})
	if err == nil {
		t.Fatal("mismatched mask dimensions: expected error")
	}
}
