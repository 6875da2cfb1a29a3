// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ratingraph/internal/sparse"
)

func cacheTuple(t *testing.T) *RawData {
	t.Helper()
	uFeat, err := sparse.NewCSRFromEntries(2, 2, []sparse.Entry{{Row: 0, Col: 0, Val: 0.5}})
	if err != nil {
		t.Fatalf("build user features: %v", err)
	}
	vFeat, err := sparse.NewCSRFromEntries(3, 1, []sparse.Entry{{Row: 2, Col: 0, Val: 1}})
	if err != nil {
		t.Fatalf("build item features: %v", err)
	}
	return &RawData{
		NumUsers:     2,
		NumItems:     3,
		UserIdx:      []int{0, 1, 0},
		ItemIdx:      []int{0, 1, 2},
		Ratings:      []float64{5, 3, 1},
		UserFeatures: uFeat,
		ItemFeatures: vFeat,
		TrainCount:   2,
	}
}

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ml_100k.cache")
	want := cacheTuple(t)

	if err := SaveCache(path, want, "ml_100k", 42); err != nil {
		t.Fatalf("SaveCache() error = %v", err)
	}
	got, err := LoadCache(path)
	if err != nil {
		t.Fatalf("LoadCache() error = %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadCache() = %+v, want %+v", got, want)
	}
}

func TestCache_MetadataSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ml_100k.cache")
	d := cacheTuple(t)

	if err := SaveCache(path, d, "ml_100k", 42); err != nil {
		t.Fatalf("SaveCache() error = %v", err)
	}

	raw, err := os.ReadFile(path + ".json")
	if err != nil {
		t.Fatalf("read metadata sidecar: %v", err)
	}
	var meta CacheMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}

	if meta.Dataset != "ml_100k" || meta.Seed != 42 {
		t.Errorf("metadata identity = %q seed %d", meta.Dataset, meta.Seed)
	}
	if meta.NumUsers != 2 || meta.NumItems != 3 || meta.Edges != 3 {
		t.Errorf("metadata shape = %dx%d edges %d", meta.NumUsers, meta.NumItems, meta.Edges)
	}
	if meta.Checksum == "" {
		t.Error("metadata checksum empty")
	}
	if meta.SavedAt.IsZero() {
		t.Error("metadata timestamp zero")
	}
}

func TestCache_ChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cache")
	d := cacheTuple(t)

	if err := SaveCache(path, d, "ml_100k", 42); err != nil {
		t.Fatalf("SaveCache() error = %v", err)
	}

	// Rewrite the wrapper with a corrupted checksum.
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var cf cacheFile
	if err := gob.NewDecoder(f).Decode(&cf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	cf.Checksum = "deadbeef"
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := gob.NewEncoder(out).Encode(cf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := LoadCache(path); !errors.Is(err, ErrChecksum) {
		t.Errorf("LoadCache() error = %v, want ErrChecksum", err)
	}
}

func TestCache_MissingFile(t *testing.T) {
	if _, err := LoadCache(filepath.Join(t.TempDir(), "absent.cache")); err == nil {
		t.Error("LoadCache(absent): expected error")
	}
}
