// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
)

// CacheMetadata describes a derived-cache file; written as a JSON sidecar
// next to the cache for inspection without decoding the container.
type CacheMetadata struct {
	// Dataset is the dataset name the cache was derived from.
	Dataset string `json:"dataset"`

	// Seed is the load seed baked into the cached edge order.
	Seed int64 `json:"seed"`

	// SavedAt is when the cache was written.
	SavedAt time.Time `json:"saved_at"`

	// Checksum is the SHA-256 of the uncompressed tuple encoding.
	Checksum string `json:"checksum"`

	// NumUsers, NumItems, and Edges summarize the cached tuple.
	NumUsers int `json:"num_users"`
	NumItems int `json:"num_items"`
	Edges    int `json:"edges"`
}

// cacheFile is the on-disk wrapper, mirroring the container format.
type cacheFile struct {
	Checksum       string
	CompressedData []byte
}

// SaveCache writes the derived tuple as a single all-or-nothing container:
// the encoded tuple is checksummed, compressed, written to a temporary file,
// and renamed into place only after a complete flush. A JSON metadata
// sidecar is written alongside.
func SaveCache(path string, d *RawData, dataset string, seed int64) error {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(d); err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())
	checksum := hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("compress cache: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	cf := cacheFile{Checksum: checksum, CompressedData: compressed.Bytes()}

	tmp := path + ".tmp"
	f, err := os.Create(tmp) //nolint:gosec // path comes from configuration
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(cf); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit cache: %w", err)
	}

	meta := CacheMetadata{
		Dataset:  dataset,
		Seed:     seed,
		SavedAt:  time.Now().UTC(),
		Checksum: checksum,
		NumUsers: d.NumUsers,
		NumItems: d.NumItems,
		Edges:    d.Edges(),
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache metadata: %w", err)
	}
	if err := os.WriteFile(path+".json", metaBytes, 0o640); err != nil { //nolint:gosec // metadata is not sensitive
		return fmt.Errorf("write cache metadata: %w", err)
	}
	return nil
}

// LoadCache reads a derived-cache file, verifying its checksum. Any
// corruption fails the load; there is no partial read.
func LoadCache(path string) (*RawData, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cf cacheFile
	if err := gob.NewDecoder(f).Decode(&cf); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(cf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress cache: %w", err)
	}
	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("decompress cache: %w", err)
	}
	if err := gzr.Close(); err != nil {
		return nil, fmt.Errorf("decompress cache: %w", err)
	}

	hash := sha256.Sum256(raw)
	if hex.EncodeToString(hash[:]) != cf.Checksum {
		return nil, ErrChecksum
	}

	var d RawData
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode cache tuple: %w", err)
	}
	return &d, nil
}
