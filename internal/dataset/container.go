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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tomtom215/ratingraph/internal/sparse"
)

// ErrNoField indicates a container is missing a requested named field.
var ErrNoField = errors.New("container field not found")

// ErrChecksum indicates container contents do not match their checksum.
var ErrChecksum = errors.New("container checksum mismatch")

// FieldData is one named matrix inside a container, either dense (row-major
// Dense slice) or compressed sparse column (Data/RowIdx/ColPtr).
type FieldData struct {
	// NumRows and NumCols are the matrix dimensions.
	NumRows int
	NumCols int

	// Dense holds row-major values when the field is dense; nil otherwise.
	Dense []float64

	// Data, RowIdx, and ColPtr hold CSC storage when the field is sparse.
	Data   []float64
	RowIdx []int
	ColPtr []int
}

// DenseField wraps a row-major dense grid as container field data.
func DenseField(rows, cols int, values []float64) FieldData {
	return FieldData{NumRows: rows, NumCols: cols, Dense: values}
}

// Container is a named-field matrix file, the distribution format of the
// Monti-style datasets (full rating matrix M, observation masks
// Otraining/Otest, optional side-weight matrices). Contents are gob-encoded,
// gzip-compressed, and checksummed.
type Container struct {
	fields map[string]FieldData
}

// containerFile is the on-disk wrapper.
type containerFile struct {
	Checksum       string
	CompressedData []byte
}

// OpenContainer reads and verifies a container file.
func OpenContainer(path string) (*Container, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the configured data root
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cf containerFile
	if err := gob.NewDecoder(f).Decode(&cf); err != nil {
		return nil, fmt.Errorf("decode container: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(cf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress container: %w", err)
	}
	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("decompress container: %w", err)
	}
	if err := gzr.Close(); err != nil {
		return nil, fmt.Errorf("decompress container: %w", err)
	}

	hash := sha256.Sum256(raw)
	if hex.EncodeToString(hash[:]) != cf.Checksum {
		return nil, ErrChecksum
	}

	fields := make(map[string]FieldData)
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode container fields: %w", err)
	}

	return &Container{fields: fields}, nil
}

// WriteContainer writes fields as a container file. The write is
// all-or-nothing: data goes to a temporary file renamed into place only
// after a complete flush.
func WriteContainer(path string, fields map[string]FieldData) error {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(fields); err != nil {
		return fmt.Errorf("encode container fields: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("compress container: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	cf := containerFile{
		Checksum:       hex.EncodeToString(hash[:]),
		CompressedData: compressed.Bytes(),
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp) //nolint:gosec // path is built from the configured data root
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(cf); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write container: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close container: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit container: %w", err)
	}
	return nil
}

// Has reports whether the container holds the named field.
func (c *Container) Has(name string) bool {
	_, ok := c.fields[name]
	return ok
}

// Field decodes the named field to CSR form. Dense fields keep only their
// nonzero cells; CSC fields are converted to row-major storage.
func (c *Container) Field(name string) (*sparse.CSR, error) {
	fd, ok := c.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoField, name)
	}

	if fd.Dense != nil {
		if len(fd.Dense) != fd.NumRows*fd.NumCols {
			return nil, fmt.Errorf("field %q: %d dense values for %dx%d", name, len(fd.Dense), fd.NumRows, fd.NumCols)
		}
		var entries []sparse.Entry
		for i := 0; i < fd.NumRows; i++ {
			for j := 0; j < fd.NumCols; j++ {
				if v := fd.Dense[i*fd.NumCols+j]; v != 0 {
					entries = append(entries, sparse.Entry{Row: i, Col: j, Val: v})
				}
			}
		}
		return sparse.NewCSRFromEntries(fd.NumRows, fd.NumCols, entries)
	}

	if len(fd.ColPtr) != fd.NumCols+1 {
		return nil, fmt.Errorf("field %q: %d column pointers for %d columns", name, len(fd.ColPtr), fd.NumCols)
	}
	var entries []sparse.Entry
	for j := 0; j < fd.NumCols; j++ {
		for k := fd.ColPtr[j]; k < fd.ColPtr[j+1]; k++ {
			entries = append(entries, sparse.Entry{Row: fd.RowIdx[k], Col: j, Val: fd.Data[k]})
		}
	}
	return sparse.NewCSRFromEntries(fd.NumRows, fd.NumCols, entries)
}
