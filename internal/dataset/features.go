// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// scanDelimited reads path line by line, splits each line on sep, and hands
// the fields to fn. A non-nil error from fn aborts the scan. Blank lines are
// skipped. The file is closed on every exit path.
func scanDelimited(path, sep string, fn func(fields []string) error) error {
	f, err := os.Open(path) //nolint:gosec // path is built from the configured data root
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(strings.Split(line, sep)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	return nil
}

// maxFloat64 returns the maximum of vals, zero for an empty slice.
func maxFloat64(vals []float64) float64 {
	var m float64
	for i, v := range vals {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// scaleByMax linearly rescales v by the observed maximum. The minimum is not
// subtracted: zero stays the floor. A zero maximum leaves values untouched.
func scaleByMax(v, maximum float64) float64 {
	if maximum == 0 {
		return v
	}
	return v / maximum
}
