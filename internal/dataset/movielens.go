// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strconv"

	"github.com/tomtom215/ratingraph/internal/sparse"
)

// ml100kFiles are the MovieLens 100K files the pipeline needs; missing ones
// are fetched when a Fetcher is configured.
var ml100kFiles = []string{"u1.base", "u1.test", "u.item", "u.user"}

// ml100kFieldCount is the column count of u.item rows (id, title, release
// date, video release date, IMDb URL, unknown flag, 18 genre flags).
const ml100kFieldCount = 24

// ratingRow is one parsed rating record with raw identifiers.
type ratingRow struct {
	user   string
	item   string
	rating float64
}

// parseRatings reads a delimited ratings file with columns
// (user, item, rating[, timestamp]). Ratings files are machine-generated;
// any malformed row is a structural error, not a skippable record.
func parseRatings(path, sep string, stats Stats) ([]ratingRow, error) {
	var rows []ratingRow

	err := scanDelimited(path, sep, func(fields []string) error {
		if len(fields) < 3 {
			return fmt.Errorf("%s: rating row has %d fields, want at least 3", path, len(fields))
		}
		rating, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("%s: parse rating %q: %w", path, fields[2], err)
		}
		rows = append(rows, ratingRow{user: fields[0], item: fields[1], rating: rating})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stats != nil {
		stats.RecordsParsed(filepath.Base(path), len(rows))
	}
	return rows, nil
}

// mapEdges converts rating rows into dense-index edge arrays.
func mapEdges(rows []ratingRow) (d *RawData, uMap, vMap map[string]int) {
	users := make([]string, len(rows))
	items := make([]string, len(rows))
	ratings := make([]float64, len(rows))
	for i, r := range rows {
		users[i] = r.user
		items[i] = r.item
		ratings[i] = r.rating
	}

	uIdx, uMap, numUsers := MapIDs(users)
	vIdx, vMap, numItems := MapIDs(items)

	return &RawData{
		NumUsers: numUsers,
		NumItems: numItems,
		UserIdx:  uIdx,
		ItemIdx:  vIdx,
		Ratings:  ratings,
	}, uMap, vMap
}

// shuffleEdges permutes the edge arrays in place with a PRNG seeded from
// opts. Ratio-split datasets are shuffled once here, upstream of the split
// engine, so the engine sees pre-shuffled order.
func shuffleEdges(d *RawData, seed int64) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic shuffle, not cryptographic
	rng.Shuffle(d.Edges(), func(i, j int) {
		d.UserIdx[i], d.UserIdx[j] = d.UserIdx[j], d.UserIdx[i]
		d.ItemIdx[i], d.ItemIdx[j] = d.ItemIdx[j], d.ItemIdx[i]
		d.Ratings[i], d.Ratings[j] = d.Ratings[j], d.Ratings[i]
	})
}

// LoadML100K loads MovieLens 100K under the official u1.base/u1.test split:
// training-file rows first, test-file rows after, identifiers mapped over
// the concatenation.
func LoadML100K(ctx context.Context, opts LoadOptions) (*RawData, error) {
	dir := filepath.Join(opts.DataDir, "ml_100k")

	if opts.Fetcher != nil {
		if err := opts.Fetcher.FetchMissing(ctx, dir, ml100kFiles); err != nil {
			return nil, fmt.Errorf("fetch ml_100k: %w", err)
		}
	}

	base, err := parseRatings(filepath.Join(dir, "u1.base"), "\t", opts.Stats)
	if err != nil {
		return nil, err
	}
	test, err := parseRatings(filepath.Join(dir, "u1.test"), "\t", opts.Stats)
	if err != nil {
		return nil, err
	}

	data, uMap, vMap := mapEdges(append(base, test...))
	data.TrainCount = len(base)

	data.ItemFeatures, err = ml100kItemFeatures(filepath.Join(dir, "u.item"), vMap, data.NumItems, opts)
	if err != nil {
		return nil, err
	}
	data.UserFeatures, err = ml100kUserFeatures(filepath.Join(dir, "u.user"), uMap, data.NumUsers, opts)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info().
		Str("dataset", "ml_100k").
		Int("users", data.NumUsers).
		Int("items", data.NumItems).
		Int("edges", data.Edges()).
		Int("train_file_edges", data.TrainCount).
		Msg("dataset loaded")

	return data, nil
}

// ml100kItemFeatures builds the item genre matrix from u.item. The 18 genre
// flag columns are used verbatim as a multi-hot block. Rows with the wrong
// column count or unparsable flags are skipped, not fatal.
func ml100kItemFeatures(path string, vMap map[string]int, numItems int, opts LoadOptions) (*sparse.CSR, error) {
	const numGenres = 18
	var entries []sparse.Entry
	parsed := 0
	seen := make(map[string]bool)

	err := scanDelimited(path, "|", func(fields []string) error {
		if len(fields) != ml100kFieldCount {
			skipRecord(opts, path, "field_count")
			return nil
		}
		if seen[fields[0]] {
			skipRecord(opts, path, "duplicate_id")
			return nil
		}
		seen[fields[0]] = true
		vIdx, ok := vMap[fields[0]]
		if !ok {
			// Item never rated; its feature row stays zero.
			parsed++
			return nil
		}
		for g := 0; g < numGenres; g++ {
			flag, err := strconv.Atoi(fields[6+g])
			if err != nil {
				skipRecord(opts, path, "bad_flag")
				return nil
			}
			if flag != 0 {
				entries = append(entries, sparse.Entry{Row: vIdx, Col: g, Val: float64(flag)})
			}
		}
		parsed++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.Stats != nil {
		opts.Stats.RecordsParsed(filepath.Base(path), parsed)
	}
	return sparse.NewCSRFromEntries(numItems, numGenres, entries)
}

// ml100kUserFeatures builds the user demographic matrix from u.user:
// column 0 is age rescaled by the observed maximum, column 1 is gender
// (M=0, F=1), and occupations occupy a one-hot block starting at column 2
// with offsets assigned in first-occurrence order.
func ml100kUserFeatures(path string, uMap map[string]int, numUsers int, opts LoadOptions) (*sparse.CSR, error) {
	type userRow struct {
		id         string
		age        float64
		female     bool
		occupation string
	}
	var rows []userRow
	seen := make(map[string]bool)

	err := scanDelimited(path, "|", func(fields []string) error {
		if len(fields) != 5 {
			skipRecord(opts, path, "field_count")
			return nil
		}
		if seen[fields[0]] {
			skipRecord(opts, path, "duplicate_id")
			return nil
		}
		age, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			skipRecord(opts, path, "bad_age")
			return nil
		}
		seen[fields[0]] = true
		rows = append(rows, userRow{
			id:         fields[0],
			age:        age,
			female:     fields[2] == "F",
			occupation: fields[3],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	ages := make([]float64, len(rows))
	occupations := make([]string, len(rows))
	for i, r := range rows {
		ages[i] = r.age
		occupations[i] = r.occupation
	}
	ageMax := maxFloat64(ages)
	occIdx, _, numOccupations := MapIDs(occupations)

	const scalarCols = 2 // age, gender
	var entries []sparse.Entry
	for i, r := range rows {
		uIdx, ok := uMap[r.id]
		if !ok {
			continue
		}
		if r.age != 0 {
			entries = append(entries, sparse.Entry{Row: uIdx, Col: 0, Val: scaleByMax(r.age, ageMax)})
		}
		if r.female {
			entries = append(entries, sparse.Entry{Row: uIdx, Col: 1, Val: 1})
		}
		entries = append(entries, sparse.Entry{Row: uIdx, Col: scalarCols + occIdx[i], Val: 1})
	}

	if opts.Stats != nil {
		opts.Stats.RecordsParsed(filepath.Base(path), len(rows))
	}
	return sparse.NewCSRFromEntries(numUsers, scalarCols+numOccupations, entries)
}

// LoadML1M loads MovieLens 1M for ratio splitting: all ratings parsed,
// mapped, and shuffled once with the run seed.
func LoadML1M(_ context.Context, opts LoadOptions) (*RawData, error) {
	dir := filepath.Join(opts.DataDir, "ml_1m")

	rows, err := parseRatings(filepath.Join(dir, "ratings.dat"), "::", opts.Stats)
	if err != nil {
		return nil, err
	}

	data, uMap, vMap := mapEdges(rows)
	shuffleEdges(data, opts.Seed)

	data.ItemFeatures, err = ml1mItemFeatures(filepath.Join(dir, "movies.dat"), vMap, data.NumItems, opts)
	if err != nil {
		return nil, err
	}
	data.UserFeatures, err = ml1mUserFeatures(filepath.Join(dir, "users.dat"), uMap, data.NumUsers, opts)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info().
		Str("dataset", "ml_1m").
		Int("users", data.NumUsers).
		Int("items", data.NumItems).
		Int("edges", data.Edges()).
		Msg("dataset loaded")

	return data, nil
}

// ml1mItemFeatures builds a multi-hot genre matrix from movies.dat. Genre
// lists are pipe-separated within the third column; genre column offsets are
// assigned in first-occurrence order across the file.
func ml1mItemFeatures(path string, vMap map[string]int, numItems int, opts LoadOptions) (*sparse.CSR, error) {
	type movieRow struct {
		id     string
		genres []string
	}
	var rows []movieRow
	genreCols := make(map[string]int)

	err := scanDelimited(path, "::", func(fields []string) error {
		if len(fields) != 3 {
			skipRecord(opts, path, "field_count")
			return nil
		}
		genres := splitGenres(fields[2])
		for _, g := range genres {
			if _, ok := genreCols[g]; !ok {
				genreCols[g] = len(genreCols)
			}
		}
		rows = append(rows, movieRow{id: fields[0], genres: genres})
		return nil
	})
	if err != nil {
		return nil, err
	}

	cells := make(map[[2]int]bool)
	var entries []sparse.Entry
	for _, r := range rows {
		vIdx, ok := vMap[r.id]
		if !ok {
			continue
		}
		for _, g := range r.genres {
			cell := [2]int{vIdx, genreCols[g]}
			if cells[cell] {
				continue
			}
			cells[cell] = true
			entries = append(entries, sparse.Entry{Row: cell[0], Col: cell[1], Val: 1})
		}
	}

	if opts.Stats != nil {
		opts.Stats.RecordsParsed(filepath.Base(path), len(rows))
	}
	return sparse.NewCSRFromEntries(numItems, len(genreCols), entries)
}

// ml1mUserFeatures one-hot encodes every users.dat column (gender, age
// bucket, occupation, zip code) into consecutive blocks with cumulative
// column offsets, category offsets in first-occurrence order.
func ml1mUserFeatures(path string, uMap map[string]int, numUsers int, opts LoadOptions) (*sparse.CSR, error) {
	const numCols = 4 // gender, age, occupation, zip
	var ids []string
	var values [numCols][]string
	seen := make(map[string]bool)

	err := scanDelimited(path, "::", func(fields []string) error {
		if len(fields) != numCols+1 {
			skipRecord(opts, path, "field_count")
			return nil
		}
		if seen[fields[0]] {
			skipRecord(opts, path, "duplicate_id")
			return nil
		}
		seen[fields[0]] = true
		ids = append(ids, fields[0])
		for c := 0; c < numCols; c++ {
			values[c] = append(values[c], fields[c+1])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Per-column category dictionaries with cumulative block offsets.
	offset := 0
	var colIdx [numCols][]int
	for c := 0; c < numCols; c++ {
		idx, _, n := MapIDs(values[c])
		for i := range idx {
			idx[i] += offset
		}
		colIdx[c] = idx
		offset += n
	}

	var entries []sparse.Entry
	for i, id := range ids {
		uIdx, ok := uMap[id]
		if !ok {
			continue
		}
		for c := 0; c < numCols; c++ {
			entries = append(entries, sparse.Entry{Row: uIdx, Col: colIdx[c][i], Val: 1})
		}
	}

	if opts.Stats != nil {
		opts.Stats.RecordsParsed(filepath.Base(path), len(ids))
	}
	return sparse.NewCSRFromEntries(numUsers, offset, entries)
}

// splitGenres splits a pipe-separated genre list, dropping empty elements.
func splitGenres(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '|' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// skipRecord logs and counts one dropped record.
func skipRecord(opts LoadOptions, path, reason string) {
	opts.Logger.Debug().Str("file", filepath.Base(path)).Str("reason", reason).Msg("record skipped")
	if opts.Stats != nil {
		opts.Stats.RecordSkipped(filepath.Base(path), reason)
	}
}
