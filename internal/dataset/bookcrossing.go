// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/ratingraph/internal/sparse"
)

// Book-Crossing file layout. Raw files are semicolon-separated CSV exports;
// filtered files are plain comma-separated CSV with a header row.
const (
	booksRawDir    = "book_crossing_original"
	booksEditedDir = "book_crossing_edited"

	booksRawUsers   = "BX-Users.csv"
	booksRawBooks   = "BX-Books.csv"
	booksRawRatings = "BX-Book-Ratings.csv"

	booksFilteredUsers   = "BX-Users_filtered.csv"
	booksFilteredBooks   = "BX-Books_filtered.csv"
	booksFilteredRatings = "BX-Book-Ratings_filtered.csv"
)

// booksRawFieldCount is the column count of raw BX-Books rows.
const booksRawFieldCount = 8

// FilterBooks rewrites the raw Book-Crossing dump into the filtered CSVs the
// loader consumes. Users are kept when their age lies inside the configured
// window; book rows with the wrong field count or undecodable text are
// skipped; zero ratings are dropped; and users whose rating count, as a
// fraction of the catalog size, does not exceed cfg.MinRatingFraction are
// filtered out. Output files are flushed and closed on every exit path.
func FilterBooks(opts LoadOptions) error {
	rawDir := filepath.Join(opts.DataDir, booksRawDir)
	outDir := filepath.Join(opts.DataDir, booksEditedDir)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	userAges, err := filterBookUsers(filepath.Join(rawDir, booksRawUsers), opts)
	if err != nil {
		return err
	}

	books, err := filterBookCatalog(filepath.Join(rawDir, booksRawBooks), opts)
	if err != nil {
		return err
	}

	ratings, err := filterBookRatings(filepath.Join(rawDir, booksRawRatings), userAges, books, opts)
	if err != nil {
		return err
	}

	// Second pass: keep users whose rating count fraction of the catalog
	// exceeds the threshold, then restrict users and books to what is left.
	catalogSize := float64(len(books))
	fraction := make(map[string]float64)
	var kept []bookRating
	remainingUsers := make(map[string]bool)
	remainingBooks := make(map[string]bool)
	for _, r := range ratings {
		fraction[r.user] += 1 / catalogSize
		if fraction[r.user] > opts.Books.MinRatingFraction {
			kept = append(kept, r)
			remainingUsers[r.user] = true
			remainingBooks[r.book] = true
		}
	}

	opts.Logger.Info().
		Int("users", len(remainingUsers)).
		Int("books", len(remainingBooks)).
		Int("ratings", len(kept)).
		Msg("book-crossing filter complete")

	if err := writeBookRatings(filepath.Join(outDir, booksFilteredRatings), kept); err != nil {
		return err
	}
	if err := writeBookUsers(filepath.Join(outDir, booksFilteredUsers), userAges, remainingUsers); err != nil {
		return err
	}
	return writeBookCatalog(filepath.Join(outDir, booksFilteredBooks), books, remainingBooks)
}

// bookRecord is one filtered catalog entry.
type bookRecord struct {
	isbn   string
	author string
	year   float64
}

// bookRating is one filtered rating row.
type bookRating struct {
	user   string
	book   string
	rating float64
}

// openSemicolonCSV opens a raw BX export for reading.
func openSemicolonCSV(path string) (*os.File, *csv.Reader, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the configured data root
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return f, r, nil
}

// filterBookUsers returns the age of every user inside the configured age
// window, keyed by raw user id.
func filterBookUsers(path string, opts LoadOptions) (map[string]float64, error) {
	f, r, err := openSemicolonCSV(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	ages := make(map[string]float64)
	header := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipRecord(opts, path, "malformed_row")
			continue
		}
		if header {
			header = false
			continue
		}
		if len(rec) < 3 {
			skipRecord(opts, path, "field_count")
			continue
		}
		age, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil || age < opts.Books.MinAge || age > opts.Books.MaxAge {
			skipRecord(opts, path, "age_window")
			continue
		}
		ages[rec[0]] = age
	}

	if opts.Stats != nil {
		opts.Stats.RecordsParsed(filepath.Base(path), len(ages))
	}
	return ages, nil
}

// filterBookCatalog returns the usable catalog entries in file order.
// Rows with the wrong shape or undecodable text are skipped, never fatal.
func filterBookCatalog(path string, opts LoadOptions) ([]bookRecord, error) {
	f, r, err := openSemicolonCSV(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var books []bookRecord
	seen := make(map[string]bool)
	header := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipRecord(opts, path, "malformed_row")
			continue
		}
		if header {
			header = false
			continue
		}
		if len(rec) != booksRawFieldCount {
			skipRecord(opts, path, "field_count")
			continue
		}
		isbn, author, year := rec[0], rec[2], rec[3]
		if !utf8.ValidString(author) || !utf8.ValidString(isbn) {
			skipRecord(opts, path, "encoding")
			continue
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(year), 64)
		if err != nil {
			skipRecord(opts, path, "bad_year")
			continue
		}
		if seen[isbn] {
			skipRecord(opts, path, "duplicate_id")
			continue
		}
		seen[isbn] = true
		books = append(books, bookRecord{isbn: isbn, author: strings.ToLower(author), year: y})
	}

	if opts.Stats != nil {
		opts.Stats.RecordsParsed(filepath.Base(path), len(books))
	}
	return books, nil
}

// filterBookRatings keeps ratings whose user passed the age filter, whose
// book survived the catalog filter, and whose rating is nonzero.
func filterBookRatings(path string, users map[string]float64, books []bookRecord, opts LoadOptions) ([]bookRating, error) {
	valid := make(map[string]bool, len(books))
	for _, b := range books {
		valid[b.isbn] = true
	}

	f, r, err := openSemicolonCSV(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var out []bookRating
	header := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipRecord(opts, path, "malformed_row")
			continue
		}
		if header {
			header = false
			continue
		}
		if len(rec) < 3 {
			skipRecord(opts, path, "field_count")
			continue
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil || rating == 0 {
			skipRecord(opts, path, "zero_rating")
			continue
		}
		if _, ok := users[rec[0]]; !ok {
			skipRecord(opts, path, "unknown_user")
			continue
		}
		if !valid[rec[1]] {
			skipRecord(opts, path, "unknown_book")
			continue
		}
		out = append(out, bookRating{user: rec[0], book: rec[1], rating: rating})
	}

	if opts.Stats != nil {
		opts.Stats.RecordsParsed(filepath.Base(path), len(out))
	}
	return out, nil
}

// csvWriter opens path for writing and returns the writer plus a finish
// function that flushes and closes regardless of how the caller exits.
func csvWriter(path string) (*csv.Writer, func() error, error) {
	f, err := os.Create(path) //nolint:gosec // path is built from the configured data root
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	finish := func() error {
		w.Flush()
		flushErr := w.Error()
		closeErr := f.Close()
		if flushErr != nil {
			return fmt.Errorf("flush %s: %w", path, flushErr)
		}
		if closeErr != nil {
			return fmt.Errorf("close %s: %w", path, closeErr)
		}
		return nil
	}
	return w, finish, nil
}

func writeBookRatings(path string, ratings []bookRating) (err error) {
	w, finish, err := csvWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if finishErr := finish(); err == nil {
			err = finishErr
		}
	}()

	if err := w.Write([]string{"User-ID", "ISBN", "Book-Rating"}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, r := range ratings {
		rec := []string{r.user, r.book, strconv.FormatFloat(r.rating, 'g', -1, 64)}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func writeBookUsers(path string, ages map[string]float64, keep map[string]bool) (err error) {
	w, finish, err := csvWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if finishErr := finish(); err == nil {
			err = finishErr
		}
	}()

	if err := w.Write([]string{"User-ID", "Age"}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// Keyed iteration would be nondeterministic; order by the keep set's
	// source of truth, the sorted user ids.
	for _, id := range sortedKeys(keep) {
		rec := []string{id, strconv.FormatFloat(ages[id], 'g', -1, 64)}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func writeBookCatalog(path string, books []bookRecord, keep map[string]bool) (err error) {
	w, finish, err := csvWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if finishErr := finish(); err == nil {
			err = finishErr
		}
	}()

	if err := w.Write([]string{"ISBN", "Book-Author", "Year-Of-Publication"}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, b := range books {
		if !keep[b.isbn] {
			continue
		}
		rec := []string{b.isbn, b.author, strconv.FormatFloat(b.year, 'g', -1, 64)}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// sortedKeys returns the keys of a string-keyed set in sorted order, so the
// filtered user file is byte-identical between runs.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadBooks loads the filtered Book-Crossing dataset, running FilterBooks
// first if the filtered files are absent. A seeded carve marks
// cfg.Books.TestFraction of the ratings as the test subset; remaining rows
// keep their file order ahead of the carved rows.
func LoadBooks(_ context.Context, opts LoadOptions) (*RawData, error) {
	outDir := filepath.Join(opts.DataDir, booksEditedDir)
	ratingsPath := filepath.Join(outDir, booksFilteredRatings)

	if _, err := os.Stat(ratingsPath); os.IsNotExist(err) {
		if err := FilterBooks(opts); err != nil {
			return nil, fmt.Errorf("filter book_crossing: %w", err)
		}
	}

	rows, err := readFilteredRatings(ratingsPath)
	if err != nil {
		return nil, err
	}
	if opts.Stats != nil {
		opts.Stats.RecordsParsed(booksFilteredRatings, len(rows))
	}

	// Seeded test carve: choose floor(n*fraction) distinct row positions,
	// then emit non-test rows in file order followed by test rows in file
	// order.
	n := len(rows)
	numTest := int(float64(n) * opts.Books.TestFraction)
	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // deterministic carve, not cryptographic
	isTest := make([]bool, n)
	for _, p := range rng.Perm(n)[:numTest] {
		isTest[p] = true
	}

	ordered := make([]ratingRow, 0, n)
	for i, r := range rows {
		if !isTest[i] {
			ordered = append(ordered, r)
		}
	}
	trainCount := len(ordered)
	for i, r := range rows {
		if isTest[i] {
			ordered = append(ordered, r)
		}
	}

	data, uMap, vMap := mapEdges(ordered)
	data.TrainCount = trainCount

	data.ItemFeatures, err = bookItemFeatures(filepath.Join(outDir, booksFilteredBooks), vMap, data.NumItems, opts)
	if err != nil {
		return nil, err
	}
	data.UserFeatures, err = bookUserFeatures(filepath.Join(outDir, booksFilteredUsers), uMap, data.NumUsers, opts)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info().
		Str("dataset", "book_crossing").
		Int("users", data.NumUsers).
		Int("items", data.NumItems).
		Int("edges", data.Edges()).
		Int("train_edges", data.TrainCount).
		Msg("dataset loaded")

	return data, nil
}

// readFilteredRatings reads the filtered ratings CSV (header row included).
func readFilteredRatings(path string) ([]ratingRow, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the configured data root
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var rows []ratingRow
	for i, rec := range recs {
		if i == 0 {
			continue // header
		}
		if len(rec) != 3 {
			return nil, fmt.Errorf("%s: row %d has %d fields, want 3", path, i, len(rec))
		}
		rating, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: parse rating %q: %w", path, rec[2], err)
		}
		rows = append(rows, ratingRow{user: rec[0], item: rec[1], rating: rating})
	}
	return rows, nil
}

// bookItemFeatures builds the book feature matrix: column 0 is publication
// year rescaled by the observed maximum; authors occupy a one-hot block
// starting at column 1 with offsets in first-occurrence order.
func bookItemFeatures(path string, vMap map[string]int, numItems int, opts LoadOptions) (*sparse.CSR, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the configured data root
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var isbns, authors []string
	var years []float64
	for i, rec := range recs {
		if i == 0 {
			continue // header
		}
		if len(rec) != 3 {
			skipRecord(opts, path, "field_count")
			continue
		}
		year, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			skipRecord(opts, path, "bad_year")
			continue
		}
		isbns = append(isbns, rec[0])
		authors = append(authors, rec[1])
		years = append(years, year)
	}

	yearMax := maxFloat64(years)
	authorIdx, _, numAuthors := MapIDs(authors)

	const scalarCols = 1 // publication year
	var entries []sparse.Entry
	for i, isbn := range isbns {
		vIdx, ok := vMap[isbn]
		if !ok {
			continue
		}
		if years[i] != 0 {
			entries = append(entries, sparse.Entry{Row: vIdx, Col: 0, Val: scaleByMax(years[i], yearMax)})
		}
		entries = append(entries, sparse.Entry{Row: vIdx, Col: scalarCols + authorIdx[i], Val: 1})
	}

	return sparse.NewCSRFromEntries(numItems, scalarCols+numAuthors, entries)
}

// bookUserFeatures builds the single-column user feature matrix: age
// rescaled by the observed maximum.
func bookUserFeatures(path string, uMap map[string]int, numUsers int, opts LoadOptions) (*sparse.CSR, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the configured data root
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var ids []string
	var ages []float64
	for i, rec := range recs {
		if i == 0 {
			continue // header
		}
		if len(rec) != 2 {
			skipRecord(opts, path, "field_count")
			continue
		}
		age, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			skipRecord(opts, path, "bad_age")
			continue
		}
		ids = append(ids, rec[0])
		ages = append(ages, age)
	}

	ageMax := maxFloat64(ages)
	var entries []sparse.Entry
	for i, id := range ids {
		uIdx, ok := uMap[id]
		if !ok {
			continue
		}
		if ages[i] != 0 {
			entries = append(entries, sparse.Entry{Row: uIdx, Col: 0, Val: scaleByMax(ages[i], ageMax)})
		}
	}

	return sparse.NewCSRFromEntries(numUsers, 1, entries)
}
