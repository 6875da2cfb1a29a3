// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestFetchMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/u1.base":
			_, _ = w.Write([]byte("1\t10\t5\t0\n"))
		case "/u.item":
			_, _ = w.Write([]byte("catalog\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	// A pre-existing file must not be re-fetched.
	writeFixture(t, dir, "u.item", "local copy\n")

	f := NewFetcher(srv.URL, zerolog.Nop())
	if err := f.FetchMissing(context.Background(), dir, []string{"u1.base", "u.item"}); err != nil {
		t.Fatalf("FetchMissing() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "u1.base"))
	if err != nil {
		t.Fatalf("read fetched file: %v", err)
	}
	if string(got) != "1\t10\t5\t0\n" {
		t.Errorf("fetched content = %q", got)
	}

	kept, err := os.ReadFile(filepath.Join(dir, "u.item"))
	if err != nil {
		t.Fatalf("read existing file: %v", err)
	}
	if string(kept) != "local copy\n" {
		t.Errorf("existing file overwritten: %q", kept)
	}
}

func TestFetchMissing_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewFetcher(srv.URL, zerolog.Nop())
	if err := f.FetchMissing(context.Background(), t.TempDir(), []string{"missing.dat"}); err == nil {
		t.Fatal("404 response: expected error")
	}
}

func TestFetchMissing_NoPartialFile(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(srv.URL, zerolog.Nop())
	_ = f.FetchMissing(context.Background(), dir, []string{"missing.dat"})

	if _, err := os.Stat(filepath.Join(dir, "missing.dat")); !os.IsNotExist(err) {
		t.Error("failed fetch left a destination file behind")
	}
	if _, err := os.Stat(filepath.Join(dir, "missing.dat.tmp")); !os.IsNotExist(err) {
		t.Error("failed fetch left a temporary file behind")
	}
}
