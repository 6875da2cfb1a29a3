// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Fetcher downloads missing dataset files from a mirror. It is an optional
// collaborator: loaders only invoke it when expected files are absent.
type Fetcher struct {
	// BaseURL is the mirror root; files are fetched from BaseURL/<name>.
	BaseURL string

	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewFetcher creates a fetcher for the given mirror. Requests are paced at
// one per second to stay polite to public dataset hosts.
func NewFetcher(baseURL string, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Minute},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logger,
	}
}

// FetchMissing downloads every file from files that does not already exist
// under dir. Downloads run concurrently but rate-limited; the first failure
// cancels the rest.
func (f *Fetcher) FetchMissing(ctx context.Context, dir string, files []string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range files {
		name := name
		dest := filepath.Join(dir, name)
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		g.Go(func() error {
			return f.fetchOne(ctx, dest, name)
		})
	}
	return g.Wait()
}

// fetchOne downloads a single file to a temporary path and renames it into
// place, so a partial download never masquerades as a complete file.
func (f *Fetcher) fetchOne(ctx context.Context, dest, name string) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	url := f.BaseURL + "/" + name
	f.logger.Info().Str("url", url).Msg("fetching dataset file")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	tmp := dest + ".tmp"
	out, err := os.Create(tmp) //nolint:gosec // dest is built from the configured data root
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit %s: %w", dest, err)
	}
	return nil
}
