// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package pipeline

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingraph/internal/config"
	"github.com/tomtom215/ratingraph/internal/dataset"
	"github.com/tomtom215/ratingraph/internal/metrics"
	"github.com/tomtom215/ratingraph/internal/split"
)

// Run executes one preprocessing run: load (or cache-restore) the dataset,
// then split it per the schema's policy. The returned result carries the
// three partitions, the training adjacency, and the side features.
func Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (res *split.Result, err error) {
	runID := uuid.NewString()
	log := logger.With().Str("run_id", runID).Str("dataset", cfg.Dataset).Logger()

	defer func() {
		metrics.RecordPipelineRun(cfg.Dataset, err)
	}()

	schema, err := dataset.Lookup(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := loadData(ctx, cfg, schema, log)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Dataset, err)
	}
	metrics.RecordStageDuration("load", time.Since(start))
	metrics.RecordDatasetShape(cfg.Dataset, data.NumUsers, data.NumItems, data.Edges())

	strategy, err := split.ForPolicy(schema.Policy)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	res, err = strategy(data, split.Options{
		ShuffleSeed: cfg.ShuffleSeed,
		Testing:     cfg.Testing,
	})
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", cfg.Dataset, err)
	}
	metrics.RecordStageDuration("split", time.Since(start))
	metrics.RecordPartitionSizes(cfg.Dataset, res.Train.Len(), res.Val.Len(), res.Test.Len())

	log.Info().
		Str("policy", schema.Policy.String()).
		Int("train", res.Train.Len()).
		Int("val", res.Val.Len()).
		Int("test", res.Test.Len()).
		Int("classes", len(res.ClassValues)).
		Bool("testing", cfg.Testing).
		Msg("preprocessing complete")

	return res, nil
}

// loadData resolves the dataset tuple, preferring the derived cache when
// enabled. A corrupt or missing cache falls back to a full load and the
// cache is rewritten.
func loadData(ctx context.Context, cfg *config.Config, schema dataset.Schema, log zerolog.Logger) (*dataset.RawData, error) {
	cachePath := ""
	if cfg.Cache.Enabled {
		cachePath = filepath.Join(cfg.Cache.Dir, cacheFileName(schema, cfg))
		if data, err := dataset.LoadCache(cachePath); err == nil {
			metrics.RecordCacheHit()
			log.Info().Str("cache", cachePath).Msg("derived cache hit")
			return data, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			// A present-but-unreadable cache is worth surfacing; the load
			// below rewrites it.
			log.Warn().Err(err).Str("cache", cachePath).Msg("derived cache unreadable, reloading")
		}
		metrics.RecordCacheMiss()
	}

	opts := dataset.LoadOptions{
		DataDir: cfg.DataDir,
		Seed:    cfg.Seed,
		Logger:  log,
		Books:   cfg.Books,
		Stats:   metrics.Recorder{},
	}
	if cfg.Download.Enabled {
		opts.Fetcher = dataset.NewFetcher(cfg.Download.MirrorURL, log)
	}

	data, err := schema.Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := os.MkdirAll(cfg.Cache.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		if err := dataset.SaveCache(cachePath, data, schema.Name, cfg.Seed); err != nil {
			return nil, fmt.Errorf("save cache: %w", err)
		}
		log.Info().Str("cache", cachePath).Msg("derived cache written")
	}

	return data, nil
}

// cacheFileName builds the derived-cache file name from everything the
// loaded tuple depends on. Book-Crossing loads also depend on the filter
// thresholds and the test carve fraction, so those are folded in as a short
// digest; a threshold change then misses the cache instead of serving a
// stale carve.
func cacheFileName(schema dataset.Schema, cfg *config.Config) string {
	name := fmt.Sprintf("%s_seed%d", schema.Name, cfg.Seed)
	if schema.Name == "book_crossing" {
		b := cfg.Books
		sum := sha256.Sum256([]byte(fmt.Sprintf("%g/%g/%g/%g",
			b.MinAge, b.MaxAge, b.MinRatingFraction, b.TestFraction)))
		name = fmt.Sprintf("%s_%x", name, sum[:4])
	}
	return name + ".cache"
}
