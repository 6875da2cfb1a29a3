// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package config

import (
	"github.com/tomtom215/ratingraph/internal/dataset"
)

// Config is the root configuration for a preprocessing run.
type Config struct {
	// Dataset is the dataset to preprocess, one of the registered names.
	Dataset string `koanf:"dataset" validate:"required,dataset"`

	// DataDir is the root directory holding raw dataset files; each dataset
	// lives in its own subdirectory.
	DataDir string `koanf:"data_dir" validate:"required"`

	// OutputDir is where split artifacts and the run summary are written.
	OutputDir string `koanf:"output_dir" validate:"required"`

	// Seed drives load-time randomness: the ml_1m edge shuffle and the
	// book_crossing test carve.
	Seed int64 `koanf:"seed"`

	// ShuffleSeed seeds the split engine's internal carve shuffle. Zero
	// selects the engine default.
	ShuffleSeed int64 `koanf:"shuffle_seed"`

	// Testing merges the validation partition into training for final
	// evaluation runs.
	Testing bool `koanf:"testing"`

	// Symmetric selects symmetric degree normalization for the training
	// adjacency; false selects plain row normalization.
	Symmetric bool `koanf:"symmetric"`

	// Cache controls the derived-tuple cache.
	Cache CacheConfig `koanf:"cache"`

	// Download controls fetching of missing dataset files.
	Download DownloadConfig `koanf:"download"`

	// Books holds the Book-Crossing filter thresholds.
	Books dataset.BooksFilterConfig `koanf:"books"`

	// Logging configures the global logger.
	Logging LoggingConfig `koanf:"logging"`
}

// CacheConfig controls the derived-tuple cache.
type CacheConfig struct {
	// Enabled turns cache reads and writes on.
	Enabled bool `koanf:"enabled"`

	// Dir is the cache directory; one cache file per dataset.
	Dir string `koanf:"dir"`
}

// DownloadConfig controls fetching of missing dataset files. Only the
// ml_100k loader fetches; the other datasets have no public mirror and
// their files must already be on disk.
type DownloadConfig struct {
	// Enabled turns fetching on; when off, missing files fail the load.
	Enabled bool `koanf:"enabled"`

	// MirrorURL is the dataset mirror root.
	MirrorURL string `koanf:"mirror_url" validate:"omitempty,url"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`

	// Caller includes caller file:line in log output.
	Caller bool `koanf:"caller"`
}
