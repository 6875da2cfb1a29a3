// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/ratingraph/internal/dataset"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ratingraph/config.yaml",
	"/etc/ratingraph/config.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config
// file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces all configuration environment variables.
const envPrefix = "RATINGRAPH_"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Dataset:     "ml_100k",
		DataDir:     "data",
		OutputDir:   "out",
		Seed:        1234,
		ShuffleSeed: 0, // engine default
		Testing:     false,
		Symmetric:   true,
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "data/cache",
		},
		Download: DownloadConfig{
			Enabled:   false, // opt-in; offline runs are the norm
			MirrorURL: "https://files.grouplens.org/datasets/movielens/ml-100k",
		},
		Books: dataset.DefaultBooksFilterConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads and validates the configuration. It is the entry point main()
// uses; see LoadWithKoanf for the layering rules.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any setting
//
// Precedence is ENV > File > Defaults. The returned config is validated.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths. Returns
// the first file found, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps RATINGRAPH_-stripped, lowercased environment variable
// names to koanf config paths. Names not listed here fall through as flat
// top-level keys, so RATINGRAPH_DATASET resolves without an entry.
var envMappings = map[string]string{
	"cache_enabled":             "cache.enabled",
	"cache_dir":                 "cache.dir",
	"download_enabled":          "download.enabled",
	"download_mirror_url":       "download.mirror_url",
	"books_min_age":             "books.min_age",
	"books_max_age":             "books.max_age",
	"books_min_rating_fraction": "books.min_rating_fraction",
	"books_test_fraction":       "books.test_fraction",
	"log_level":                 "logging.level",
	"log_format":                "logging.format",
	"log_caller":                "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config
// paths.
//
// Examples:
//   - RATINGRAPH_DATASET -> dataset
//   - RATINGRAPH_DATA_DIR -> data_dir
//   - RATINGRAPH_CACHE_DIR -> cache.dir
//   - RATINGRAPH_BOOKS_MIN_AGE -> books.min_age
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return key
}
