// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantText string
	}{
		{
			name:     "unknown dataset",
			mutate:   func(c *Config) { c.Dataset = "netflix" },
			wantText: "registered dataset",
		},
		{
			name:     "missing dataset",
			mutate:   func(c *Config) { c.Dataset = "" },
			wantText: "required",
		},
		{
			name:     "missing data dir",
			mutate:   func(c *Config) { c.DataDir = "" },
			wantText: "required",
		},
		{
			name:     "missing output dir",
			mutate:   func(c *Config) { c.OutputDir = "" },
			wantText: "required",
		},
		{
			name:     "bad mirror url",
			mutate:   func(c *Config) { c.Download.MirrorURL = "not a url" },
			wantText: "valid URL",
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.Logging.Level = "verbose" },
			wantText: "one of",
		},
		{
			name:     "bad log format",
			mutate:   func(c *Config) { c.Logging.Format = "xml" },
			wantText: "one of",
		},
		{
			name:     "inverted age window",
			mutate:   func(c *Config) { c.Books.MinAge = 50; c.Books.MaxAge = 40 },
			wantText: "max_age",
		},
		{
			name:     "negative min age",
			mutate:   func(c *Config) { c.Books.MinAge = -1 },
			wantText: "min_age",
		},
		{
			name:     "test fraction out of range",
			mutate:   func(c *Config) { c.Books.TestFraction = 1 },
			wantText: "test_fraction",
		},
		{
			name:     "rating fraction out of range",
			mutate:   func(c *Config) { c.Books.MinRatingFraction = 1.5 },
			wantText: "min_rating_fraction",
		},
		{
			name:     "cache enabled without dir",
			mutate:   func(c *Config) { c.Cache.Enabled = true; c.Cache.Dir = "" },
			wantText: "cache.dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantText)
			}
		})
	}
}

func TestValidate_OptionalFieldsEmpty(t *testing.T) {
	cfg := defaultConfig()
	cfg.Download.MirrorURL = ""
	cfg.Logging.Level = ""
	cfg.Logging.Format = ""
	cfg.Cache.Enabled = false
	cfg.Cache.Dir = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with optional fields empty: error = %v", err)
	}
}
