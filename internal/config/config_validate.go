// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package config

import (
	"fmt"

	"github.com/tomtom215/ratingraph/internal/validation"
)

// Validate checks that the configuration is complete and consistent.
// Struct-level constraints are enforced by validate tags; cross-field rules
// are checked by hand.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateBooks(); err != nil {
		return err
	}

	return c.validateCache()
}

// validateBooks checks the Book-Crossing filter thresholds. The tags cannot
// express the age-window ordering, so it lives here.
func (c *Config) validateBooks() error {
	b := c.Books

	if b.MinAge < 0 {
		return fmt.Errorf("books.min_age must not be negative, got %v", b.MinAge)
	}
	if b.MaxAge <= b.MinAge {
		return fmt.Errorf("books.max_age (%v) must exceed books.min_age (%v)", b.MaxAge, b.MinAge)
	}
	if b.MinRatingFraction < 0 || b.MinRatingFraction >= 1 {
		return fmt.Errorf("books.min_rating_fraction must be in [0,1), got %v", b.MinRatingFraction)
	}
	if b.TestFraction < 0 || b.TestFraction >= 1 {
		return fmt.Errorf("books.test_fraction must be in [0,1), got %v", b.TestFraction)
	}
	return nil
}

// validateCache checks that an enabled cache has somewhere to live.
func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required when cache.enabled=true")
	}
	return nil
}
