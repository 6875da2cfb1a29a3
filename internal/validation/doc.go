// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library in a thread-safe
// singleton validator instance with a custom dataset-name rule and
// human-readable error messages. Configuration structs declare their
// constraints with validate tags and are checked once at startup.
//
// # Quick Start
//
//	type Config struct {
//	    Dataset string `validate:"required,dataset"`
//	    DataDir string `validate:"required"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    return fmt.Errorf("configuration validation failed: %w", verr)
//	}
//
// # Custom Tags
//
//   - dataset: the value must be a registered dataset name
//
// The built-in validators (required, oneof, url, min, max, gte, lte)
// cover the remaining configuration constraints.
package validation
