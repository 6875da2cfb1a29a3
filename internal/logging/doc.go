// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

// Package logging provides centralized zerolog-based structured logging
// for Ratingraph.
//
// The package configures a single global logger: JSON output for
// production runs, human-readable console output for development. Pipeline
// stages receive child loggers carrying a component field so every log
// line can be traced back to the stage that emitted it.
//
// # Quick Start
//
//	import "github.com/tomtom215/ratingraph/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("dataset", "ml_100k").Msg("load complete")
//	logging.Error().Err(err).Msg("split failed")
//
//	// Component-scoped child logger
//	loader := logging.With().Str("component", "dataset").Logger()
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// chain emits nothing.
package logging
