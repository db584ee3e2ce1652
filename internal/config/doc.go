// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package config loads application configuration with layered sources:
// built-in defaults, then an optional YAML file, then environment
// variables. The loaded Config is immutable and safe for concurrent reads.
package config
