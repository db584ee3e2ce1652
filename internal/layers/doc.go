// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package layers renders world entities and rankings as GeoJSON feature
// collections for map display. Each layer is a named provider; the registry
// serves the catalog the frontend iterates.
package layers
