// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package load

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/config"
	"github.com/mapq-project/mapq/internal/geo"
)

// DatasetLoader implements geo.Loader over the configured dataset files.
type DatasetLoader struct {
	cfg    config.DataConfig
	crime  *CrimeCSVLoader
	logger zerolog.Logger
}

// NewDatasetLoader creates a loader over the configured data directory.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDatasetLoader(cfg config.DataConfig, logger zerolog.Logger) *DatasetLoader {
	return &DatasetLoader{
		cfg:    cfg,
		crime:  NewCrimeCSVLoader(filepath.Join(cfg.Dir, cfg.CrimeCSVFile), logger),
		logger: logger.With().Str("component", "dataset_loader").Logger(),
	}
}

// Prepare downloads remote datasets when fetching is enabled. Call once
// before the world model loads.
func (d *DatasetLoader) Prepare(ctx context.Context) error {
	if !d.cfg.Fetch.Enabled {
		return nil
	}
	fetcher := NewFetcher(d.cfg.Fetch.Timeout, d.cfg.Fetch.RatePerSecond, d.logger)
	return fetcher.FetchAll(ctx, d.cfg.Dir, d.cfg.Fetch.URLs)
}

// LoadEntities implements geo.Loader.
func (d *DatasetLoader) LoadEntities(ctx context.Context, kind geo.Kind) ([]*geo.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if kind == geo.KindCrimeRecord {
		return d.crime.Load(ctx)
	}

	file, err := d.fileFor(kind)
	if err != nil {
		return nil, err
	}
	return NewGeoJSONFileLoader(filepath.Join(d.cfg.Dir, file), kind).Load()
}

// fileFor maps an entity kind to its configured file name.
func (d *DatasetLoader) fileFor(kind geo.Kind) (string, error) {
	switch kind {
	case geo.KindDistrict:
		return d.cfg.DistrictsFile, nil
	case geo.KindTransitStop:
		return d.cfg.TransitStopsFile, nil
	case geo.KindTransitLine:
		return d.cfg.TransitLinesFile, nil
	case geo.KindPark:
		return d.cfg.ParksFile, nil
	case geo.KindTouristPlace:
		return d.cfg.TouristFile, nil
	default:
		return "", fmt.Errorf("%w: %q", geo.ErrUnknownKind, kind)
	}
}
