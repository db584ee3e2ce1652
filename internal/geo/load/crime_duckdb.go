// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package load

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/geo"
)

// CrimeCSVLoader reads crime incident records from a CSV file through an
// in-memory DuckDB instance. DuckDB's read_csv handles delimiter and type
// sniffing, quoting, and malformed-row reporting far better than a
// hand-rolled parser, and the filter pushdown discards rows without
// coordinates before they reach Go.
type CrimeCSVLoader struct {
	path   string
	logger zerolog.Logger
}

// NewCrimeCSVLoader creates a loader for the given CSV file.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCrimeCSVLoader(path string, logger zerolog.Logger) *CrimeCSVLoader {
	return &CrimeCSVLoader{
		path:   path,
		logger: logger.With().Str("component", "crime_loader").Logger(),
	}
}

// Load reads the CSV into crime-record entities. The file must carry lat
// and lon columns; an optional type column becomes the incident attribute.
// A missing file yields no entities.
func (l *CrimeCSVLoader) Load(ctx context.Context) ([]*geo.Entity, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		l.logger.Debug().Str("path", l.path).Msg("crime file absent, skipping")
		return nil, nil
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT
			row_number() OVER () AS rn,
			CAST(lat AS DOUBLE) AS lat,
			CAST(lon AS DOUBLE) AS lon,
			COALESCE(CAST(type AS VARCHAR), '') AS incident_type
		FROM read_csv(?, header = true, union_by_name = true)
		WHERE lat IS NOT NULL AND lon IS NOT NULL
	`, l.path)
	if err != nil {
		return nil, fmt.Errorf("read crime csv %s: %w", l.path, err)
	}
	defer rows.Close()

	var entities []*geo.Entity
	for rows.Next() {
		var (
			rn           int64
			lat, lon     float64
			incidentType string
		)
		if err := rows.Scan(&rn, &lat, &lon, &incidentType); err != nil {
			return nil, fmt.Errorf("scan crime row: %w", err)
		}

		var attrs map[string]string
		if incidentType != "" {
			attrs = map[string]string{"incident_type": incidentType}
		}

		entity, err := geo.NewEntity(
			fmt.Sprintf("crime-%d", rn),
			geo.KindCrimeRecord,
			"",
			geo.Point{Lat: lat, Lon: lon},
			attrs,
		)
		if err != nil {
			return nil, fmt.Errorf("crime row %d: %w", rn, err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crime rows: %w", err)
	}

	l.logger.Info().Int("records", len(entities)).Msg("loaded crime records")
	return entities, nil
}
