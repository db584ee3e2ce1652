// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package load

import (
	"testing"

	"github.com/mapq-project/mapq/internal/geo"
)

func TestParseGeoJSONPoints(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"id": "stop-7",
				"geometry": {"type": "Point", "coordinates": [-78.51, -0.22]},
				"properties": {"name": "La Alameda", "station": "metro"}
			},
			{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [-78.49, -0.18]},
				"properties": {}
			}
		]
	}`)

	entities, err := ParseGeoJSON(data, geo.KindTransitStop)
	if err != nil {
		t.Fatalf("ParseGeoJSON: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(entities))
	}

	first := entities[0]
	if first.ID != "stop-7" || first.Name != "La Alameda" {
		t.Errorf("first = %s/%s", first.ID, first.Name)
	}
	if v, ok := first.Attr("station"); !ok || v != "metro" {
		t.Errorf("station attr = %q, %v", v, ok)
	}
	if loc := first.Location(); loc.Lat != -0.22 || loc.Lon != -78.51 {
		t.Errorf("coordinates swapped: %+v", loc)
	}

	// Feature without an id gets a deterministic fallback.
	if entities[1].ID != "transit_stop-2" {
		t.Errorf("fallback id = %s", entities[1].ID)
	}
}

func TestParseGeoJSONPolygonOuterRing(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"id": "centro",
			"geometry": {
				"type": "Polygon",
				"coordinates": [[
					[-78.52, -0.23], [-78.50, -0.23], [-78.50, -0.21], [-78.52, -0.21], [-78.52, -0.23]
				]]
			},
			"properties": {"name": "Centro"}
		}]
	}`)

	entities, err := ParseGeoJSON(data, geo.KindDistrict)
	if err != nil {
		t.Fatalf("ParseGeoJSON: %v", err)
	}

	pg, ok := entities[0].Polygon()
	if !ok {
		t.Fatal("district did not parse as polygon")
	}
	if !pg.Contains(geo.Point{Lat: -0.22, Lon: -78.51}) {
		t.Error("point inside district not contained")
	}
	if pg.Contains(geo.Point{Lat: -0.10, Lon: -78.51}) {
		t.Error("point outside district contained")
	}
}

func TestParseGeoJSONLineString(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"id": "line-1",
			"geometry": {
				"type": "LineString",
				"coordinates": [[-78.52, -0.23], [-78.50, -0.21]]
			},
			"properties": {"name": "Metro L1"}
		}]
	}`)

	entities, err := ParseGeoJSON(data, geo.KindTransitLine)
	if err != nil {
		t.Fatalf("ParseGeoJSON: %v", err)
	}
	if _, ok := entities[0].Geometry.(geo.LineString); !ok {
		t.Errorf("geometry type = %T, want LineString", entities[0].Geometry)
	}
}

func TestParseGeoJSONRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not a collection", `{"type": "Feature"}`},
		{"unsupported geometry", `{"type": "FeatureCollection", "features": [{"type": "Feature", "geometry": {"type": "MultiPolygon", "coordinates": []}, "properties": {}}]}`},
		{"empty polygon", `{"type": "FeatureCollection", "features": [{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": []}, "properties": {}}]}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGeoJSON([]byte(tt.data), geo.KindPark); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestGeoJSONFileLoaderMissingFile(t *testing.T) {
	l := NewGeoJSONFileLoader("/nonexistent/parks.geojson", geo.KindPark)
	entities, err := l.Load()
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(entities) != 0 {
		t.Errorf("got %d entities from missing file", len(entities))
	}
}
