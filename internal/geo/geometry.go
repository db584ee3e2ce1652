// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used for haversine distances.
const earthRadiusKm = 6371.0

// kmPerDegree approximates the length of one degree of latitude.
const kmPerDegree = 111.0

// Geometry is the shape of a geospatial entity in WGS84 coordinates.
type Geometry interface {
	// Bounds returns the axis-aligned bounding box of the geometry.
	Bounds() BoundingBox

	// Centroid returns a representative point for the geometry.
	Centroid() Point

	// Validate reports whether the geometry is well-formed.
	Validate() error
}

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds implements Geometry.
func (p Point) Bounds() BoundingBox {
	return BoundingBox{MinLat: p.Lat, MaxLat: p.Lat, MinLon: p.Lon, MaxLon: p.Lon}
}

// Centroid implements Geometry.
func (p Point) Centroid() Point { return p }

// Validate implements Geometry.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range", ErrInvalidGeometry, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %f out of range", ErrInvalidGeometry, p.Lon)
	}
	return nil
}

// BoundingBox is an axis-aligned lat/lon rectangle.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies inside the box (edges inclusive).
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Union returns the smallest box covering both boxes.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		MinLat: math.Min(b.MinLat, o.MinLat),
		MinLon: math.Min(b.MinLon, o.MinLon),
		MaxLat: math.Max(b.MaxLat, o.MaxLat),
		MaxLon: math.Max(b.MaxLon, o.MaxLon),
	}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Point {
	return Point{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}

// Pad returns the box expanded by the given distance in kilometers on every
// side. Longitude padding is scaled by the latitude of the box center.
func (b BoundingBox) Pad(km float64) BoundingBox {
	dLat := km / kmPerDegree
	cosLat := math.Cos(b.Center().Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon := km / (kmPerDegree * cosLat)

	return BoundingBox{
		MinLat: b.MinLat - dLat,
		MinLon: b.MinLon - dLon,
		MaxLat: b.MaxLat + dLat,
		MaxLon: b.MaxLon + dLon,
	}
}

// LineString is an ordered sequence of points (transit lines).
type LineString struct {
	Points []Point `json:"points"`
}

// Bounds implements Geometry.
func (l LineString) Bounds() BoundingBox {
	box := l.Points[0].Bounds()
	for _, p := range l.Points[1:] {
		box = box.Union(p.Bounds())
	}
	return box
}

// Centroid implements Geometry. It returns the vertex mean, which is good
// enough for proximity scoring.
func (l LineString) Centroid() Point {
	var lat, lon float64
	for _, p := range l.Points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(l.Points))
	return Point{Lat: lat / n, Lon: lon / n}
}

// Validate implements Geometry.
func (l LineString) Validate() error {
	if len(l.Points) < 2 {
		return fmt.Errorf("%w: line needs at least 2 points, got %d", ErrInvalidGeometry, len(l.Points))
	}
	for _, p := range l.Points {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Polygon is a simple polygon given by its outer ring. The ring is treated
// as implicitly closed; a trailing point equal to the first is accepted and
// ignored.
type Polygon struct {
	Ring []Point `json:"ring"`
}

// ring returns the open ring (without a duplicated closing vertex).
func (pg Polygon) ring() []Point {
	r := pg.Ring
	if len(r) > 1 && r[0] == r[len(r)-1] {
		r = r[:len(r)-1]
	}
	return r
}

// Bounds implements Geometry.
func (pg Polygon) Bounds() BoundingBox {
	r := pg.ring()
	box := r[0].Bounds()
	for _, p := range r[1:] {
		box = box.Union(p.Bounds())
	}
	return box
}

// Centroid implements Geometry using the planar area-weighted formula,
// falling back to the vertex mean for degenerate rings.
func (pg Polygon) Centroid() Point {
	r := pg.ring()

	var area, cx, cy float64
	for i := range r {
		j := (i + 1) % len(r)
		cross := r[i].Lon*r[j].Lat - r[j].Lon*r[i].Lat
		area += cross
		cx += (r[i].Lon + r[j].Lon) * cross
		cy += (r[i].Lat + r[j].Lat) * cross
	}
	area /= 2

	if math.Abs(area) < 1e-12 {
		var lat, lon float64
		for _, p := range r {
			lat += p.Lat
			lon += p.Lon
		}
		n := float64(len(r))
		return Point{Lat: lat / n, Lon: lon / n}
	}

	return Point{Lat: cy / (6 * area), Lon: cx / (6 * area)}
}

// AreaKm2 returns the approximate polygon area in square kilometers using
// the shoelace formula with longitude scaled by the centroid latitude.
func (pg Polygon) AreaKm2() float64 {
	r := pg.ring()
	if len(r) < 3 {
		return 0
	}

	cosLat := math.Cos(pg.Centroid().Lat * math.Pi / 180)

	var sum float64
	for i := range r {
		j := (i + 1) % len(r)
		xi, yi := r[i].Lon*cosLat*kmPerDegree, r[i].Lat*kmPerDegree
		xj, yj := r[j].Lon*cosLat*kmPerDegree, r[j].Lat*kmPerDegree
		sum += xi*yj - xj*yi
	}
	return math.Abs(sum) / 2
}

// Contains reports whether the point is inside the polygon (ray casting,
// edges counted as inside).
func (pg Polygon) Contains(p Point) bool {
	r := pg.ring()
	if len(r) < 3 {
		return false
	}

	inside := false
	for i, j := 0, len(r)-1; i < len(r); j, i = i, i+1 {
		yi, yj := r[i].Lat, r[j].Lat
		xi, xj := r[i].Lon, r[j].Lon

		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lon < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// Validate implements Geometry. A polygon ring must have at least three
// distinct vertices and must not self-intersect.
func (pg Polygon) Validate() error {
	r := pg.ring()
	if len(r) < 3 {
		return fmt.Errorf("%w: polygon ring needs at least 3 points, got %d", ErrInvalidGeometry, len(r))
	}
	for _, p := range r {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if selfIntersects(r) {
		return fmt.Errorf("%w: polygon ring self-intersects", ErrInvalidGeometry)
	}
	return nil
}

// selfIntersects checks every non-adjacent edge pair for intersection.
// Quadratic, but rings are small (district boundaries).
func selfIntersects(ring []Point) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a1 := ring[i]
		a2 := ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip adjacent edges (they share a vertex).
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b1 := ring[j]
			b2 := ring[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// segmentsIntersect reports proper intersection of two segments.
func segmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// cross returns the z-component of (b-a) x (p-a).
func cross(a, b, p Point) float64 {
	return (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
}

// DistanceKm returns the haversine distance between two points in kilometers.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
