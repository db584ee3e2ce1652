// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package geo

import (
	"math"
	"sort"
)

// spatialIndex divides geographic space into cells for fast proximity
// queries. Instead of O(n) comparisons to find nearby entities, a query only
// checks cells near the query point. The index is built once at store load
// and never mutated, so reads need no locking.
type spatialIndex struct {
	cells       map[cellKey][]*Entity
	cellSizeDeg float64
	size        int
}

// cellKey is a grid cell coordinate.
type cellKey struct {
	X, Y int
}

// newSpatialIndex builds an index over the given entities.
// cellSizeKm is the approximate cell edge length; smaller cells are more
// precise but mean more cells to check per query.
func newSpatialIndex(entities []*Entity, cellSizeKm float64) *spatialIndex {
	if cellSizeKm <= 0 {
		cellSizeKm = 1
	}

	idx := &spatialIndex{
		cells:       make(map[cellKey][]*Entity),
		cellSizeDeg: cellSizeKm / kmPerDegree,
		size:        len(entities),
	}

	for _, e := range entities {
		key := idx.keyFor(e.Location())
		idx.cells[key] = append(idx.cells[key], e)
	}

	return idx
}

// keyFor returns the cell key for a point.
func (idx *spatialIndex) keyFor(p Point) cellKey {
	lon := p.Lon
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}

	return cellKey{
		X: int(math.Floor(lon / idx.cellSizeDeg)),
		Y: int(math.Floor(p.Lat / idx.cellSizeDeg)),
	}
}

// Neighbor pairs an entity with its distance from a query point.
type Neighbor struct {
	Entity     *Entity `json:"entity"`
	DistanceKm float64 `json:"distance_km"`
}

// nearest returns the k entities closest to p, distance ascending with ties
// broken by entity ID. It expands the ring of inspected cells until the
// ring's lower distance bound exceeds the kth best distance.
func (idx *spatialIndex) nearest(p Point, k int) []Neighbor {
	if k <= 0 || idx.size == 0 {
		return nil
	}
	if k > idx.size {
		k = idx.size
	}

	center := idx.keyFor(p)
	found := make([]Neighbor, 0, k*2)

	// maxRings bounds the search even for sparse grids.
	maxRings := int(math.Ceil(360/idx.cellSizeDeg)) + 1

	for ring := 0; ring <= maxRings; ring++ {
		for _, key := range ringKeys(center, ring) {
			for _, e := range idx.cells[key] {
				found = append(found, Neighbor{
					Entity:     e,
					DistanceKm: DistanceKm(p, e.Location()),
				})
			}
		}

		if len(found) >= k {
			sortNeighbors(found)
			kth := found[k-1].DistanceKm
			// Cells in the next ring are at least this far away.
			lowerBound := float64(ring) * idx.cellSizeDeg * kmPerDegree * 0.5
			if lowerBound > kth {
				break
			}
		}
	}

	sortNeighbors(found)
	if len(found) > k {
		found = found[:k]
	}
	return found
}

// within returns the entities whose representative point lies inside the
// polygon. Only cells overlapping the polygon bounding box are inspected.
func (idx *spatialIndex) within(pg Polygon) []*Entity {
	if idx.size == 0 {
		return nil
	}

	box := pg.Bounds()
	minKey := idx.keyFor(Point{Lat: box.MinLat, Lon: box.MinLon})
	maxKey := idx.keyFor(Point{Lat: box.MaxLat, Lon: box.MaxLon})

	var results []*Entity
	for x := minKey.X; x <= maxKey.X; x++ {
		for y := minKey.Y; y <= maxKey.Y; y++ {
			for _, e := range idx.cells[cellKey{X: x, Y: y}] {
				if pg.Contains(e.Location()) {
					results = append(results, e)
				}
			}
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

// withinRadius returns entities within radiusKm of p, distance ascending.
func (idx *spatialIndex) withinRadius(p Point, radiusKm float64) []Neighbor {
	if idx.size == 0 || radiusKm <= 0 {
		return nil
	}

	rings := int(math.Ceil(radiusKm/(idx.cellSizeDeg*kmPerDegree))) + 1
	center := idx.keyFor(p)

	var results []Neighbor
	for dx := -rings; dx <= rings; dx++ {
		for dy := -rings; dy <= rings; dy++ {
			key := cellKey{X: center.X + dx, Y: center.Y + dy}
			for _, e := range idx.cells[key] {
				d := DistanceKm(p, e.Location())
				if d <= radiusKm {
					results = append(results, Neighbor{Entity: e, DistanceKm: d})
				}
			}
		}
	}

	sortNeighbors(results)
	return results
}

// ringKeys returns the cell keys at Chebyshev distance ring from center.
func ringKeys(center cellKey, ring int) []cellKey {
	if ring == 0 {
		return []cellKey{center}
	}

	keys := make([]cellKey, 0, 8*ring)
	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			if maxAbs(dx, dy) != ring {
				continue
			}
			keys = append(keys, cellKey{X: center.X + dx, Y: center.Y + dy})
		}
	}
	return keys
}

// sortNeighbors orders by distance ascending, then entity ID ascending so
// equal distances rank deterministically.
func sortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].DistanceKm != ns[j].DistanceKm {
			return ns[i].DistanceKm < ns[j].DistanceKm
		}
		return ns[i].Entity.ID < ns[j].Entity.ID
	})
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
