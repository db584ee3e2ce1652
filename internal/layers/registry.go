// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package layers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownLayer is returned when no provider serves the requested layer.
var ErrUnknownLayer = errors.New("unknown layer")

// Style is the rendering hint a layer ships to the frontend.
type Style struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Weight  int     `json:"weight,omitempty"`
}

// Provider builds one named map layer.
type Provider interface {
	Name() string
	Style() Style
	Build(ctx context.Context) (FeatureCollection, error)
}

// Registry holds the available layer providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty layer registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds or replaces a provider under its name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Build renders the named layer.
func (r *Registry) Build(ctx context.Context, name string) (FeatureCollection, error) {
	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()

	if !ok {
		return FeatureCollection{}, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return p.Build(ctx)
}

// Catalog lists the available layers with their styles, sorted by name.
func (r *Registry) Catalog() []CatalogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]CatalogEntry, 0, len(r.providers))
	for name, p := range r.providers {
		entries = append(entries, CatalogEntry{Name: name, Style: p.Style()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// CatalogEntry describes one available layer.
type CatalogEntry struct {
	Name  string `json:"name"`
	Style Style  `json:"style"`
}
