// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package score

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Registry resolves strategy identifiers to instances. Registration is
// additive and last-write-wins, so a variant can be replaced without
// touching engine call sites. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	logger    zerolog.Logger
}

// NewRegistry creates an empty registry.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger.With().Str("component", "registry").Logger(),
	}
}

// Register adds or replaces a strategy factory under the identifier.
func (r *Registry) Register(id string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced := r.factories[id]
	r.factories[id] = factory

	r.logger.Info().
		Str("strategy", id).
		Bool("replaced", replaced).
		Msg("registered strategy")
}

// Resolve returns a fresh instance of the identified strategy.
func (r *Registry) Resolve(id string) (Strategy, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownStrategy, id, strings.Join(r.IDs(), ", "))
	}
	return factory(), nil
}

// IDs returns the registered identifiers, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RegisterDefaults registers the built-in strategy variants.
func RegisterDefaults(r *Registry) {
	r.Register("convenience", NewConvenienceStrategy)
	r.Register("quality_of_life", NewQualityOfLifeStrategy)
	r.Register("tourist", NewTouristStrategy)
}
