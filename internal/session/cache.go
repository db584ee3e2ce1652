// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/score"
)

// cacheEntry holds one computed ranking plus reachability bookkeeping.
type cacheEntry struct {
	results    []score.Result
	computedAt time.Time

	// refs counts live snapshots whose cache key is this entry. An entry
	// with zero refs is evictable but kept until swept, so returning to
	// earlier criteria within a session stays a hit.
	refs      int
	evictable bool
}

// Cache stores rankings keyed by the (districts, strategy, weights) tuple.
// Entries are created on first computation, marked evictable when no live
// snapshot references their key, and removed by Sweep. Safe for concurrent
// use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	logger  zerolog.Logger
}

// NewCache creates an empty cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCache(logger zerolog.Logger) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		logger:  logger.With().Str("component", "cache").Logger(),
	}
}

// Get returns the cached ranking for the key, if present.
func (c *Cache) Get(key string) ([]score.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || entry.results == nil {
		return nil, false
	}
	return append([]score.Result(nil), entry.results...), true
}

// Put stores a computed ranking under the key. An existing entry for the
// key keeps its reference count.
func (c *Cache) Put(key string, results []score.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	entry.results = append([]score.Result(nil), results...)
	entry.computedAt = time.Now()
	entry.evictable = false

	c.logger.Debug().Str("key", key).Int("results", len(results)).Msg("cached ranking")
}

// Retain records that a live snapshot now references the key. The entry is
// created empty when absent, so reachability survives the lazy-computation
// window between a transition and the first read.
func (c *Cache) Retain(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	entry.refs++
	entry.evictable = false
}

// Release records that a snapshot no longer references the key. When the
// last reference goes, the entry becomes evictable.
func (c *Cache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return
	}
	if entry.refs > 0 {
		entry.refs--
	}
	if entry.refs == 0 {
		entry.evictable = true
	}
}

// Sweep removes evictable entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key, entry := range c.entries {
		if entry.evictable && entry.refs == 0 {
			delete(c.entries, key)
			dropped++
		}
	}
	if dropped > 0 {
		c.logger.Debug().Int("dropped", dropped).Msg("swept cache")
	}
	return dropped
}

// Len returns the number of entries, populated or pending.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
