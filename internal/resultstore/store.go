// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package resultstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/engine"
)

// rankingKeyPrefix namespaces ranking records in the store.
const rankingKeyPrefix = "ranking:"

// ErrRankingNotFound is returned when no persisted ranking exists for a
// cache key.
var ErrRankingNotFound = errors.New("ranking not found")

// Store persists rankings in BadgerDB.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open creates or opens the store at path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(path string, logger zerolog.Logger) (*Store, error) {
	storeLogger := logger.With().Str("component", "resultstore").Logger()

	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open result store at %s: %w", path, err)
	}

	storeLogger.Info().Str("path", path).Msg("result store opened")
	return &Store{db: db, logger: storeLogger}, nil
}

// NewWithDB wraps an existing Badger handle, for tests and embedding.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWithDB(db *badger.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger.With().Str("component", "resultstore").Logger()}
}

// persistedRanking wraps a ranking with storage metadata.
type persistedRanking struct {
	Key     string          `json:"key"`
	Ranking *engine.Ranking `json:"ranking"`
	SavedAt time.Time       `json:"saved_at"`
}

// Save persists a ranking under its cache key, replacing any earlier
// ranking for the same key.
func (s *Store) Save(key string, ranking *engine.Ranking) error {
	data, err := json.Marshal(persistedRanking{
		Key:     key,
		Ranking: ranking,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal ranking: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rankingKeyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("save ranking: %w", err)
	}

	s.logger.Debug().Str("key", key).Int("results", len(ranking.Results)).Msg("ranking persisted")
	return nil
}

// Load retrieves the persisted ranking for a cache key.
func (s *Store) Load(key string) (*engine.Ranking, error) {
	var stored persistedRanking

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(rankingKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %q", ErrRankingNotFound, key)
		}
		if err != nil {
			return fmt.Errorf("get ranking: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return nil, err
	}
	return stored.Ranking, nil
}

// Delete removes a persisted ranking. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(rankingKeyPrefix + key))
	})
}

// Keys lists every persisted cache key.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(rankingKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	return keys, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
