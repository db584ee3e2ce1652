// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mapq-project/mapq/internal/metrics"
	"github.com/mapq-project/mapq/internal/score"
)

// defaultSeed is used when the config leaves the seed unset.
const defaultSeed = 42

// Engine runs the sample-evaluate-normalize-rank pipeline. It is safe for
// concurrent use; every run draws from its own RNG seeded from the
// configured seed, so identical inputs against an unchanged world produce
// identical rankings no matter how many runs came before.
type Engine struct {
	config   *Config
	world    World
	registry *score.Registry
	logger   zerolog.Logger
	seed     int64
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, world World, registry *score.Registry, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = defaultSeed
	}

	return &Engine{
		config:   cfg,
		world:    world,
		registry: registry,
		logger:   logger.With().Str("component", "engine").Logger(),
		seed:     seed,
	}, nil
}

// Run executes one recommendation run. Errors carry a stage prefix so
// callers can tell a sampling failure from a scoring one.
func (e *Engine) Run(ctx context.Context, params Params) (*Ranking, error) {
	start := time.Now()
	ranking, err := e.run(ctx, params, start)
	metrics.RecordEngineRun(params.StrategyID, time.Since(start), err)
	return ranking, err
}

func (e *Engine) run(ctx context.Context, params Params, start time.Time) (*Ranking, error) {
	runID := uuid.NewString()
	logger := e.logger.With().
		Str("run_id", runID).
		Str("strategy", params.StrategyID).
		Strs("districts", params.DistrictIDs).
		Logger()

	strategy, count, err := e.prepareRun(params)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("candidates", count).Msg("starting run")

	candidates, err := e.sample(params.DistrictIDs, count)
	if err != nil {
		return nil, fmt.Errorf("sampling: %w", err)
	}
	metrics.EngineCandidatesSampled.Observe(float64(len(candidates)))

	samples, err := e.evaluate(ctx, strategy, candidates)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}

	results := rank(strategy, samples, params.Weights)

	ranking := &Ranking{
		RunID:       runID,
		Strategy:    strategy.Name(),
		DistrictIDs: append([]string(nil), params.DistrictIDs...),
		Results:     results,
		GeneratedAt: time.Now().UTC(),
		LatencyMS:   time.Since(start).Milliseconds(),
	}

	logger.Info().
		Int("results", len(results)).
		Int64("latency_ms", ranking.LatencyMS).
		Msg("run complete")
	return ranking, nil
}

// prepareRun validates params and resolves the strategy.
func (e *Engine) prepareRun(params Params) (score.Strategy, int, error) {
	if len(params.DistrictIDs) == 0 {
		return nil, 0, ErrEmptyDistrictSelection
	}
	if err := params.Weights.Validate(); err != nil {
		return nil, 0, err
	}

	strategy, err := e.registry.Resolve(params.StrategyID)
	if err != nil {
		return nil, 0, err
	}

	count := params.CandidateCount
	if count <= 0 {
		count = e.config.CandidateCount
	}
	return strategy, count, nil
}

// sample draws candidates from a stream seeded fresh for this run, keeping
// re-runs with identical inputs identical.
func (e *Engine) sample(districtIDs []string, count int) ([]score.Candidate, error) {
	districts, totalArea, err := resolveDistricts(e.world, districtIDs)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(e.seed)) //nolint:gosec // math/rand is fine for candidate placement
	return sampleCandidates(rng, districts, totalArea, count, count*e.config.SampleAttemptFactor)
}

// evaluate measures every candidate over a bounded worker pool. The first
// evaluation error cancels the remaining work.
func (e *Engine) evaluate(ctx context.Context, strategy score.Strategy, candidates []score.Candidate) ([]score.Sample, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := e.config.workers()
	if workers > len(candidates) {
		workers = len(candidates)
	}

	samples := make([]score.Sample, len(candidates))
	jobs := make(chan int)
	errCh := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sample, err := strategy.Evaluate(ctx, e.world, candidates[i])
				if err != nil {
					errCh <- fmt.Errorf("candidate %s: %w", candidates[i].ID, err)
					cancel()
					return
				}
				samples[i] = sample
			}
		}()
	}

dispatch:
	for i := range candidates {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errCh:
		// Cancellation may be caught by a worker mid-evaluation or by the
		// dispatch loop; both surface as ErrCancelled.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return samples, nil
}

// rank normalizes the batch, finalizes scores, and orders the results:
// score descending, ties broken by candidate ID ascending.
func rank(strategy score.Strategy, samples []score.Sample, weights score.WeightConfig) []score.Result {
	normalized := score.NormalizeBatch(samples, strategy.Criteria())

	results := make([]score.Result, len(samples))
	for i, s := range samples {
		results[i] = score.Result{
			Candidate: s.Candidate,
			Strategy:  strategy.Name(),
			Score:     strategy.Finalize(normalized[i], weights),
			Subscores: normalized[i],
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Candidate.ID < results[j].Candidate.ID
	})
	return results
}
