// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package load

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mapq-project/mapq/internal/metrics"
)

// Fetcher downloads remote datasets into the local data directory. Open
// data portals throttle aggressive clients, so requests go through a rate
// limiter; repeated upstream failures trip a circuit breaker instead of
// hammering a broken endpoint.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// NewFetcher creates a dataset fetcher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFetcher(timeout time.Duration, ratePerSecond float64, logger zerolog.Logger) *Fetcher {
	cbLogger := logger.With().Str("component", "fetcher").Logger()

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "dataset-fetch",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.FetcherState.Set(breakerStateValue(to))
			cbLogger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		cb:      cb,
		logger:  cbLogger,
	}
}

// FetchAll downloads every named dataset into dir, skipping files that
// already exist. One failed download fails the whole call; a partially
// populated data directory would load a misleading world.
func (f *Fetcher) FetchAll(ctx context.Context, dir string, urls map[string]string) error {
	for name, url := range urls {
		dest := filepath.Join(dir, name)
		if _, err := os.Stat(dest); err == nil {
			f.logger.Debug().Str("file", name).Msg("dataset already present")
			continue
		}

		if err := f.fetchOne(ctx, url, dest); err != nil {
			return fmt.Errorf("fetch %s: %w", name, err)
		}
	}
	return nil
}

// fetchOne downloads a single URL to dest, writing through a temp file so a
// torn download never looks like a complete dataset.
func (f *Fetcher) fetchOne(ctx context.Context, url, dest string) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := f.cb.Execute(func() ([]byte, error) {
		return f.get(ctx, url)
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := dest + ".partial"
	if err := os.WriteFile(tmp, body, 0o640); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("finalize %s: %w", dest, err)
	}

	f.logger.Info().
		Str("url", url).
		Str("dest", dest).
		Int("bytes", len(body)).
		Msg("dataset fetched")
	return nil
}

// breakerStateValue maps a breaker state onto the gauge scale.
func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// get performs one HTTP GET and reads the full body.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
