// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package store is the DuckDB adapter for the admission catalog. It owns
// the schema, translates rows into model types (validating at the scan
// boundary), and classifies failures: a missing row is ErrNotFound, a
// connection failure or open circuit breaker is ErrStoreUnavailable.
// Callers never retry; unavailability propagates up.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/sony/gobreaker/v2"

	"github.com/admitra/admitra/internal/config"
	"github.com/admitra/admitra/internal/logging"
)

// Sentinel errors. Engines test these with errors.Is.
var (
	ErrNotFound         = errors.New("store: not found")
	ErrStoreUnavailable = errors.New("store: unavailable")
)

// Store wraps the DuckDB connection pool behind a circuit breaker.
type Store struct {
	db      *sql.DB
	breaker *gobreaker.CircuitBreaker[any]
}

// Open connects to DuckDB (file path, or in-memory when cfg.Path is empty),
// bootstraps the schema, and optionally seeds demo data.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	db, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	s := &Store{
		db:      db,
		breaker: newBreaker(),
	}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.SeedDemoData {
		if err := s.SeedDemoData(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	logging.Info().Str("path", cfg.Path).Bool("seeded", cfg.SeedDemoData).
		Msg("store opened")
	return s, nil
}

func newBreaker() *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "duckdb",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing row is an answer, not a store failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
}

// do runs fn through the circuit breaker and classifies the outcome:
// missing rows map to ErrNotFound, everything else to ErrStoreUnavailable.
func (s *Store) do(fn func() error) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit open", ErrStoreUnavailable)
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// Ping reports connectivity for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.do(func() error { return s.db.PingContext(ctx) })
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
