// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Admitra API server: entity resolution, relationship graphs,
// cross-reference queries, recommendations, and integrity checks over the
// admission catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/admitra/admitra/internal/api"
	"github.com/admitra/admitra/internal/cache"
	"github.com/admitra/admitra/internal/config"
	"github.com/admitra/admitra/internal/crossref"
	"github.com/admitra/admitra/internal/graph"
	"github.com/admitra/admitra/internal/integrity"
	"github.com/admitra/admitra/internal/logging"
	"github.com/admitra/admitra/internal/recommend"
	"github.com/admitra/admitra/internal/resolver"
	"github.com/admitra/admitra/internal/store"
	"github.com/admitra/admitra/internal/supervisor"
	"github.com/admitra/admitra/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "admitra: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.Info().Str("version", api.Version).Msg("admitra starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	resolutionCache, err := newCache(cfg.Cache)
	if err != nil {
		return err
	}
	defer resolutionCache.Close()

	res := resolver.New(st, resolutionCache, cfg.Resolver, cfg.Cache)
	graphEngine := graph.New(st)
	crossrefEngine := crossref.New(st)
	recommendEngine := recommend.New(st,
		cache.NewMemoryCache(cfg.Recommend.CacheTTL, nil), cfg.Recommend, nil)
	checker := integrity.New(st, cfg.Integrity)

	handler := api.NewHandler(
		res, graphEngine, crossrefEngine, recommendEngine, checker, st,
		cfg.API, cfg.Cache.Backend)

	tree := supervisor.NewTree()
	tree.AddAPIService(services.NewHTTPService(cfg.Server, handler.NewRouter()))

	err = tree.Serve(ctx)
	if err != nil && err != context.Canceled {
		return err
	}
	logging.Info().Msg("admitra stopped")
	return nil
}

// newCache selects the resolution-cache backend.
func newCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "badger":
		return cache.NewBadgerCache(cfg.BadgerPath, cfg.PositiveTTL)
	default:
		c := cache.NewMemoryCache(cfg.PositiveTTL, nil)
		if cfg.SweepInterval > 0 {
			c.StartSweep(cfg.SweepInterval)
		}
		return c, nil
	}
}
