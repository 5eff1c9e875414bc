// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package api exposes the catalog engines over HTTP. One Handler struct
// holds the engine interfaces; each endpoint lives in its own
// handlers_*.go file.
package api

import (
	"context"
	"time"

	"github.com/admitra/admitra/internal/cache"
	"github.com/admitra/admitra/internal/config"
	"github.com/admitra/admitra/internal/crossref"
	"github.com/admitra/admitra/internal/graph"
	"github.com/admitra/admitra/internal/integrity"
	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/recommend"
	"github.com/admitra/admitra/internal/resolver"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// ResolverService is the resolver surface the handlers need.
type ResolverService interface {
	Resolve(ctx context.Context, query string, kind models.EntityKind, opts resolver.Options) (*models.ResolutionResult, error)
	ResolveBatch(ctx context.Context, queries []string, kind models.EntityKind, opts resolver.Options) (map[string]models.BatchResolutionItem, error)
	CacheStats() cache.Stats
}

// GraphService is the graph surface the handlers need.
type GraphService interface {
	Build(ctx context.Context, rootID string, rootKind models.EntityKind, opts graph.Options) (*models.RelationshipGraph, error)
	FindPath(ctx context.Context, from, to graph.Ref) ([]models.PathStep, error)
}

// CrossrefService is the cross-reference surface the handlers need.
type CrossrefService interface {
	Query(ctx context.Context, f crossref.Filters) (*crossref.Result, error)
}

// RecommendService is the recommendation surface the handlers need.
type RecommendService interface {
	Recommend(ctx context.Context, sourceID string, sourceKind models.EntityKind, opts recommend.Options) ([]models.ScoredCandidate, error)
}

// IntegrityService is the integrity surface the handlers need.
type IntegrityService interface {
	Check(ctx context.Context, opts integrity.Options) (*models.IntegrityReport, error)
	Repair(ctx context.Context, issues []models.IntegrityIssue, dryRun bool) (*models.RepairResult, error)
}

// Pinger reports store connectivity for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires the engines to HTTP.
type Handler struct {
	resolver  ResolverService
	graph     GraphService
	crossref  CrossrefService
	recommend RecommendService
	integrity IntegrityService
	pinger    Pinger

	cfg          config.APIConfig
	cacheBackend string
	startedAt    time.Time
}

// NewHandler builds the Handler.
func NewHandler(
	res ResolverService,
	g GraphService,
	cr CrossrefService,
	rec RecommendService,
	integ IntegrityService,
	pinger Pinger,
	cfg config.APIConfig,
	cacheBackend string,
) *Handler {
	return &Handler{
		resolver:     res,
		graph:        g,
		crossref:     cr,
		recommend:    rec,
		integrity:    integ,
		pinger:       pinger,
		cfg:          cfg,
		cacheBackend: cacheBackend,
		startedAt:    time.Now(),
	}
}
