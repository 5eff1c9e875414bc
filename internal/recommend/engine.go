// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package recommend merges five weak signals into one ranked candidate
// list. Each source produces candidates scored on its own [0, 100] scale;
// the merge multiplies by the source's fixed weight and accumulates.
// Weights are deliberately hardcoded: they encode product policy, not
// configuration.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/admitra/admitra/internal/cache"
	"github.com/admitra/admitra/internal/config"
	"github.com/admitra/admitra/internal/logging"
	"github.com/admitra/admitra/internal/models"
)

// Fixed source weights. They sum to 1.0, but the final score is not
// clamped: a candidate surfaced by every source can exceed 100, and that
// excess is signal.
const (
	weightGraph           = 0.30
	weightCollaborative   = 0.25
	weightContent         = 0.20
	weightTrending        = 0.15
	weightPersonalization = 0.10
)

const maxReasons = 3

// Store is the slice of the catalog store the recommender needs.
type Store interface {
	GetEntity(ctx context.Context, kind models.EntityKind, id string) (models.Entity, error)
	CollegesByRegion(ctx context.Context, region string, limit int) ([]*models.College, error)
	CollegesOfferingCourseName(ctx context.Context, normalizedName, excludeCollegeID string, limit int) ([]*models.College, error)
	CoursesByCollege(ctx context.Context, collegeID string) ([]*models.Course, error)
	ListInteractionsSince(ctx context.Context, since time.Time, limit int) ([]models.Interaction, error)
	GetUserPreferences(ctx context.Context, userID string) (*models.UserPreferences, error)
}

// Options controls one recommendation request.
type Options struct {
	// UserID enables the personalization signal when set.
	UserID string
	// Limit truncates the ranked output. Zero means the configured default.
	Limit int
	// IncludeReasons attaches human-readable match reasons.
	IncludeReasons bool
}

// DefaultOptions returns limit-10 recommendations with reasons.
func DefaultOptions() Options {
	return Options{Limit: 0, IncludeReasons: true}
}

// Engine merges recommendation signals.
type Engine struct {
	store Store
	cache cache.Cache
	cfg   config.RecommendConfig
	clock cache.Clock
}

// New builds an Engine. The cache may be nil, disabling response caching.
// A nil clock falls back to the system clock.
func New(st Store, c cache.Cache, cfg config.RecommendConfig, clock cache.Clock) *Engine {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &Engine{store: st, cache: c, cfg: cfg, clock: clock}
}

// candidate accumulates one entity's merged score. order is the global
// insertion index used for stable tie-breaking: sources run in weight
// order, so a candidate first seen by a heavier source wins ties.
type candidate struct {
	id      string
	kind    models.EntityKind
	name    string
	score   float64
	order   int
	sources []models.RecommendationSource
	reasons []string
}

// sourceCandidate is one source's opinion about one entity. Score is on
// the source's own [0, 100] scale.
type sourceCandidate struct {
	id     string
	kind   models.EntityKind
	name   string
	score  float64
	reason string
}

// Recommend produces the ranked candidate list for a source entity.
// A failing source degrades gracefully: its absence is logged and the
// merge continues with the rest.
func (e *Engine) Recommend(ctx context.Context, sourceID string, sourceKind models.EntityKind, opts Options) ([]models.ScoredCandidate, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if e.cfg.MaxLimit > 0 && limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}

	cacheKey := fmt.Sprintf("recommend\x00%s\x00%s\x00%s\x00%d\x00%t",
		sourceKind, sourceID, opts.UserID, limit, opts.IncludeReasons)
	if e.cache != nil {
		if data, err := e.cache.Get(cacheKey); err == nil {
			var cached []models.ScoredCandidate
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	root, err := e.store.GetEntity(ctx, sourceKind, sourceID)
	if err != nil {
		return nil, fmt.Errorf("recommendation source %s/%s: %w", sourceKind, sourceID, err)
	}

	// anchor is the college whose attributes drive content and graph
	// signals; for a course root that is its parent college.
	anchor, err := e.anchorCollege(ctx, root)
	if err != nil {
		return nil, err
	}

	type weightedSource struct {
		name   models.RecommendationSource
		weight float64
		run    func(context.Context) ([]sourceCandidate, error)
	}
	sources := []weightedSource{
		{models.SourceGraph, weightGraph, func(ctx context.Context) ([]sourceCandidate, error) {
			return e.graphSimilarity(ctx, anchor)
		}},
		{models.SourceCollaborative, weightCollaborative, func(ctx context.Context) ([]sourceCandidate, error) {
			return e.collaborative(ctx, sourceID)
		}},
		{models.SourceContent, weightContent, func(ctx context.Context) ([]sourceCandidate, error) {
			return e.content(ctx, anchor)
		}},
		{models.SourceTrending, weightTrending, func(ctx context.Context) ([]sourceCandidate, error) {
			return e.trending(ctx)
		}},
		{models.SourcePersonalization, weightPersonalization, func(ctx context.Context) ([]sourceCandidate, error) {
			return e.personalization(ctx, opts.UserID)
		}},
	}

	merged := make(map[string]*candidate)
	orderCounter := 0
	excluded := map[string]bool{sourceID: true}
	if anchor != nil {
		excluded[anchor.ID] = true
	}

	for _, src := range sources {
		results, err := src.run(ctx)
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).
				Str("source", string(src.name)).
				Msg("recommendation source failed, skipping")
			continue
		}
		for _, sc := range results {
			if excluded[sc.id] {
				continue
			}
			c, ok := merged[sc.id]
			if !ok {
				c = &candidate{id: sc.id, kind: sc.kind, name: sc.name, order: orderCounter}
				orderCounter++
				merged[sc.id] = c
			}
			c.score += sc.score * src.weight
			c.sources = append(c.sources, src.name)
			if sc.reason != "" {
				c.reasons = append(c.reasons, sc.reason)
			}
		}
	}

	ranked := make([]*candidate, 0, len(merged))
	for _, c := range merged {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]models.ScoredCandidate, len(ranked))
	for i, c := range ranked {
		out[i] = models.ScoredCandidate{
			ID:      c.id,
			Type:    c.kind,
			Name:    c.name,
			Score:   c.score,
			Sources: c.sources,
		}
		if opts.IncludeReasons {
			out[i].Reasons = dedupeReasons(c.reasons, maxReasons)
		}
	}

	if e.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			_ = e.cache.SetWithTTL(cacheKey, data, e.cfg.CacheTTL)
		}
	}
	return out, nil
}

// anchorCollege resolves the college whose attributes anchor similarity.
func (e *Engine) anchorCollege(ctx context.Context, root models.Entity) (*models.College, error) {
	switch v := root.(type) {
	case *models.College:
		return v, nil
	case *models.Course:
		ent, err := e.store.GetEntity(ctx, models.KindCollege, v.CollegeID)
		if err != nil {
			return nil, fmt.Errorf("anchor college for course %s: %w", v.ID, err)
		}
		college, _ := ent.(*models.College)
		return college, nil
	default:
		// Cutoffs and regions have no anchor; content and graph signals
		// will produce nothing and the merge degrades to the rest.
		return nil, nil
	}
}

// dedupeReasons keeps first occurrences in order, capped at n. Sources run
// most-specific-first, so insertion order already ranks specificity.
func dedupeReasons(reasons []string, n int) []string {
	seen := make(map[string]bool, len(reasons))
	out := make([]string, 0, n)
	for _, r := range reasons {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out
}
