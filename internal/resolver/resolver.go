// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package resolver maps messy free-text queries ("a j institute",
// "AJ Inst of Engg") to canonical catalog entities. Strategies run in a
// fixed order of decreasing confidence, stopping at the first hit:
//
//  1. canonical ID        confidence 1.0
//  2. exact name or
//     composite key       confidence 0.95
//  3. fuzzy match         confidence 0.7 + 0.29 * (score-t)/(1-t), capped 0.99
//  4. link-table fallback confidence 0.75
//
// A query that survives all four strategies is a miss: a valid
// zero-confidence result echoing the input, never an error. Store
// failures, by contrast, always propagate.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/admitra/admitra/internal/cache"
	"github.com/admitra/admitra/internal/config"
	"github.com/admitra/admitra/internal/logging"
	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/similarity"
	"github.com/admitra/admitra/internal/store"
)

// ErrAmbiguousInput is reserved for a future policy where several
// candidates tie above the threshold. The current policy always picks the
// best candidate, so this is never returned, but callers may already
// handle it.
var ErrAmbiguousInput = errors.New("resolver: ambiguous input")

// Store is the slice of the catalog store the resolver needs.
type Store interface {
	GetEntity(ctx context.Context, kind models.EntityKind, id string) (models.Entity, error)
	GetByExactName(ctx context.Context, kind models.EntityKind, normalized string) (models.Entity, error)
	GetByCompositeKey(ctx context.Context, kind models.EntityKind, key string) (models.Entity, error)
	CandidateNames(ctx context.Context, kind models.EntityKind, normalized string, limit int) ([]models.NameRef, error)
	LinkTableLookup(ctx context.Context, kind models.EntityKind, normalized string) (models.NameRef, error)
}

// Options tunes a single resolution.
type Options struct {
	// FuzzyThreshold is the minimum similarity score for a fuzzy match.
	// Zero means the configured default.
	FuzzyThreshold float64
	// UseCache consults and populates the resolution cache.
	UseCache bool
	// Suggestions attaches below-threshold candidates to a miss.
	Suggestions bool
}

// DefaultOptions returns the standard resolution options.
func DefaultOptions() Options {
	return Options{FuzzyThreshold: 0, UseCache: true}
}

// Resolver runs the strategy chain with a TTL'd result cache in front.
type Resolver struct {
	store Store
	cache cache.Cache
	cfg   config.ResolverConfig

	positiveTTL time.Duration
	negativeTTL time.Duration
}

// New builds a Resolver. The cache may be nil, disabling caching entirely.
func New(st Store, c cache.Cache, cfg config.ResolverConfig, cacheCfg config.CacheConfig) *Resolver {
	return &Resolver{
		store:       st,
		cache:       c,
		cfg:         cfg,
		positiveTTL: cacheCfg.PositiveTTL,
		negativeTTL: cacheCfg.NegativeTTL,
	}
}

// cacheKey is kind + NUL + normalized query. NUL cannot appear in either
// part, so keys never collide across kinds.
func cacheKey(kind models.EntityKind, normalized string) string {
	return string(kind) + "\x00" + normalized
}

// Resolve maps one query to its best canonical entity.
func (r *Resolver) Resolve(ctx context.Context, query string, kind models.EntityKind, opts Options) (*models.ResolutionResult, error) {
	normalized := similarity.Normalize(query)
	if normalized == "" {
		return miss(query, kind), nil
	}
	threshold := opts.FuzzyThreshold
	if threshold == 0 {
		threshold = r.cfg.FuzzyThreshold
	}

	// The cache stores default-threshold resolutions only; a custom
	// threshold changes what counts as a hit.
	cacheable := opts.UseCache && r.cache != nil &&
		threshold == r.cfg.FuzzyThreshold && !opts.Suggestions
	key := cacheKey(kind, normalized)

	if cacheable {
		if data, err := r.cache.Get(key); err == nil {
			var cached models.ResolutionResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			// Corrupt entry: drop and resolve fresh.
			_ = r.cache.Delete(key)
		}
	}

	result, err := r.resolve(ctx, query, normalized, kind, threshold, opts.Suggestions)
	if err != nil {
		return nil, err
	}

	if cacheable {
		ttl := r.positiveTTL
		if !result.Resolved() {
			ttl = r.negativeTTL
		}
		if data, err := json.Marshal(result); err == nil {
			if err := r.cache.SetWithTTL(key, data, ttl); err != nil {
				logging.FromContext(ctx).Warn().Err(err).Msg("resolution cache write failed")
			}
		}
	}
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, query, normalized string, kind models.EntityKind, threshold float64, suggestions bool) (*models.ResolutionResult, error) {
	// Strategy 1: the query is a canonical ID. IDs are matched verbatim,
	// not normalized.
	if entity, err := r.store.GetEntity(ctx, kind, strings.TrimSpace(query)); err == nil {
		return hit(entity, 1.0, models.MethodDirect), nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("id lookup: %w", err)
	}

	// Strategy 2: exact canonical name, or a composite key when the query
	// carries a region hint ("name|KA" or "name, KA").
	if entity, err := r.store.GetByExactName(ctx, kind, normalized); err == nil {
		return hit(entity, 0.95, models.MethodComposite), nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("exact name: %w", err)
	}
	if key, ok := compositeKey(normalized); ok {
		if entity, err := r.store.GetByCompositeKey(ctx, kind, key); err == nil {
			return hit(entity, 0.95, models.MethodComposite), nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("composite key: %w", err)
		}
	}

	// Strategy 3: fuzzy match over a bounded candidate pool.
	best, bestScore, scored, err := r.fuzzyBest(ctx, kind, normalized)
	if err != nil {
		return nil, err
	}
	if best != nil && bestScore >= threshold {
		conf := fuzzyConfidence(bestScore, threshold)
		return &models.ResolutionResult{
			ID:          &best.ID,
			DisplayName: best.Name,
			EntityType:  kind,
			Confidence:  conf,
			Method:      models.MethodFuzzy,
		}, nil
	}

	// Strategy 4: link-table fallback.
	if ref, err := r.store.LinkTableLookup(ctx, kind, normalized); err == nil {
		return &models.ResolutionResult{
			ID:          &ref.ID,
			DisplayName: ref.Name,
			EntityType:  kind,
			Confidence:  0.75,
			Method:      models.MethodLinkTable,
		}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("link table fallback: %w", err)
	}

	result := miss(query, kind)
	if suggestions {
		result.Suggestions = topSuggestions(scored, 5)
	}
	logging.FromContext(ctx).Debug().
		Str("query", query).Str("kind", kind.String()).
		Float64("best_score", bestScore).
		Msg("resolution miss")
	return result, nil
}

type scoredRef struct {
	ref   models.NameRef
	score float64
}

// fuzzyBest scores the SQL-prefiltered candidate pool in process and
// returns the best candidate plus the full scored pool for suggestions.
func (r *Resolver) fuzzyBest(ctx context.Context, kind models.EntityKind, normalized string) (*models.NameRef, float64, []scoredRef, error) {
	candidates, err := r.store.CandidateNames(ctx, kind, normalized, r.cfg.CandidateLimit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, nil, nil
		}
		return nil, 0, nil, fmt.Errorf("fuzzy candidates: %w", err)
	}

	var best *models.NameRef
	var bestScore float64
	scored := make([]scoredRef, 0, len(candidates))
	for i := range candidates {
		s := similarity.Score(normalized, candidates[i].Name)
		if s <= 0 {
			continue
		}
		scored = append(scored, scoredRef{ref: candidates[i], score: s})
		if s > bestScore {
			best = &candidates[i]
			bestScore = s
		}
	}
	return best, bestScore, scored, nil
}

// fuzzyConfidence maps a similarity score at or above the threshold into
// [0.7, 0.99], scaling linearly with headroom above the threshold.
func fuzzyConfidence(score, threshold float64) float64 {
	conf := 0.7 + 0.29*(score-threshold)/(1-threshold)
	if conf < 0.7 {
		conf = 0.7
	}
	if conf > 0.99 {
		conf = 0.99
	}
	return conf
}

// compositeKey extracts a "<name>|<REGION>" key from queries that carry a
// region hint after a pipe or a trailing comma segment.
func compositeKey(normalized string) (string, bool) {
	var name, region string
	if i := strings.LastIndexByte(normalized, '|'); i > 0 {
		name, region = normalized[:i], normalized[i+1:]
	} else if i := strings.LastIndexByte(normalized, ','); i > 0 {
		name, region = normalized[:i], normalized[i+1:]
	} else {
		return "", false
	}
	name = strings.TrimSpace(name)
	region = strings.TrimSpace(region)
	if name == "" || region == "" {
		return "", false
	}
	return name + "|" + strings.ToUpper(region), true
}

func hit(entity models.Entity, confidence float64, method models.ResolutionMethod) *models.ResolutionResult {
	id := entity.EntityID()
	return &models.ResolutionResult{
		ID:          &id,
		DisplayName: entity.DisplayName(),
		EntityType:  entity.Kind(),
		Confidence:  confidence,
		Method:      method,
	}
}

// miss builds the zero-confidence result: nil ID, input echoed back. The
// method reports fuzzy_match because the fuzzy pass is the last one that
// scored the query before it fell through.
func miss(query string, kind models.EntityKind) *models.ResolutionResult {
	return &models.ResolutionResult{
		ID:          nil,
		DisplayName: query,
		EntityType:  kind,
		Confidence:  0,
		Method:      models.MethodFuzzy,
	}
}

func topSuggestions(scored []scoredRef, n int) []models.Suggestion {
	// Selection sort is fine at pool sizes <= 200 and n <= 5.
	out := make([]models.Suggestion, 0, n)
	used := make(map[int]bool, n)
	for len(out) < n {
		bestIdx, bestScore := -1, 0.0
		for i, s := range scored {
			if !used[i] && s.score > bestScore {
				bestIdx, bestScore = i, s.score
			}
		}
		if bestIdx < 0 {
			break
		}
		used[bestIdx] = true
		out = append(out, models.Suggestion{
			ID:    scored[bestIdx].ref.ID,
			Name:  scored[bestIdx].ref.Name,
			Score: bestScore,
		})
	}
	return out
}

// Invalidate evicts cached resolutions. With a name it evicts that exact
// query's entry; without one it evicts the whole kind. Collaborators call
// this after writes that change canonical names.
func (r *Resolver) Invalidate(kind models.EntityKind, name string) error {
	if r.cache == nil {
		return nil
	}
	if name == "" {
		return r.cache.DeletePrefix(string(kind) + "\x00")
	}
	return r.cache.Delete(cacheKey(kind, similarity.Normalize(name)))
}

// CacheStats exposes the underlying cache counters for health reporting.
func (r *Resolver) CacheStats() cache.Stats {
	if r.cache == nil {
		return cache.Stats{}
	}
	return r.cache.Stats()
}
