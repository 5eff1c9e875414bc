// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package models

// RecommendationSource names a candidate-generating signal.
type RecommendationSource string

// The five merge signals, in processing order. Processing order doubles as
// the tie-break order: a candidate first seen by an earlier source ranks
// ahead of an equal-scored candidate first seen by a later one.
const (
	SourceGraph           RecommendationSource = "graph_similarity"
	SourceCollaborative   RecommendationSource = "collaborative"
	SourceContent         RecommendationSource = "content"
	SourceTrending        RecommendationSource = "trending"
	SourcePersonalization RecommendationSource = "personalization"
)

// ScoredCandidate is one ranked recommendation.
//
// Score is the weighted sum of normalized per-source scores and is
// deliberately not clamped: values above 100 indicate agreement across
// several sources and are more useful to callers than a saturated 100.
type ScoredCandidate struct {
	ID      string                 `json:"id"`
	Type    EntityKind             `json:"type"`
	Name    string                 `json:"name"`
	Score   float64                `json:"score"`
	Sources []RecommendationSource `json:"sources"`
	Reasons []string               `json:"reasons,omitempty"`
}

// Interaction is one user event against an entity (favorite, selection,
// view). Feeds the collaborative and trending signals.
type Interaction struct {
	UserID     string     `json:"user_id"`
	EntityID   string     `json:"entity_id"`
	EntityType EntityKind `json:"entity_type"`
	Action     string     `json:"action"`
	OccurredAt int64      `json:"occurred_at"` // unix seconds
}
