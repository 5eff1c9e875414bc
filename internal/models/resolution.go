// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package models

// ResolutionMethod records which strategy produced a resolution result.
type ResolutionMethod string

// Resolution strategies, in chain order. A miss carries MethodFuzzy with
// zero confidence: the fuzzy pass is the last scorer before falling through.
const (
	MethodDirect    ResolutionMethod = "direct_match"
	MethodComposite ResolutionMethod = "composite_key"
	MethodFuzzy     ResolutionMethod = "fuzzy_match"
	MethodLinkTable ResolutionMethod = "link_table_fallback"
)

// ResolutionResult is the outcome of resolving one free-text query.
// A miss is a valid result: ID is nil, Confidence is 0, DisplayName echoes
// the input. Misses are values, never errors.
type ResolutionResult struct {
	ID          *string          `json:"id"`
	DisplayName string           `json:"display_name"`
	EntityType  EntityKind       `json:"entity_type"`
	Confidence  float64          `json:"confidence"`
	Method      ResolutionMethod `json:"method"`
	// Suggestions carries near-miss candidates when the caller asked for
	// them on a miss. Ordered by descending similarity.
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// Resolved reports whether the result identifies a canonical entity.
func (r *ResolutionResult) Resolved() bool {
	return r.ID != nil && r.Confidence > 0
}

// Suggestion is a below-threshold fuzzy candidate offered on a miss.
type Suggestion struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// BatchResolutionItem pairs one input query with its result or error.
// Err is a human-readable failure description; Result is nil only when
// Err is set.
type BatchResolutionItem struct {
	Result *ResolutionResult `json:"result,omitempty"`
	Err    string            `json:"error,omitempty"`
}
