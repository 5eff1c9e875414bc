// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package similarity scores free-text queries against candidate entity
// names. The scorer favors containment and token overlap over edit
// distance: admission queries are typically abbreviations or partial names
// ("a j institute" for "A J Institute of Engineering and Technology"),
// where character-level distance punishes exactly the inputs we want to
// match.
package similarity

import "strings"

// Containment scores. A query fully contained in a candidate is a stronger
// signal than the reverse, since users abbreviate rather than embellish.
const (
	queryInCandidateScore = 0.9
	candidateInQueryScore = 0.85
	tokenOverlapScale     = 0.8
)

// Normalize lower-cases the input and collapses runs of whitespace to a
// single space. All scoring operates on normalized strings.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Score returns a similarity in [0, 1] between a query and a candidate
// name. It takes the maximum of a containment bonus and a scaled token
// overlap ratio. Both inputs are normalized internally.
func Score(query, candidate string) float64 {
	q := Normalize(query)
	c := Normalize(candidate)
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return 1
	}

	var best float64
	if strings.Contains(c, q) {
		best = queryInCandidateScore
	} else if strings.Contains(q, c) {
		best = candidateInQueryScore
	}

	if overlap := tokenOverlap(q, c); overlap > best {
		best = overlap
	}
	return best
}

// tokenOverlap computes shared-token ratio scaled by tokenOverlapScale.
// A query token counts as shared if it equals a candidate token or is
// contained in one (so "tech" matches "technology").
func tokenOverlap(q, c string) float64 {
	qTokens := strings.Split(q, " ")
	cTokens := strings.Split(c, " ")

	shared := 0
	for _, qt := range qTokens {
		for _, ct := range cTokens {
			if qt == ct || strings.Contains(ct, qt) || strings.Contains(qt, ct) {
				shared++
				break
			}
		}
	}

	denom := len(qTokens)
	if len(cTokens) > denom {
		denom = len(cTokens)
	}
	if denom == 0 {
		return 0
	}
	return float64(shared) / float64(denom) * tokenOverlapScale
}
