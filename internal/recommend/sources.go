// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/similarity"
)

const candidatePoolLimit = 100

// graphSimilarity scores candidates by relationship overlap with the
// anchor: a shared region link and each shared course name count as one
// overlapping edge. Raw counts are normalized by the pool maximum.
func (e *Engine) graphSimilarity(ctx context.Context, anchor *models.College) ([]sourceCandidate, error) {
	if anchor == nil {
		return nil, nil
	}

	anchorCourses, err := e.store.CoursesByCollege(ctx, anchor.ID)
	if err != nil {
		return nil, err
	}
	anchorNames := make(map[string]bool, len(anchorCourses))
	for _, c := range anchorCourses {
		anchorNames[similarity.Normalize(c.Name)] = true
	}

	// Candidate discovery: same region, plus colleges offering any of the
	// anchor's courses.
	pool := make(map[string]*models.College)
	var order []string
	add := func(cs []*models.College) {
		for _, c := range cs {
			if c.ID == anchor.ID {
				continue
			}
			if _, ok := pool[c.ID]; !ok {
				pool[c.ID] = c
				order = append(order, c.ID)
			}
		}
	}

	regional, err := e.store.CollegesByRegion(ctx, anchor.Region, candidatePoolLimit)
	if err != nil {
		return nil, err
	}
	add(regional)
	for name := range anchorNames {
		offering, err := e.store.CollegesOfferingCourseName(ctx, name, anchor.ID, candidatePoolLimit)
		if err != nil {
			return nil, err
		}
		add(offering)
	}

	overlaps := make(map[string]int, len(pool))
	maxOverlap := 0
	for id, c := range pool {
		n := 0
		if c.Region == anchor.Region {
			n++
		}
		courses, err := e.store.CoursesByCollege(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, crs := range courses {
			if anchorNames[similarity.Normalize(crs.Name)] {
				n++
			}
		}
		overlaps[id] = n
		if n > maxOverlap {
			maxOverlap = n
		}
	}
	if maxOverlap == 0 {
		return nil, nil
	}

	out := make([]sourceCandidate, 0, len(order))
	for _, id := range order {
		n := overlaps[id]
		if n == 0 {
			continue
		}
		out = append(out, sourceCandidate{
			id:    id,
			kind:  models.KindCollege,
			name:  pool[id].Name,
			score: float64(n) / float64(maxOverlap) * 100,
			reason: fmt.Sprintf("shares %d relationship(s) with %s",
				n, anchor.Name),
		})
	}
	return out, nil
}

// collaborative scores candidates by co-selection: entities that users who
// interacted with the source also interacted with. Counts normalize by the
// pool maximum.
func (e *Engine) collaborative(ctx context.Context, sourceID string) ([]sourceCandidate, error) {
	since := e.clock.Now().AddDate(0, 0, -90)
	interactions, err := e.store.ListInteractionsSince(ctx, since, 0)
	if err != nil {
		return nil, err
	}

	coUsers := make(map[string]bool)
	for _, it := range interactions {
		if it.EntityID == sourceID {
			coUsers[it.UserID] = true
		}
	}
	if len(coUsers) == 0 {
		return nil, nil
	}

	counts := make(map[string]int)
	kinds := make(map[string]models.EntityKind)
	maxCount := 0
	for _, it := range interactions {
		if it.EntityID == sourceID || !coUsers[it.UserID] {
			continue
		}
		counts[it.EntityID]++
		kinds[it.EntityID] = it.EntityType
		if counts[it.EntityID] > maxCount {
			maxCount = counts[it.EntityID]
		}
	}
	if maxCount == 0 {
		return nil, nil
	}

	out := make([]sourceCandidate, 0, len(counts))
	for id, n := range counts {
		name, err := e.displayName(ctx, kinds[id], id)
		if err != nil {
			continue // entity vanished; skip, don't abort the signal
		}
		out = append(out, sourceCandidate{
			id:     id,
			kind:   kinds[id],
			name:   name,
			score:  float64(n) / float64(maxCount) * 100,
			reason: fmt.Sprintf("selected together by %d user(s)", n),
		})
	}
	return out, nil
}

// content scores same-region colleges on attribute similarity with the
// anchor: base 50, +20 same region, +15 same locality, +10 same category,
// +5 rank within 50 places, capped at 100.
func (e *Engine) content(ctx context.Context, anchor *models.College) ([]sourceCandidate, error) {
	if anchor == nil {
		return nil, nil
	}
	pool, err := e.store.CollegesByRegion(ctx, anchor.Region, candidatePoolLimit)
	if err != nil {
		return nil, err
	}

	out := make([]sourceCandidate, 0, len(pool))
	for _, c := range pool {
		if c.ID == anchor.ID {
			continue
		}
		score := 50.0
		reason := "similar college"
		if c.Region == anchor.Region {
			score += 20
			reason = fmt.Sprintf("also in %s", c.Region)
		}
		if c.Locality != "" && c.Locality == anchor.Locality {
			score += 15
			reason = fmt.Sprintf("also in %s", c.Locality)
		}
		if c.Category != "" && c.Category == anchor.Category {
			score += 10
		}
		if c.Rank > 0 && anchor.Rank > 0 && abs(c.Rank-anchor.Rank) <= 50 {
			score += 5
		}
		if score > 100 {
			score = 100
		}
		out = append(out, sourceCandidate{
			id:     c.ID,
			kind:   models.KindCollege,
			name:   c.Name,
			score:  score,
			reason: reason,
		})
	}
	return out, nil
}

// trending scores recent interaction volume with linear recency decay over
// the configured window, normalized by the pool maximum.
func (e *Engine) trending(ctx context.Context) ([]sourceCandidate, error) {
	days := e.cfg.TrendingDays
	if days <= 0 {
		days = 30
	}
	window := time.Duration(days) * 24 * time.Hour
	now := e.clock.Now()

	interactions, err := e.store.ListInteractionsSince(ctx, now.Add(-window), 0)
	if err != nil {
		return nil, err
	}
	if len(interactions) == 0 {
		return nil, nil
	}

	weights := make(map[string]float64)
	kinds := make(map[string]models.EntityKind)
	var maxWeight float64
	for _, it := range interactions {
		age := now.Sub(time.Unix(it.OccurredAt, 0))
		if age < 0 {
			age = 0
		}
		w := 1 - age.Seconds()/window.Seconds()
		if w <= 0 {
			continue
		}
		weights[it.EntityID] += w
		kinds[it.EntityID] = it.EntityType
		if weights[it.EntityID] > maxWeight {
			maxWeight = weights[it.EntityID]
		}
	}
	if maxWeight == 0 {
		return nil, nil
	}

	out := make([]sourceCandidate, 0, len(weights))
	for id, w := range weights {
		name, err := e.displayName(ctx, kinds[id], id)
		if err != nil {
			continue
		}
		out = append(out, sourceCandidate{
			id:     id,
			kind:   kinds[id],
			name:   name,
			score:  w / maxWeight * 100,
			reason: "trending with applicants",
		})
	}
	return out, nil
}

// personalization gives a flat 75 to colleges in the user's preferred
// region. No preferences, no signal.
func (e *Engine) personalization(ctx context.Context, userID string) ([]sourceCandidate, error) {
	if userID == "" {
		return nil, nil
	}
	prefs, err := e.store.GetUserPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil || prefs.Region == "" {
		return nil, nil
	}

	pool, err := e.store.CollegesByRegion(ctx, prefs.Region, candidatePoolLimit)
	if err != nil {
		return nil, err
	}
	out := make([]sourceCandidate, 0, len(pool))
	for _, c := range pool {
		out = append(out, sourceCandidate{
			id:     c.ID,
			kind:   models.KindCollege,
			name:   c.Name,
			score:  75,
			reason: "matches your preferred region",
		})
	}
	return out, nil
}

func (e *Engine) displayName(ctx context.Context, kind models.EntityKind, id string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown kind %q", kind)
	}
	ent, err := e.store.GetEntity(ctx, kind, id)
	if err != nil {
		return "", err
	}
	return ent.DisplayName(), nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
