// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package graph

import (
	"context"
	"fmt"

	"github.com/admitra/admitra/internal/models"
)

// Ref addresses one entity for path queries.
type Ref struct {
	ID   string
	Kind models.EntityKind
}

type parentLink struct {
	parent   nodeKey
	relation models.RelationType
	entity   models.Entity
}

// FindPath returns the shortest relationship path between two entities, or
// nil when none exists within 5 hops. Edges are directed, so the search
// follows the same direction a Build traversal would.
func (e *Engine) FindPath(ctx context.Context, from, to Ref) ([]models.PathStep, error) {
	start, err := e.store.GetEntity(ctx, from.Kind, from.ID)
	if err != nil {
		return nil, fmt.Errorf("path origin %s/%s: %w", from.Kind, from.ID, err)
	}
	if _, err := e.store.GetEntity(ctx, to.Kind, to.ID); err != nil {
		return nil, fmt.Errorf("path target %s/%s: %w", to.Kind, to.ID, err)
	}

	startKey := nodeKey{from.Kind, from.ID}
	targetKey := nodeKey{to.Kind, to.ID}
	if startKey == targetKey {
		return []models.PathStep{{ID: start.EntityID(), Type: start.Kind(), Name: start.DisplayName()}}, nil
	}

	parents := map[nodeKey]parentLink{startKey: {entity: start}}
	frontier := []models.Entity{start}

	for hops := 0; hops < maxPathHops && len(frontier) > 0; hops++ {
		expansions, err := e.expandLevel(ctx, frontier)
		if err != nil {
			return nil, err
		}

		var next []models.Entity
		for i, ent := range frontier {
			fromKey := nodeKey{ent.Kind(), ent.EntityID()}
			for _, nb := range expansions[i] {
				key := nodeKey{nb.entity.Kind(), nb.entity.EntityID()}
				if _, seen := parents[key]; seen {
					continue
				}
				parents[key] = parentLink{parent: fromKey, relation: nb.relation, entity: nb.entity}
				if key == targetKey {
					return reconstruct(parents, startKey, targetKey), nil
				}
				next = append(next, nb.entity)
			}
		}
		frontier = next
	}
	return nil, nil
}

// reconstruct walks parent links backwards, then reverses into a
// start-to-target step list.
func reconstruct(parents map[nodeKey]parentLink, start, target nodeKey) []models.PathStep {
	var reversed []models.PathStep
	for key := target; ; {
		link := parents[key]
		step := models.PathStep{
			ID:       link.entity.EntityID(),
			Type:     link.entity.Kind(),
			Name:     link.entity.DisplayName(),
			Relation: link.relation,
		}
		reversed = append(reversed, step)
		if key == start {
			break
		}
		key = link.parent
	}

	steps := make([]models.PathStep, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		steps = append(steps, reversed[i])
	}
	return steps
}
