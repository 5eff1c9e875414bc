// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package graph builds bounded relationship graphs around a catalog
// entity. Traversal is an iterative BFS over a fixed, directed edge
// vocabulary:
//
//	college -> course        offers
//	college -> cutoff        has_cutoff
//	course  -> cutoff        has_cutoff
//	college -> region        located_in
//	course  -> region        available_in
//
// Cutoffs and regions are leaves. The engine never recurses; depth is
// tracked per frontier level.
package graph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/admitra/admitra/internal/logging"
	"github.com/admitra/admitra/internal/models"
)

// MaxDepth is the hard traversal cap regardless of options.
const MaxDepth = 5

// maxPathHops bounds FindPath expansion.
const maxPathHops = 5

// Store is the slice of the catalog store the graph engine needs.
type Store interface {
	GetEntity(ctx context.Context, kind models.EntityKind, id string) (models.Entity, error)
	CoursesByCollege(ctx context.Context, collegeID string) ([]*models.Course, error)
	CutoffsByCollege(ctx context.Context, collegeID string) ([]*models.CutoffRecord, error)
	CutoffsByCourse(ctx context.Context, courseID string) ([]*models.CutoffRecord, error)
	RegionsByCollege(ctx context.Context, collegeID string) ([]*models.Region, error)
	RegionsByCourse(ctx context.Context, courseID string) ([]*models.Region, error)
}

// Options controls one traversal.
type Options struct {
	// MaxDepth is clamped to [0, 5]. Zero returns the root only.
	MaxDepth int
	// IncludeMetadata attaches entity metadata to nodes.
	IncludeMetadata bool
	// FilterKinds, when non-empty, restricts which kinds appear in the
	// output. Traversal still passes through filtered-out nodes; only the
	// output is pruned. The root is always kept.
	FilterKinds []models.EntityKind
}

// DefaultOptions returns depth-2 traversal with metadata.
func DefaultOptions() Options {
	return Options{MaxDepth: 2, IncludeMetadata: true}
}

// Engine traverses the relationship graph.
type Engine struct {
	store Store
}

// New builds an Engine.
func New(st Store) *Engine {
	return &Engine{store: st}
}

type nodeKey struct {
	kind models.EntityKind
	id   string
}

type neighbor struct {
	entity   models.Entity
	relation models.RelationType
}

// Build runs a BFS from the root and assembles the relationship graph.
// The root must exist; a missing root surfaces the store's ErrNotFound.
func (e *Engine) Build(ctx context.Context, rootID string, rootKind models.EntityKind, opts Options) (*models.RelationshipGraph, error) {
	depth := opts.MaxDepth
	if depth < 0 {
		depth = 0
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	root, err := e.store.GetEntity(ctx, rootKind, rootID)
	if err != nil {
		return nil, fmt.Errorf("graph root %s/%s: %w", rootKind, rootID, err)
	}

	visited := map[nodeKey]bool{{rootKind, rootID}: true}
	nodes := []models.GraphNode{makeNode(root, 0, opts.IncludeMetadata)}
	var edges []models.GraphEdge
	edgeSeen := make(map[string]bool)

	frontier := []models.Entity{root}
	for level := 0; level < depth && len(frontier) > 0; level++ {
		expansions, err := e.expandLevel(ctx, frontier)
		if err != nil {
			return nil, err
		}

		var next []models.Entity
		for i, ent := range frontier {
			from := nodeKey{ent.Kind(), ent.EntityID()}
			for _, nb := range expansions[i] {
				to := nodeKey{nb.entity.Kind(), nb.entity.EntityID()}

				ek := fmt.Sprintf("%s/%s>%s/%s:%s", from.kind, from.id, to.kind, to.id, nb.relation)
				if !edgeSeen[ek] {
					edgeSeen[ek] = true
					edges = append(edges, models.GraphEdge{
						FromID:   from.id,
						FromType: from.kind,
						ToID:     to.id,
						ToType:   to.kind,
						Relation: nb.relation,
					})
				}

				if !visited[to] {
					visited[to] = true
					nodes = append(nodes, makeNode(nb.entity, level+1, opts.IncludeMetadata))
					next = append(next, nb.entity)
				}
			}
		}
		frontier = next
	}

	nodes, edges = applyKindFilter(nodes, edges, rootKind, rootID, opts.FilterKinds)

	g := &models.RelationshipGraph{
		RootID:   rootID,
		RootType: rootKind,
		Depth:    depth,
		Nodes:    nodes,
		Edges:    edges,
		Stats:    stats(nodes, edges),
	}
	logging.FromContext(ctx).Debug().
		Str("root", rootID).Str("kind", rootKind.String()).
		Int("nodes", g.Stats.TotalNodes).Int("edges", g.Stats.TotalEdges).
		Msg("graph built")
	return g, nil
}

// expandLevel fetches every frontier node's neighbors concurrently,
// preserving frontier order so output stays deterministic.
func (e *Engine) expandLevel(ctx context.Context, frontier []models.Entity) ([][]neighbor, error) {
	expansions := make([][]neighbor, len(frontier))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, ent := range frontier {
		i, ent := i, ent
		g.Go(func() error {
			nbs, err := e.neighbors(gctx, ent)
			if err != nil {
				return err
			}
			expansions[i] = nbs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("expand level: %w", err)
	}
	return expansions, nil
}

// neighbors applies the fixed edge mapping for one entity.
func (e *Engine) neighbors(ctx context.Context, ent models.Entity) ([]neighbor, error) {
	var out []neighbor
	switch v := ent.(type) {
	case *models.College:
		courses, err := e.store.CoursesByCollege(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range courses {
			out = append(out, neighbor{c, models.RelationOffers})
		}
		cutoffs, err := e.store.CutoffsByCollege(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range cutoffs {
			out = append(out, neighbor{c, models.RelationHasCutoff})
		}
		regions, err := e.store.RegionsByCollege(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range regions {
			out = append(out, neighbor{r, models.RelationLocatedIn})
		}
	case *models.Course:
		cutoffs, err := e.store.CutoffsByCourse(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range cutoffs {
			out = append(out, neighbor{c, models.RelationHasCutoff})
		}
		regions, err := e.store.RegionsByCourse(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range regions {
			out = append(out, neighbor{r, models.RelationAvailableIn})
		}
	case *models.CutoffRecord, *models.Region:
		// Leaves.
	}
	return out, nil
}

func makeNode(ent models.Entity, depth int, includeMeta bool) models.GraphNode {
	n := models.GraphNode{
		ID:    ent.EntityID(),
		Type:  ent.Kind(),
		Name:  ent.DisplayName(),
		Depth: depth,
	}
	if includeMeta {
		n.Metadata = ent.Metadata()
	}
	return n
}

// applyKindFilter prunes nodes outside the kind filter and any edge
// touching a pruned node. The root survives regardless.
func applyKindFilter(nodes []models.GraphNode, edges []models.GraphEdge, rootKind models.EntityKind, rootID string, kinds []models.EntityKind) ([]models.GraphNode, []models.GraphEdge) {
	if len(kinds) == 0 {
		return nodes, edges
	}
	allowed := make(map[models.EntityKind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}

	kept := make(map[nodeKey]bool)
	outNodes := nodes[:0]
	for _, n := range nodes {
		if allowed[n.Type] || (n.Type == rootKind && n.ID == rootID) {
			kept[nodeKey{n.Type, n.ID}] = true
			outNodes = append(outNodes, n)
		}
	}

	outEdges := edges[:0]
	for _, e := range edges {
		if kept[nodeKey{e.FromType, e.FromID}] && kept[nodeKey{e.ToType, e.ToID}] {
			outEdges = append(outEdges, e)
		}
	}
	return outNodes, outEdges
}

func stats(nodes []models.GraphNode, edges []models.GraphEdge) models.GraphStats {
	byType := make(map[models.EntityKind]int, 4)
	for _, n := range nodes {
		byType[n.Type]++
	}
	return models.GraphStats{
		TotalNodes:  len(nodes),
		TotalEdges:  len(edges),
		NodesByType: byType,
	}
}
