// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package graph

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/store"
)

// fakeStore is a small in-memory catalog:
//
//	col-1 (KA) offers crs-1, crs-2; cutoff cut-1 on crs-1
//	col-2 (KA) offers crs-3
type fakeStore struct {
	colleges map[string]*models.College
	courses  map[string]*models.Course
	cutoffs  map[string]*models.CutoffRecord
	regions  map[string]*models.Region
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		colleges: map[string]*models.College{
			"col-1": {ID: "col-1", Name: "Alpha Engineering College", Region: "KA"},
			"col-2": {ID: "col-2", Name: "Beta Institute", Region: "KA"},
		},
		courses: map[string]*models.Course{
			"crs-1": {ID: "crs-1", CollegeID: "col-1", Name: "Computer Science", Stream: "engineering"},
			"crs-2": {ID: "crs-2", CollegeID: "col-1", Name: "Mechanical", Stream: "engineering"},
			"crs-3": {ID: "crs-3", CollegeID: "col-2", Name: "Computer Science", Stream: "engineering"},
		},
		cutoffs: map[string]*models.CutoffRecord{
			"cut-1": {ID: "cut-1", CollegeID: "col-1", CourseID: "crs-1", Year: 2025, Category: "GM"},
		},
		regions: map[string]*models.Region{
			"KA": {Code: "KA", Name: "Karnataka"},
		},
	}
}

func (f *fakeStore) GetEntity(_ context.Context, kind models.EntityKind, id string) (models.Entity, error) {
	switch kind {
	case models.KindCollege:
		if c, ok := f.colleges[id]; ok {
			return c, nil
		}
	case models.KindCourse:
		if c, ok := f.courses[id]; ok {
			return c, nil
		}
	case models.KindCutoff:
		if c, ok := f.cutoffs[id]; ok {
			return c, nil
		}
	case models.KindRegion:
		if r, ok := f.regions[id]; ok {
			return r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CoursesByCollege(_ context.Context, id string) ([]*models.Course, error) {
	var out []*models.Course
	for _, k := range []string{"crs-1", "crs-2", "crs-3"} {
		if c := f.courses[k]; c != nil && c.CollegeID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CutoffsByCollege(_ context.Context, id string) ([]*models.CutoffRecord, error) {
	var out []*models.CutoffRecord
	for _, c := range f.cutoffs {
		if c.CollegeID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CutoffsByCourse(_ context.Context, id string) ([]*models.CutoffRecord, error) {
	var out []*models.CutoffRecord
	for _, c := range f.cutoffs {
		if c.CourseID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) RegionsByCollege(_ context.Context, id string) ([]*models.Region, error) {
	if c, ok := f.colleges[id]; ok {
		if r, ok := f.regions[c.Region]; ok {
			return []*models.Region{r}, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) RegionsByCourse(_ context.Context, id string) ([]*models.Region, error) {
	if c, ok := f.courses[id]; ok {
		return f.RegionsByCollege(context.Background(), c.CollegeID)
	}
	return nil, nil
}

func TestBuildDepthZero(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	g, err := e.Build(context.Background(), "col-1", models.KindCollege,
		Options{MaxDepth: 0, IncludeMetadata: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Nodes) != 1 || len(g.Edges) != 0 {
		t.Errorf("depth 0 = %d nodes %d edges, want 1/0", len(g.Nodes), len(g.Edges))
	}
	if g.Nodes[0].ID != "col-1" || g.Nodes[0].Depth != 0 {
		t.Errorf("root node = %+v", g.Nodes[0])
	}
}

func TestBuildDepthOneOffers(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	g, err := e.Build(context.Background(), "col-1", models.KindCollege,
		Options{MaxDepth: 1, IncludeMetadata: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Root + 2 courses + 1 cutoff + 1 region.
	if g.Stats.TotalNodes != 5 {
		t.Errorf("nodes = %d, want 5", g.Stats.TotalNodes)
	}
	offers := 0
	for _, edge := range g.Edges {
		if edge.Relation == models.RelationOffers {
			offers++
			if edge.FromID != "col-1" || edge.ToType != models.KindCourse {
				t.Errorf("bad offers edge: %+v", edge)
			}
		}
	}
	if offers != 2 {
		t.Errorf("offers edges = %d, want 2", offers)
	}
	for _, n := range g.Nodes {
		if n.ID != "col-1" && n.Depth != 1 {
			t.Errorf("node %s depth = %d, want 1", n.ID, n.Depth)
		}
	}
}

func TestBuildEdgeUniquenessAndClosure(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	g, err := e.Build(context.Background(), "col-1", models.KindCollege,
		Options{MaxDepth: 3, IncludeMetadata: false})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	nodeSet := make(map[string]bool)
	for _, n := range g.Nodes {
		nodeSet[string(n.Type)+"/"+n.ID] = true
	}
	edgeSet := make(map[string]bool)
	for _, edge := range g.Edges {
		key := fmt.Sprintf("%s/%s>%s/%s:%s", edge.FromType, edge.FromID, edge.ToType, edge.ToID, edge.Relation)
		if edgeSet[key] {
			t.Errorf("duplicate edge %s", key)
		}
		edgeSet[key] = true
		if !nodeSet[string(edge.FromType)+"/"+edge.FromID] || !nodeSet[string(edge.ToType)+"/"+edge.ToID] {
			t.Errorf("edge %s references node outside the graph", key)
		}
	}
}

func TestBuildDepthClamped(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	g, err := e.Build(context.Background(), "col-1", models.KindCollege,
		Options{MaxDepth: 99})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Depth != MaxDepth {
		t.Errorf("depth = %d, want clamped to %d", g.Depth, MaxDepth)
	}
}

func TestBuildFilterKinds(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	g, err := e.Build(context.Background(), "col-1", models.KindCollege, Options{
		MaxDepth:    2,
		FilterKinds: []models.EntityKind{models.KindCourse},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, n := range g.Nodes {
		if n.Type != models.KindCourse && n.ID != "col-1" {
			t.Errorf("filtered graph contains %s/%s", n.Type, n.ID)
		}
	}
	for _, edge := range g.Edges {
		if edge.Relation != models.RelationOffers {
			t.Errorf("filtered graph contains edge %+v", edge)
		}
	}
}

func TestBuildMissingRoot(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	_, err := e.Build(context.Background(), "nope", models.KindCollege, DefaultOptions())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBuildMetadataToggle(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	g, err := e.Build(context.Background(), "col-1", models.KindCollege,
		Options{MaxDepth: 1, IncludeMetadata: false})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, n := range g.Nodes {
		if n.Metadata != nil {
			t.Errorf("node %s carries metadata with IncludeMetadata=false", n.ID)
		}
	}
}

func TestFindPathCollegeToCutoff(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	steps, err := e.FindPath(context.Background(),
		Ref{ID: "col-1", Kind: models.KindCollege},
		Ref{ID: "cut-1", Kind: models.KindCutoff})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if steps == nil {
		t.Fatal("expected a path, got nil")
	}
	// Direct college->cutoff edge wins over college->course->cutoff.
	if len(steps) != 2 {
		t.Fatalf("path length = %d, want 2: %+v", len(steps), steps)
	}
	if steps[0].ID != "col-1" || steps[0].Relation != "" {
		t.Errorf("first step = %+v", steps[0])
	}
	if steps[1].ID != "cut-1" || steps[1].Relation != models.RelationHasCutoff {
		t.Errorf("last step = %+v", steps[1])
	}
}

func TestFindPathUnreachable(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	// Edges are directed; nothing leads from a region anywhere.
	steps, err := e.FindPath(context.Background(),
		Ref{ID: "KA", Kind: models.KindRegion},
		Ref{ID: "col-1", Kind: models.KindCollege})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if steps != nil {
		t.Errorf("expected nil path, got %+v", steps)
	}
}

func TestFindPathSameNode(t *testing.T) {
	t.Parallel()

	e := New(newFakeStore())
	steps, err := e.FindPath(context.Background(),
		Ref{ID: "col-1", Kind: models.KindCollege},
		Ref{ID: "col-1", Kind: models.KindCollege})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if len(steps) != 1 {
		t.Errorf("path = %+v, want single step", steps)
	}
}
