// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package models

// RelationType labels a directed edge in the relationship graph.
type RelationType string

// The fixed relation vocabulary. Edges are directed; traversal follows the
// direction listed here.
const (
	RelationOffers      RelationType = "offers"       // College -> Course
	RelationHasCutoff   RelationType = "has_cutoff"   // College|Course -> CutoffRecord
	RelationLocatedIn   RelationType = "located_in"   // College -> Region
	RelationAvailableIn RelationType = "available_in" // Course -> Region
)

// GraphNode is one entity in a relationship graph, annotated with the BFS
// depth at which it was first reached.
type GraphNode struct {
	ID       string                 `json:"id"`
	Type     EntityKind             `json:"type"`
	Name     string                 `json:"name"`
	Depth    int                    `json:"depth"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// GraphEdge is a directed, typed edge. The (From, To, Relation) triple is
// unique within a graph.
type GraphEdge struct {
	FromID   string       `json:"from_id"`
	FromType EntityKind   `json:"from_type"`
	ToID     string       `json:"to_id"`
	ToType   EntityKind   `json:"to_type"`
	Relation RelationType `json:"relation"`
}

// GraphStats summarizes a built graph.
type GraphStats struct {
	TotalNodes  int                `json:"total_nodes"`
	TotalEdges  int                `json:"total_edges"`
	NodesByType map[EntityKind]int `json:"nodes_by_type"`
}

// RelationshipGraph is the result of a bounded BFS from a root entity.
// Every edge endpoint appears in Nodes.
type RelationshipGraph struct {
	RootID   string      `json:"root_id"`
	RootType EntityKind  `json:"root_type"`
	Depth    int         `json:"depth"`
	Nodes    []GraphNode `json:"nodes"`
	Edges    []GraphEdge `json:"edges"`
	Stats    GraphStats  `json:"stats"`
}

// PathStep is one hop in a path between two entities.
type PathStep struct {
	ID       string       `json:"id"`
	Type     EntityKind   `json:"type"`
	Name     string       `json:"name"`
	Relation RelationType `json:"relation,omitempty"` // relation from the previous step; empty on the first
}
