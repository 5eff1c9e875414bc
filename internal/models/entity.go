// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package models defines the tagged entity variants and the value types
// exchanged between the resolver, graph, recommendation, and integrity
// engines. All types here are plain data; behavior lives in the engines.
package models

import (
	"fmt"
	"strings"
)

// EntityKind identifies which variant of the catalog an entity belongs to.
// IDs are unique within a kind's namespace, not globally.
type EntityKind string

// Supported entity kinds.
const (
	KindCollege EntityKind = "college"
	KindCourse  EntityKind = "course"
	KindCutoff  EntityKind = "cutoff"
	KindRegion  EntityKind = "region"
)

// Valid reports whether the kind is one of the supported variants.
func (k EntityKind) Valid() bool {
	switch k {
	case KindCollege, KindCourse, KindCutoff, KindRegion:
		return true
	default:
		return false
	}
}

// String returns the kind's wire name.
func (k EntityKind) String() string {
	return string(k)
}

// ParseEntityKind converts a wire string to an EntityKind.
// Accepts a few common aliases ("cutoff_record", "cutoffs") for robustness.
func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "college", "colleges":
		return KindCollege, nil
	case "course", "courses":
		return KindCourse, nil
	case "cutoff", "cutoffs", "cutoff_record", "cutoff_records":
		return KindCutoff, nil
	case "region", "regions":
		return KindRegion, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// Entity is the tagged union over catalog variants. Engines switch on Kind()
// or on the concrete type; the store adapter guarantees required fields are
// populated before an Entity crosses this boundary.
type Entity interface {
	Kind() EntityKind
	EntityID() string
	DisplayName() string
	Metadata() map[string]interface{}
}

// College is an institution offering courses.
type College struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	Locality string `json:"locality,omitempty"`
	Category string `json:"category,omitempty"`
	Rank     int    `json:"rank,omitempty"`
}

// Kind implements Entity.
func (c *College) Kind() EntityKind { return KindCollege }

// EntityID implements Entity.
func (c *College) EntityID() string { return c.ID }

// DisplayName implements Entity.
func (c *College) DisplayName() string { return c.Name }

// Metadata implements Entity.
func (c *College) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"region":   c.Region,
		"locality": c.Locality,
		"category": c.Category,
		"rank":     c.Rank,
	}
}

// Validate checks the invariants required at the store-adapter boundary.
func (c *College) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("college: empty id")
	}
	if c.Name == "" {
		return fmt.Errorf("college %s: empty name", c.ID)
	}
	return nil
}

// Course is a program of study offered by a college.
type Course struct {
	ID        string `json:"id"`
	CollegeID string `json:"college_id"`
	Name      string `json:"name"`
	Stream    string `json:"stream,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Seats     int    `json:"seats,omitempty"`
}

// Kind implements Entity.
func (c *Course) Kind() EntityKind { return KindCourse }

// EntityID implements Entity.
func (c *Course) EntityID() string { return c.ID }

// DisplayName implements Entity.
func (c *Course) DisplayName() string { return c.Name }

// Metadata implements Entity.
func (c *Course) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"college_id": c.CollegeID,
		"stream":     c.Stream,
		"branch":     c.Branch,
		"seats":      c.Seats,
	}
}

// Validate checks the invariants required at the store-adapter boundary.
func (c *Course) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("course: empty id")
	}
	if c.Name == "" {
		return fmt.Errorf("course %s: empty name", c.ID)
	}
	if c.CollegeID == "" {
		return fmt.Errorf("course %s: empty college_id", c.ID)
	}
	return nil
}

// CutoffRecord is a historical admission cutoff for a (college, course,
// year, category) combination.
type CutoffRecord struct {
	ID          string `json:"id"`
	CollegeID   string `json:"college_id"`
	CourseID    string `json:"course_id"`
	Year        int    `json:"year"`
	Category    string `json:"category"`
	OpeningRank int    `json:"opening_rank"`
	ClosingRank int    `json:"closing_rank"`
}

// Kind implements Entity.
func (c *CutoffRecord) Kind() EntityKind { return KindCutoff }

// EntityID implements Entity.
func (c *CutoffRecord) EntityID() string { return c.ID }

// DisplayName implements Entity.
func (c *CutoffRecord) DisplayName() string {
	return fmt.Sprintf("%d %s cutoff", c.Year, c.Category)
}

// Metadata implements Entity.
func (c *CutoffRecord) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"college_id":   c.CollegeID,
		"course_id":    c.CourseID,
		"year":         c.Year,
		"category":     c.Category,
		"opening_rank": c.OpeningRank,
		"closing_rank": c.ClosingRank,
	}
}

// Validate checks the invariants required at the store-adapter boundary.
func (c *CutoffRecord) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("cutoff: empty id")
	}
	if c.CollegeID == "" || c.CourseID == "" {
		return fmt.Errorf("cutoff %s: missing college/course reference", c.ID)
	}
	if c.Year == 0 {
		return fmt.Errorf("cutoff %s: missing year", c.ID)
	}
	return nil
}

// Region is a geographic admission region (typically a state code).
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Kind implements Entity.
func (r *Region) Kind() EntityKind { return KindRegion }

// EntityID implements Entity.
func (r *Region) EntityID() string { return r.Code }

// DisplayName implements Entity.
func (r *Region) DisplayName() string { return r.Name }

// Metadata implements Entity.
func (r *Region) Metadata() map[string]interface{} {
	return map[string]interface{}{"code": r.Code}
}

// Validate checks the invariants required at the store-adapter boundary.
func (r *Region) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("region: empty code")
	}
	if r.Name == "" {
		return fmt.Errorf("region %s: empty name", r.Code)
	}
	return nil
}

// NameRef is a lightweight (id, display name) pair used by the resolver's
// fuzzy candidate pre-filter and link-table fallback.
type NameRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserPreferences holds a user's stored admission preferences, consumed by
// the personalization recommendation signal.
type UserPreferences struct {
	UserID   string `json:"user_id"`
	Region   string `json:"region,omitempty"`
	Stream   string `json:"stream,omitempty"`
	Category string `json:"category,omitempty"`
}
