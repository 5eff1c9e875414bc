// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package crossref answers multi-entity filter queries ("engineering
// courses in region KA") with one pass over the region-course-college link
// relation followed by batch hydration of the matching entities.
package crossref

import (
	"context"
	"errors"
	"fmt"

	"github.com/admitra/admitra/internal/logging"
	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/store"
)

// ErrInvalidQuery is returned when no filter is set. An unfiltered scan of
// the whole link relation is never what the caller meant.
var ErrInvalidQuery = errors.New("crossref: at least one filter required")

// Filters narrows the scan. Zero-value fields are ignored.
type Filters struct {
	RegionID  string
	CourseID  string
	CollegeID string
	Stream    string
}

func (f Filters) empty() bool {
	return f.RegionID == "" && f.CourseID == "" && f.CollegeID == "" && f.Stream == ""
}

// Result groups the hydrated entities matched by a query. Empty slices,
// not nil errors, represent "nothing matched".
type Result struct {
	Colleges []*models.College `json:"colleges"`
	Courses  []*models.Course  `json:"courses"`
	Regions  []*models.Region  `json:"regions"`
}

// Store is the slice of the catalog store the crossref engine needs.
type Store interface {
	ScanLinks(ctx context.Context, f store.LinkFilters) ([]store.LinkRow, error)
	GetColleges(ctx context.Context, ids []string) ([]*models.College, error)
	GetCourses(ctx context.Context, ids []string) ([]*models.Course, error)
	GetRegions(ctx context.Context, codes []string) ([]*models.Region, error)
}

// Engine runs cross-reference queries.
type Engine struct {
	store Store
}

// New builds an Engine.
func New(st Store) *Engine {
	return &Engine{store: st}
}

// Query scans the link relation once, partitions the distinct matched IDs
// by kind, and hydrates each partition in a batch fetch.
func (e *Engine) Query(ctx context.Context, f Filters) (*Result, error) {
	if f.empty() {
		return nil, ErrInvalidQuery
	}

	links, err := e.store.ScanLinks(ctx, store.LinkFilters{
		RegionID:  f.RegionID,
		CourseID:  f.CourseID,
		CollegeID: f.CollegeID,
		Stream:    f.Stream,
	})
	if err != nil {
		return nil, fmt.Errorf("crossref scan: %w", err)
	}

	collegeIDs := distinct(links, func(l store.LinkRow) string { return l.CollegeID })
	courseIDs := distinct(links, func(l store.LinkRow) string { return l.CourseID })
	regionIDs := distinct(links, func(l store.LinkRow) string { return l.RegionID })

	result := &Result{
		Colleges: []*models.College{},
		Courses:  []*models.Course{},
		Regions:  []*models.Region{},
	}
	if len(links) == 0 {
		return result, nil
	}

	if result.Colleges, err = e.store.GetColleges(ctx, collegeIDs); err != nil {
		return nil, fmt.Errorf("crossref hydrate colleges: %w", err)
	}
	if result.Courses, err = e.store.GetCourses(ctx, courseIDs); err != nil {
		return nil, fmt.Errorf("crossref hydrate courses: %w", err)
	}
	if result.Regions, err = e.store.GetRegions(ctx, regionIDs); err != nil {
		return nil, fmt.Errorf("crossref hydrate regions: %w", err)
	}

	// Dangling link rows can hydrate to nothing; keep the empty-slice
	// contract either way.
	if result.Colleges == nil {
		result.Colleges = []*models.College{}
	}
	if result.Courses == nil {
		result.Courses = []*models.Course{}
	}
	if result.Regions == nil {
		result.Regions = []*models.Region{}
	}

	logging.FromContext(ctx).Debug().
		Int("links", len(links)).
		Int("colleges", len(result.Colleges)).
		Int("courses", len(result.Courses)).
		Msg("crossref query")
	return result, nil
}

// distinct extracts unique non-empty keys preserving first-seen order.
func distinct(links []store.LinkRow, key func(store.LinkRow) string) []string {
	seen := make(map[string]bool, len(links))
	var out []string
	for _, l := range links {
		k := key(l)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
