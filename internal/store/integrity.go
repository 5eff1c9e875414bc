// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/admitra/admitra/internal/models"
)

// CollegeLinkSample is one region_college_link row joined with the
// canonical college name, used by the mismatch sweep.
type CollegeLinkSample struct {
	CollegeID     string
	RegionID      string
	CompositeKey  string
	CanonicalName string // empty when the college row is missing
}

// SampleCollegeLinks returns up to limit link rows with their canonical
// college names. A LEFT JOIN keeps orphaned links visible.
func (s *Store) SampleCollegeLinks(ctx context.Context, limit int) ([]CollegeLinkSample, error) {
	var out []CollegeLinkSample
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT l.college_id, l.region_id, l.composite_college_key, coalesce(c.name, '')
			 FROM region_college_link l
			 LEFT JOIN colleges c ON c.id = l.college_id
			 ORDER BY l.college_id, l.region_id
			 LIMIT ?`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var r CollegeLinkSample
			if err := rows.Scan(&r.CollegeID, &r.RegionID, &r.CompositeKey, &r.CanonicalName); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OrphanRef is a dangling reference found by an anti-join.
type OrphanRef struct {
	EntityType models.EntityKind
	EntityID   string
	Field      string
	MissingID  string
}

// FindOrphans anti-joins each referencing table against its target and
// returns up to limit dangling references per relation.
func (s *Store) FindOrphans(ctx context.Context, limit int) ([]OrphanRef, error) {
	type sweep struct {
		query string
		kind  models.EntityKind
		field string
	}
	sweeps := []sweep{
		{`SELECT co.id, co.college_id FROM courses co
		  LEFT JOIN colleges c ON c.id = co.college_id
		  WHERE c.id IS NULL LIMIT ?`, models.KindCourse, "college_id"},
		{`SELECT cu.id, cu.college_id FROM cutoff_records cu
		  LEFT JOIN colleges c ON c.id = cu.college_id
		  WHERE c.id IS NULL LIMIT ?`, models.KindCutoff, "college_id"},
		{`SELECT cu.id, cu.course_id FROM cutoff_records cu
		  LEFT JOIN courses co ON co.id = cu.course_id
		  WHERE co.id IS NULL LIMIT ?`, models.KindCutoff, "course_id"},
		{`SELECT l.college_id || ':' || l.region_id, l.college_id FROM region_college_link l
		  LEFT JOIN colleges c ON c.id = l.college_id
		  WHERE c.id IS NULL LIMIT ?`, models.KindCollege, "link.college_id"},
		{`SELECT l.college_id || ':' || l.course_id || ':' || l.region_id, l.region_id
		  FROM region_course_college_link l
		  LEFT JOIN regions r ON r.code = l.region_id
		  WHERE r.code IS NULL LIMIT ?`, models.KindRegion, "link.region_id"},
	}

	var out []OrphanRef
	err := s.do(func() error {
		out = out[:0]
		for _, sw := range sweeps {
			rows, err := s.db.QueryContext(ctx, sw.query, limit)
			if err != nil {
				return fmt.Errorf("orphan sweep %s.%s: %w", sw.kind, sw.field, err)
			}
			for rows.Next() {
				ref := OrphanRef{EntityType: sw.kind, Field: sw.field}
				if err := rows.Scan(&ref.EntityID, &ref.MissingID); err != nil {
					rows.Close()
					return err
				}
				out = append(out, ref)
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return err
			}
			rows.Close()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DuplicateGroup is a set of colleges sharing a normalized name within one
// region.
type DuplicateGroup struct {
	NormalizedName string
	Region         string
	CollegeIDs     []string
}

// FindDuplicateColleges groups colleges by (normalized name, region) and
// returns groups with more than one member.
func (s *Store) FindDuplicateColleges(ctx context.Context, limit int) ([]DuplicateGroup, error) {
	var out []DuplicateGroup
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT lower(trim(name)) AS norm, region, string_agg(id, ',' ORDER BY id)
			 FROM colleges
			 GROUP BY norm, region
			 HAVING count(*) > 1
			 ORDER BY norm
			 LIMIT ?`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var g DuplicateGroup
			var ids string
			if err := rows.Scan(&g.NormalizedName, &g.Region, &ids); err != nil {
				return err
			}
			g.CollegeIDs = splitCSV(ids)
			out = append(out, g)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCompositeKey rewrites a link row's denormalized composite key.
// Used by the repair pass on mismatch issues.
func (s *Store) UpdateCompositeKey(ctx context.Context, collegeID, regionID, newKey string) error {
	return s.do(func() error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE region_college_link SET composite_college_key = ?
			 WHERE college_id = ? AND region_id = ?`, newKey, collegeID, regionID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
