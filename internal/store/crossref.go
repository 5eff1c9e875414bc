// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package store

import (
	"context"
	"strings"
)

// LinkRow is one row of the region_course_college_link relation.
type LinkRow struct {
	CollegeID string
	CourseID  string
	RegionID  string
	Stream    string
}

// LinkFilters narrows the cross-reference scan. Zero-value fields are
// ignored; the caller guarantees at least one is set.
type LinkFilters struct {
	RegionID  string
	CourseID  string
	CollegeID string
	Stream    string
}

// buildLinkWhere assembles the WHERE clause for a link scan.
func buildLinkWhere(f LinkFilters) (string, []any) {
	var conds []string
	var args []any
	if f.RegionID != "" {
		conds = append(conds, "region_id = ?")
		args = append(args, f.RegionID)
	}
	if f.CourseID != "" {
		conds = append(conds, "course_id = ?")
		args = append(args, f.CourseID)
	}
	if f.CollegeID != "" {
		conds = append(conds, "college_id = ?")
		args = append(args, f.CollegeID)
	}
	if f.Stream != "" {
		conds = append(conds, "lower(stream) = ?")
		args = append(args, strings.ToLower(f.Stream))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ScanLinks runs one filtered pass over region_course_college_link.
func (s *Store) ScanLinks(ctx context.Context, f LinkFilters) ([]LinkRow, error) {
	where, args := buildLinkWhere(f)
	var out []LinkRow
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT college_id, course_id, region_id, stream FROM region_course_college_link`+where, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var r LinkRow
			if err := rows.Scan(&r.CollegeID, &r.CourseID, &r.RegionID, &r.Stream); err != nil {
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
