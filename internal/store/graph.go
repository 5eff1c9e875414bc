// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package store

import (
	"context"

	"github.com/admitra/admitra/internal/models"
)

// CoursesByCollege returns the courses a college offers.
func (s *Store) CoursesByCollege(ctx context.Context, collegeID string) ([]*models.Course, error) {
	var out []*models.Course
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+courseCols+` FROM courses WHERE college_id = ? ORDER BY id`, collegeID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			c, err := scanCourse(rows)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CutoffsByCollege returns a college's cutoff records across all courses.
func (s *Store) CutoffsByCollege(ctx context.Context, collegeID string) ([]*models.CutoffRecord, error) {
	return s.cutoffsWhere(ctx, `college_id = ?`, collegeID)
}

// CutoffsByCourse returns a course's cutoff records.
func (s *Store) CutoffsByCourse(ctx context.Context, courseID string) ([]*models.CutoffRecord, error) {
	return s.cutoffsWhere(ctx, `course_id = ?`, courseID)
}

func (s *Store) cutoffsWhere(ctx context.Context, where string, arg any) ([]*models.CutoffRecord, error) {
	var out []*models.CutoffRecord
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+cutoffCols+` FROM cutoff_records WHERE `+where+` ORDER BY year DESC, id`, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			c, err := scanCutoff(rows)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RegionsByCollege returns the regions a college is linked to.
func (s *Store) RegionsByCollege(ctx context.Context, collegeID string) ([]*models.Region, error) {
	return s.regionsVia(ctx,
		`SELECT r.code, r.name
		 FROM region_college_link l
		 JOIN regions r ON r.code = l.region_id
		 WHERE l.college_id = ? ORDER BY r.code`, collegeID)
}

// RegionsByCourse returns the regions a course is available in.
func (s *Store) RegionsByCourse(ctx context.Context, courseID string) ([]*models.Region, error) {
	return s.regionsVia(ctx,
		`SELECT DISTINCT r.code, r.name
		 FROM region_course_college_link l
		 JOIN regions r ON r.code = l.region_id
		 WHERE l.course_id = ? ORDER BY r.code`, courseID)
}

func (s *Store) regionsVia(ctx context.Context, q, id string) ([]*models.Region, error) {
	var out []*models.Region
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx, q, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			r, err := scanRegion(rows)
			if err != nil {
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
