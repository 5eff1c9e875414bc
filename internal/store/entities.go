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

const (
	collegeCols = `id, name, region, locality, category, rank`
	courseCols  = `id, college_id, name, stream, branch, seats`
	cutoffCols  = `id, college_id, course_id, year, category, opening_rank, closing_rank`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollege(row rowScanner) (*models.College, error) {
	var c models.College
	if err := row.Scan(&c.ID, &c.Name, &c.Region, &c.Locality, &c.Category, &c.Rank); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("scan college: %w", err)
	}
	return &c, nil
}

func scanCourse(row rowScanner) (*models.Course, error) {
	var c models.Course
	if err := row.Scan(&c.ID, &c.CollegeID, &c.Name, &c.Stream, &c.Branch, &c.Seats); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("scan course: %w", err)
	}
	return &c, nil
}

func scanCutoff(row rowScanner) (*models.CutoffRecord, error) {
	var c models.CutoffRecord
	if err := row.Scan(&c.ID, &c.CollegeID, &c.CourseID, &c.Year, &c.Category,
		&c.OpeningRank, &c.ClosingRank); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("scan cutoff: %w", err)
	}
	return &c, nil
}

func scanRegion(row rowScanner) (*models.Region, error) {
	var r models.Region
	if err := row.Scan(&r.Code, &r.Name); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("scan region: %w", err)
	}
	return &r, nil
}

// GetEntity fetches one entity by kind-scoped ID.
func (s *Store) GetEntity(ctx context.Context, kind models.EntityKind, id string) (models.Entity, error) {
	var entity models.Entity
	err := s.do(func() error {
		var err error
		switch kind {
		case models.KindCollege:
			row := s.db.QueryRowContext(ctx,
				`SELECT `+collegeCols+` FROM colleges WHERE id = ?`, id)
			entity, err = scanCollege(row)
		case models.KindCourse:
			row := s.db.QueryRowContext(ctx,
				`SELECT `+courseCols+` FROM courses WHERE id = ?`, id)
			entity, err = scanCourse(row)
		case models.KindCutoff:
			row := s.db.QueryRowContext(ctx,
				`SELECT `+cutoffCols+` FROM cutoff_records WHERE id = ?`, id)
			entity, err = scanCutoff(row)
		case models.KindRegion:
			row := s.db.QueryRowContext(ctx,
				`SELECT code, name FROM regions WHERE code = ?`, id)
			entity, err = scanRegion(row)
		default:
			return fmt.Errorf("unsupported entity kind %q", kind)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetByExactName finds the entity whose normalized name equals the
// normalized query. Cutoffs have no human name and are not resolvable
// this way.
func (s *Store) GetByExactName(ctx context.Context, kind models.EntityKind, normalized string) (models.Entity, error) {
	var entity models.Entity
	err := s.do(func() error {
		var err error
		switch kind {
		case models.KindCollege:
			row := s.db.QueryRowContext(ctx,
				`SELECT `+collegeCols+` FROM colleges
				 WHERE lower(trim(name)) = ? LIMIT 1`, normalized)
			entity, err = scanCollege(row)
		case models.KindCourse:
			row := s.db.QueryRowContext(ctx,
				`SELECT `+courseCols+` FROM courses
				 WHERE lower(trim(name)) = ? LIMIT 1`, normalized)
			entity, err = scanCourse(row)
		case models.KindRegion:
			row := s.db.QueryRowContext(ctx,
				`SELECT code, name FROM regions
				 WHERE lower(trim(name)) = ? OR lower(code) = ? LIMIT 1`,
				normalized, normalized)
			entity, err = scanRegion(row)
		default:
			return ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetByCompositeKey resolves a college via the denormalized
// "<normalized name>|<region>" key on region_college_link.
func (s *Store) GetByCompositeKey(ctx context.Context, kind models.EntityKind, key string) (models.Entity, error) {
	if kind != models.KindCollege {
		return nil, ErrNotFound
	}
	var entity models.Entity
	err := s.do(func() error {
		row := s.db.QueryRowContext(ctx,
			`SELECT `+prefixCols("c", collegeCols)+`
			 FROM region_college_link l
			 JOIN colleges c ON c.id = l.college_id
			 WHERE lower(l.composite_college_key) = ? LIMIT 1`, strings.ToLower(key))
		var err error
		entity, err = scanCollege(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// CandidateNames returns the fuzzy-match candidate pool: names sharing the
// query's 3-char prefix or containing/contained-in the query. The LIMIT
// bounds the in-process scoring work.
func (s *Store) CandidateNames(ctx context.Context, kind models.EntityKind, normalized string, limit int) ([]models.NameRef, error) {
	var table, idCol, nameCol string
	switch kind {
	case models.KindCollege:
		table, idCol, nameCol = "colleges", "id", "name"
	case models.KindCourse:
		table, idCol, nameCol = "courses", "id", "name"
	case models.KindRegion:
		table, idCol, nameCol = "regions", "code", "name"
	default:
		return nil, nil
	}
	if limit <= 0 {
		limit = 200
	}

	prefix := normalized
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	var refs []models.NameRef
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
			`SELECT %s, %s FROM %s
			 WHERE lower(%s) LIKE ? OR lower(%s) LIKE ? OR ? LIKE '%%' || lower(%s) || '%%'
			 LIMIT ?`,
			idCol, nameCol, table, nameCol, nameCol, nameCol),
			prefix+"%", "%"+normalized+"%", normalized, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		refs = refs[:0]
		for rows.Next() {
			var r models.NameRef
			if err := rows.Scan(&r.ID, &r.Name); err != nil {
				return err
			}
			refs = append(refs, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// LinkTableLookup is the last-resort resolution strategy: match the query
// against names reachable only through the link tables (colleges linked to
// regions, courses linked through region_course_college_link).
func (s *Store) LinkTableLookup(ctx context.Context, kind models.EntityKind, normalized string) (models.NameRef, error) {
	var q string
	switch kind {
	case models.KindCollege:
		q = `SELECT c.id, c.name
		     FROM region_college_link l
		     JOIN colleges c ON c.id = l.college_id
		     WHERE l.composite_college_key LIKE ? LIMIT 1`
	case models.KindCourse:
		q = `SELECT co.id, co.name
		     FROM region_course_college_link l
		     JOIN courses co ON co.id = l.course_id
		     WHERE lower(co.name) LIKE ? OR lower(l.stream) = ? LIMIT 1`
	default:
		return models.NameRef{}, ErrNotFound
	}

	var ref models.NameRef
	err := s.do(func() error {
		var row rowScanner
		if kind == models.KindCourse {
			row = s.db.QueryRowContext(ctx, q, "%"+normalized+"%", normalized)
		} else {
			row = s.db.QueryRowContext(ctx, q, "%"+normalized+"%")
		}
		return row.Scan(&ref.ID, &ref.Name)
	})
	if err != nil {
		return models.NameRef{}, err
	}
	return ref, nil
}

// GetColleges batch-fetches colleges by ID, skipping unknown IDs.
func (s *Store) GetColleges(ctx context.Context, ids []string) ([]*models.College, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []*models.College
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+collegeCols+` FROM colleges WHERE id IN (`+placeholders(len(ids))+`) ORDER BY rank, id`,
			toAny(ids)...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			c, err := scanCollege(rows)
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

// GetCourses batch-fetches courses by ID, skipping unknown IDs.
func (s *Store) GetCourses(ctx context.Context, ids []string) ([]*models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []*models.Course
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+courseCols+` FROM courses WHERE id IN (`+placeholders(len(ids))+`) ORDER BY id`,
			toAny(ids)...)
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

// GetRegions batch-fetches regions by code, skipping unknown codes.
func (s *Store) GetRegions(ctx context.Context, codes []string) ([]*models.Region, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var out []*models.Region
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT code, name FROM regions WHERE code IN (`+placeholders(len(codes))+`) ORDER BY code`,
			toAny(codes)...)
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

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func prefixCols(alias, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
