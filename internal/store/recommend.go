// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/admitra/admitra/internal/models"
)

// ListInteractionsSince returns interactions newer than the cutoff, newest
// first, bounded by limit. Powers the collaborative and trending signals.
func (s *Store) ListInteractionsSince(ctx context.Context, since time.Time, limit int) ([]models.Interaction, error) {
	if limit <= 0 {
		limit = 10000
	}
	var out []models.Interaction
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT user_id, entity_id, entity_type, action, occurred_at
			 FROM interactions
			 WHERE occurred_at >= ?
			 ORDER BY occurred_at DESC
			 LIMIT ?`, since.Unix(), limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var it models.Interaction
			var kind string
			if err := rows.Scan(&it.UserID, &it.EntityID, &kind, &it.Action, &it.OccurredAt); err != nil {
				return err
			}
			it.EntityType = models.EntityKind(kind)
			out = append(out, it)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetUserPreferences returns a user's stored preferences, or nil when the
// user has none (not an error; the personalization signal just skips).
func (s *Store) GetUserPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	var p models.UserPreferences
	err := s.do(func() error {
		row := s.db.QueryRowContext(ctx,
			`SELECT user_id, region, stream, category FROM user_preferences WHERE user_id = ?`,
			userID)
		return row.Scan(&p.UserID, &p.Region, &p.Stream, &p.Category)
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CollegesByRegion returns colleges in a region ordered by rank, used for
// candidate discovery by the content and graph-similarity signals.
func (s *Store) CollegesByRegion(ctx context.Context, region string, limit int) ([]*models.College, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []*models.College
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+collegeCols+` FROM colleges WHERE region = ? ORDER BY rank, id LIMIT ?`,
			region, limit)
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

// CollegesOfferingCourseName returns colleges offering a course with the
// same normalized name, excluding the given college. Feeds graph-similarity
// candidate discovery for course roots.
func (s *Store) CollegesOfferingCourseName(ctx context.Context, normalizedName, excludeCollegeID string, limit int) ([]*models.College, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []*models.College
	err := s.do(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT DISTINCT `+prefixCols("c", collegeCols)+`
			 FROM courses co
			 JOIN colleges c ON c.id = co.college_id
			 WHERE lower(trim(co.name)) = ? AND c.id <> ?
			 ORDER BY c.rank, c.id LIMIT ?`,
			normalizedName, excludeCollegeID, limit)
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
