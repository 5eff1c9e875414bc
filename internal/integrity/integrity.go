// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package integrity audits the catalog's referential and denormalization
// invariants: link-table composite keys must agree with canonical names,
// references must point at existing rows, and no region may hold two
// colleges with the same normalized name.
package integrity

import (
	"context"
	"fmt"
	"strings"

	"github.com/admitra/admitra/internal/config"
	"github.com/admitra/admitra/internal/logging"
	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/similarity"
	"github.com/admitra/admitra/internal/store"
)

// Store is the slice of the catalog store the checker needs.
type Store interface {
	SampleCollegeLinks(ctx context.Context, limit int) ([]store.CollegeLinkSample, error)
	FindOrphans(ctx context.Context, limit int) ([]store.OrphanRef, error)
	FindDuplicateColleges(ctx context.Context, limit int) ([]store.DuplicateGroup, error)
	UpdateCompositeKey(ctx context.Context, collegeID, regionID, newKey string) error
}

// Options controls one check pass. Sweeps default to on; SampleSize zero
// means the configured default.
type Options struct {
	SampleSize     int
	SkipMismatches bool
	SkipOrphans    bool
	SkipDuplicates bool
}

// Checker runs integrity sweeps and repairs.
type Checker struct {
	store Store
	cfg   config.IntegrityConfig
}

// New builds a Checker.
func New(st Store, cfg config.IntegrityConfig) *Checker {
	return &Checker{store: st, cfg: cfg}
}

// Check runs the enabled sweeps and scores overall health:
// 100 minus 20 per critical, 10 per high, 5 per medium, 2 per low,
// floored at zero.
func (c *Checker) Check(ctx context.Context, opts Options) (*models.IntegrityReport, error) {
	sample := opts.SampleSize
	if sample <= 0 {
		sample = c.cfg.DefaultSampleSize
	}
	if c.cfg.MaxSampleSize > 0 && sample > c.cfg.MaxSampleSize {
		sample = c.cfg.MaxSampleSize
	}

	issues := []models.IntegrityIssue{}

	if !opts.SkipMismatches {
		found, err := c.sweepMismatches(ctx, sample)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	if !opts.SkipOrphans {
		found, err := c.sweepOrphans(ctx, sample)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	if !opts.SkipDuplicates {
		found, err := c.sweepDuplicates(ctx, sample)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}

	score := 100
	byType := make(map[models.IssueType]int)
	for _, issue := range issues {
		score -= issue.Severity.HealthPenalty()
		byType[issue.Type]++
	}
	if score < 0 {
		score = 0
	}

	logging.FromContext(ctx).Info().
		Int("issues", len(issues)).Int("health_score", score).Int("sample", sample).
		Msg("integrity check complete")
	return &models.IntegrityReport{
		Issues:       issues,
		HealthScore:  score,
		SampleSize:   sample,
		IssuesByType: byType,
	}, nil
}

// sweepMismatches compares each sampled link's composite key against the
// key recomputed from the canonical college name. A missing college is the
// orphan sweep's concern, not a mismatch.
func (c *Checker) sweepMismatches(ctx context.Context, sample int) ([]models.IntegrityIssue, error) {
	links, err := c.store.SampleCollegeLinks(ctx, sample)
	if err != nil {
		return nil, fmt.Errorf("mismatch sweep: %w", err)
	}

	var issues []models.IntegrityIssue
	for _, l := range links {
		if l.CanonicalName == "" {
			continue
		}
		expected := CompositeKey(l.CanonicalName, l.RegionID)
		if strings.EqualFold(l.CompositeKey, expected) {
			continue
		}
		issues = append(issues, models.IntegrityIssue{
			Type:       models.IssueMismatch,
			Severity:   models.SeverityMedium,
			EntityType: models.KindCollege,
			EntityID:   l.CollegeID,
			Field:      "composite_college_key",
			Description: fmt.Sprintf("link key for college %s in region %s disagrees with canonical name",
				l.CollegeID, l.RegionID),
			Observed:     l.CompositeKey,
			Expected:     expected,
			SuggestedFix: expected,
		})
	}
	return issues, nil
}

// sweepOrphans reports dangling references. A cutoff pointing at a missing
// college corrupts admission answers, so those rank high; dangling link
// rows only pollute traversal and rank low.
func (c *Checker) sweepOrphans(ctx context.Context, sample int) ([]models.IntegrityIssue, error) {
	orphans, err := c.store.FindOrphans(ctx, sample)
	if err != nil {
		return nil, fmt.Errorf("orphan sweep: %w", err)
	}

	var issues []models.IntegrityIssue
	for _, o := range orphans {
		severity := models.SeverityHigh
		if strings.HasPrefix(o.Field, "link.") {
			severity = models.SeverityLow
		}
		issues = append(issues, models.IntegrityIssue{
			Type:       models.IssueOrphan,
			Severity:   severity,
			EntityType: o.EntityType,
			EntityID:   o.EntityID,
			Field:      o.Field,
			Description: fmt.Sprintf("%s %s references missing %s %q",
				o.EntityType, o.EntityID, o.Field, o.MissingID),
			Observed: o.MissingID,
		})
	}
	return issues, nil
}

func (c *Checker) sweepDuplicates(ctx context.Context, sample int) ([]models.IntegrityIssue, error) {
	groups, err := c.store.FindDuplicateColleges(ctx, sample)
	if err != nil {
		return nil, fmt.Errorf("duplicate sweep: %w", err)
	}

	var issues []models.IntegrityIssue
	for _, g := range groups {
		issues = append(issues, models.IntegrityIssue{
			Type:       models.IssueDuplicate,
			Severity:   models.SeverityMedium,
			EntityType: models.KindCollege,
			EntityID:   strings.Join(g.CollegeIDs, ","),
			Field:      "name",
			Description: fmt.Sprintf("%d colleges named %q in region %s",
				len(g.CollegeIDs), g.NormalizedName, g.Region),
			Observed: g.NormalizedName,
		})
	}
	return issues, nil
}

// CompositeKey builds the denormalized link key from a canonical college
// name and region code.
func CompositeKey(name, region string) string {
	return similarity.Normalize(name) + "|" + strings.ToUpper(region)
}
