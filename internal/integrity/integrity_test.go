// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package integrity

import (
	"context"
	"testing"

	"github.com/admitra/admitra/internal/config"
	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/store"
)

type fakeStore struct {
	links      []store.CollegeLinkSample
	orphans    []store.OrphanRef
	duplicates []store.DuplicateGroup

	updates map[string]string // "college:region" -> new key
}

func (f *fakeStore) SampleCollegeLinks(_ context.Context, _ int) ([]store.CollegeLinkSample, error) {
	return f.links, nil
}

func (f *fakeStore) FindOrphans(_ context.Context, _ int) ([]store.OrphanRef, error) {
	return f.orphans, nil
}

func (f *fakeStore) FindDuplicateColleges(_ context.Context, _ int) ([]store.DuplicateGroup, error) {
	return f.duplicates, nil
}

func (f *fakeStore) UpdateCompositeKey(_ context.Context, collegeID, regionID, newKey string) error {
	if f.updates == nil {
		f.updates = map[string]string{}
	}
	f.updates[collegeID+":"+regionID] = newKey
	return nil
}

func newChecker(fs *fakeStore) *Checker {
	return New(fs, config.Defaults().Integrity)
}

func TestCheckCleanStore(t *testing.T) {
	t.Parallel()

	c := newChecker(&fakeStore{
		links: []store.CollegeLinkSample{
			{CollegeID: "col-1", RegionID: "KA", CompositeKey: "alpha college|KA", CanonicalName: "Alpha College"},
		},
	})
	report, err := c.Check(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.HealthScore != 100 {
		t.Errorf("health = %d, want 100", report.HealthScore)
	}
	if len(report.Issues) != 0 {
		t.Errorf("issues = %+v, want none", report.Issues)
	}
}

func TestCheckMismatch(t *testing.T) {
	t.Parallel()

	c := newChecker(&fakeStore{
		links: []store.CollegeLinkSample{
			{CollegeID: "col-1", RegionID: "KA", CompositeKey: "old name|KA", CanonicalName: "New Name"},
		},
	})
	report, err := c.Check(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(report.Issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(report.Issues))
	}
	issue := report.Issues[0]
	if issue.Type != models.IssueMismatch || issue.Severity != models.SeverityMedium {
		t.Errorf("issue = %s/%s, want mismatch/medium", issue.Type, issue.Severity)
	}
	if issue.SuggestedFix != "new name|KA" {
		t.Errorf("suggested fix = %q, want recomputed key", issue.SuggestedFix)
	}
	if report.HealthScore != 95 {
		t.Errorf("health = %d, want 95 after one medium issue", report.HealthScore)
	}
}

func TestCheckOrphanSeverities(t *testing.T) {
	t.Parallel()

	c := newChecker(&fakeStore{
		orphans: []store.OrphanRef{
			{EntityType: models.KindCutoff, EntityID: "cut-1", Field: "college_id", MissingID: "gone"},
			{EntityType: models.KindCollege, EntityID: "col-9:KA", Field: "link.college_id", MissingID: "col-9"},
		},
	})
	report, err := c.Check(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(report.Issues) != 2 {
		t.Fatalf("issues = %d, want 2", len(report.Issues))
	}
	// high (10) + low (2)
	if report.HealthScore != 88 {
		t.Errorf("health = %d, want 88", report.HealthScore)
	}
}

func TestCheckDuplicates(t *testing.T) {
	t.Parallel()

	c := newChecker(&fakeStore{
		duplicates: []store.DuplicateGroup{
			{NormalizedName: "alpha college", Region: "KA", CollegeIDs: []string{"col-1", "col-7"}},
		},
	})
	report, err := c.Check(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(report.Issues) != 1 || report.Issues[0].Type != models.IssueDuplicate {
		t.Fatalf("issues = %+v, want one duplicate", report.Issues)
	}
	if report.Issues[0].Severity != models.SeverityMedium {
		t.Errorf("duplicate severity = %s, want medium", report.Issues[0].Severity)
	}
}

func TestCheckScoreFloor(t *testing.T) {
	t.Parallel()

	var orphans []store.OrphanRef
	for i := 0; i < 20; i++ {
		orphans = append(orphans, store.OrphanRef{
			EntityType: models.KindCutoff, EntityID: "cut", Field: "college_id", MissingID: "x",
		})
	}
	c := newChecker(&fakeStore{orphans: orphans})
	report, err := c.Check(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.HealthScore != 0 {
		t.Errorf("health = %d, want floor 0", report.HealthScore)
	}
}

func TestCheckSweepToggles(t *testing.T) {
	t.Parallel()

	c := newChecker(&fakeStore{
		links: []store.CollegeLinkSample{
			{CollegeID: "col-1", RegionID: "KA", CompositeKey: "wrong|KA", CanonicalName: "Right"},
		},
		orphans: []store.OrphanRef{
			{EntityType: models.KindCourse, EntityID: "crs-1", Field: "college_id", MissingID: "gone"},
		},
	})
	report, err := c.Check(context.Background(), Options{SkipMismatches: true})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	for _, issue := range report.Issues {
		if issue.Type == models.IssueMismatch {
			t.Error("mismatch sweep ran despite SkipMismatches")
		}
	}
}

func TestRepairAppliesMismatchesOnly(t *testing.T) {
	t.Parallel()

	fs := &fakeStore{}
	c := newChecker(fs)
	issues := []models.IntegrityIssue{
		{
			Type: models.IssueMismatch, Severity: models.SeverityMedium,
			EntityType: models.KindCollege, EntityID: "col-1",
			SuggestedFix: "new name|KA",
		},
		{
			Type: models.IssueOrphan, Severity: models.SeverityHigh,
			EntityType: models.KindCutoff, EntityID: "cut-1",
		},
		{
			Type: models.IssueDuplicate, Severity: models.SeverityMedium,
			EntityType: models.KindCollege, EntityID: "col-1,col-7",
		},
	}

	result, err := c.Repair(context.Background(), issues, false)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if result.Repaired != 1 || result.Skipped != 2 || result.Failed != 0 {
		t.Errorf("result = %+v, want 1 repaired 2 skipped", result)
	}
	if fs.updates["col-1:KA"] != "new name|KA" {
		t.Errorf("store updates = %v, want composite key rewrite", fs.updates)
	}
}

func TestRepairDryRun(t *testing.T) {
	t.Parallel()

	fs := &fakeStore{}
	c := newChecker(fs)
	issues := []models.IntegrityIssue{
		{
			Type: models.IssueMismatch, Severity: models.SeverityLow,
			EntityType: models.KindCollege, EntityID: "col-1",
			SuggestedFix: "name|KA",
		},
	}

	result, err := c.Repair(context.Background(), issues, true)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if !result.DryRun || result.Repaired != 1 {
		t.Errorf("result = %+v, want dry-run with 1 would-repair", result)
	}
	if len(fs.updates) != 0 {
		t.Errorf("dry run wrote to the store: %v", fs.updates)
	}
}

func TestCompositeKeyHelper(t *testing.T) {
	t.Parallel()

	if got := CompositeKey("  Alpha   College ", "ka"); got != "alpha college|KA" {
		t.Errorf("CompositeKey = %q", got)
	}
}
