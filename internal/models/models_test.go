// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package models

import "testing"

func TestParseEntityKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    EntityKind
		wantErr bool
	}{
		{"college", KindCollege, false},
		{"Colleges", KindCollege, false},
		{"COURSE", KindCourse, false},
		{"cutoff_record", KindCutoff, false},
		{"regions", KindRegion, false},
		{" region ", KindRegion, false},
		{"planet", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEntityKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEntityKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEntityKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntityValidation(t *testing.T) {
	t.Parallel()

	valid := []interface{ Validate() error }{
		&College{ID: "c1", Name: "Alpha", Region: "KA"},
		&Course{ID: "crs1", CollegeID: "c1", Name: "CS"},
		&CutoffRecord{ID: "cut1", CollegeID: "c1", CourseID: "crs1", Year: 2025, Category: "GM"},
		&Region{Code: "KA", Name: "Karnataka"},
	}
	for _, v := range valid {
		if err := v.Validate(); err != nil {
			t.Errorf("%T should validate: %v", v, err)
		}
	}

	invalid := []interface{ Validate() error }{
		&College{Name: "no id"},
		&College{ID: "c1"},
		&Course{ID: "crs1", Name: "orphaned"},
		&CutoffRecord{ID: "cut1", CollegeID: "c1", CourseID: "crs1"},
		&Region{Code: "KA"},
	}
	for _, v := range invalid {
		if err := v.Validate(); err == nil {
			t.Errorf("%T should fail validation: %+v", v, v)
		}
	}
}

func TestEntityInterface(t *testing.T) {
	t.Parallel()

	entities := []Entity{
		&College{ID: "c1", Name: "Alpha", Region: "KA"},
		&Course{ID: "crs1", CollegeID: "c1", Name: "CS"},
		&CutoffRecord{ID: "cut1", CollegeID: "c1", CourseID: "crs1", Year: 2025, Category: "GM"},
		&Region{Code: "KA", Name: "Karnataka"},
	}
	kinds := []EntityKind{KindCollege, KindCourse, KindCutoff, KindRegion}
	for i, e := range entities {
		if e.Kind() != kinds[i] {
			t.Errorf("kind = %s, want %s", e.Kind(), kinds[i])
		}
		if e.EntityID() == "" || e.DisplayName() == "" {
			t.Errorf("%T has empty identity", e)
		}
	}
}

func TestSeverityPenalties(t *testing.T) {
	t.Parallel()

	want := map[IssueSeverity]int{
		SeverityCritical: 20,
		SeverityHigh:     10,
		SeverityMedium:   5,
		SeverityLow:      2,
	}
	for sev, penalty := range want {
		if got := sev.HealthPenalty(); got != penalty {
			t.Errorf("%s penalty = %d, want %d", sev, got, penalty)
		}
	}
}

func TestRepairable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		issue IntegrityIssue
		want  bool
	}{
		{IntegrityIssue{Type: IssueMismatch, Severity: SeverityMedium}, true},
		{IntegrityIssue{Type: IssueMismatch, Severity: SeverityLow}, true},
		{IntegrityIssue{Type: IssueMismatch, Severity: SeverityHigh}, false},
		{IntegrityIssue{Type: IssueOrphan, Severity: SeverityMedium}, false},
		{IntegrityIssue{Type: IssueMissing, Severity: SeverityMedium}, false},
		{IntegrityIssue{Type: IssueDuplicate, Severity: SeverityLow}, false},
	}
	for _, tt := range tests {
		if got := tt.issue.Repairable(); got != tt.want {
			t.Errorf("Repairable(%s/%s) = %v, want %v", tt.issue.Type, tt.issue.Severity, got, tt.want)
		}
	}
}

func TestResolutionResultResolved(t *testing.T) {
	t.Parallel()

	id := "c1"
	hit := ResolutionResult{ID: &id, Confidence: 0.9}
	if !hit.Resolved() {
		t.Error("hit should be resolved")
	}
	miss := ResolutionResult{DisplayName: "input", Confidence: 0}
	if miss.Resolved() {
		t.Error("miss should not be resolved")
	}
}
