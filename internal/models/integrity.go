// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package models

// IssueSeverity ranks integrity issues. Severity drives both the health
// score penalty and repair eligibility.
type IssueSeverity string

// Severities, highest first.
const (
	SeverityCritical IssueSeverity = "critical"
	SeverityHigh     IssueSeverity = "high"
	SeverityMedium   IssueSeverity = "medium"
	SeverityLow      IssueSeverity = "low"
)

// HealthPenalty returns the severity's deduction from the 100-point
// health score.
func (s IssueSeverity) HealthPenalty() int {
	switch s {
	case SeverityCritical:
		return 20
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 2
	default:
		return 0
	}
}

// IssueType classifies what an integrity sweep found.
type IssueType string

// Issue classes. The sweeps report dangling references from the
// referencing side as IssueOrphan; IssueMissing is the same defect seen
// from the absent row, accepted on repair payloads from external audits.
const (
	IssueMismatch  IssueType = "mismatch"  // denormalized name disagrees with canonical
	IssueMissing   IssueType = "missing"   // a row other rows point at does not exist
	IssueOrphan    IssueType = "orphan"    // reference to a missing entity
	IssueDuplicate IssueType = "duplicate" // same normalized name within one region
)

// IntegrityIssue is one finding from an integrity sweep. SuggestedFix, when
// set, is the value a repair would write.
type IntegrityIssue struct {
	Type         IssueType     `json:"type"`
	Severity     IssueSeverity `json:"severity"`
	EntityType   EntityKind    `json:"entity_type"`
	EntityID     string        `json:"entity_id"`
	Field        string        `json:"field,omitempty"`
	Description  string        `json:"description"`
	Observed     string        `json:"observed,omitempty"`
	Expected     string        `json:"expected,omitempty"`
	SuggestedFix string        `json:"suggested_fix,omitempty"`
}

// Repairable reports whether the repair pass will act on this issue.
// Only mismatches at medium or low severity are applied automatically;
// everything else needs a human.
func (i *IntegrityIssue) Repairable() bool {
	if i.Type != IssueMismatch {
		return false
	}
	return i.Severity == SeverityMedium || i.Severity == SeverityLow
}

// IntegrityReport is the result of a full check pass.
type IntegrityReport struct {
	Issues       []IntegrityIssue  `json:"issues"`
	HealthScore  int               `json:"health_score"`
	SampleSize   int               `json:"sample_size"`
	IssuesByType map[IssueType]int `json:"issues_by_type"`
}

// RepairResult summarizes a repair pass.
type RepairResult struct {
	Repaired int      `json:"repaired"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	DryRun   bool     `json:"dry_run"`
	Logs     []string `json:"logs"`
}
