// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package integrity

import (
	"context"
	"fmt"
	"strings"

	"github.com/admitra/admitra/internal/logging"
	"github.com/admitra/admitra/internal/models"
)

// Repair applies eligible fixes. Only mismatch issues at medium or low
// severity are touched: those rewrite a denormalized value from the
// canonical one, which is always safe. Orphans and duplicates need human
// judgment and are skipped. With dryRun set, nothing is written.
func (c *Checker) Repair(ctx context.Context, issues []models.IntegrityIssue, dryRun bool) (*models.RepairResult, error) {
	result := &models.RepairResult{DryRun: dryRun, Logs: []string{}}

	for i := range issues {
		issue := &issues[i]
		if !issue.Repairable() {
			result.Skipped++
			result.Logs = append(result.Logs,
				fmt.Sprintf("skip %s/%s: %s at %s severity is not auto-repairable",
					issue.EntityType, issue.EntityID, issue.Type, issue.Severity))
			continue
		}
		if issue.SuggestedFix == "" {
			result.Skipped++
			result.Logs = append(result.Logs,
				fmt.Sprintf("skip %s/%s: no suggested fix", issue.EntityType, issue.EntityID))
			continue
		}

		collegeID, regionID, ok := splitLinkTarget(issue)
		if !ok {
			result.Failed++
			result.Logs = append(result.Logs,
				fmt.Sprintf("fail %s/%s: cannot locate link row", issue.EntityType, issue.EntityID))
			continue
		}

		if dryRun {
			result.Repaired++
			result.Logs = append(result.Logs,
				fmt.Sprintf("would rewrite %s/%s key to %q", collegeID, regionID, issue.SuggestedFix))
			continue
		}

		if err := c.store.UpdateCompositeKey(ctx, collegeID, regionID, issue.SuggestedFix); err != nil {
			result.Failed++
			result.Logs = append(result.Logs,
				fmt.Sprintf("fail %s/%s: %v", collegeID, regionID, err))
			continue
		}
		result.Repaired++
		result.Logs = append(result.Logs,
			fmt.Sprintf("rewrote %s/%s key to %q", collegeID, regionID, issue.SuggestedFix))
	}

	logging.FromContext(ctx).Info().
		Int("repaired", result.Repaired).Int("failed", result.Failed).
		Int("skipped", result.Skipped).Bool("dry_run", dryRun).
		Msg("integrity repair complete")
	return result, nil
}

// splitLinkTarget recovers the (college, region) link row address from a
// mismatch issue. The region rides in the expected key's suffix.
func splitLinkTarget(issue *models.IntegrityIssue) (collegeID, regionID string, ok bool) {
	if issue.EntityID == "" {
		return "", "", false
	}
	i := strings.LastIndexByte(issue.SuggestedFix, '|')
	if i < 0 || i == len(issue.SuggestedFix)-1 {
		return "", "", false
	}
	return issue.EntityID, issue.SuggestedFix[i+1:], true
}
