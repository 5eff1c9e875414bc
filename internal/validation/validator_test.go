// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package validation

import (
	"testing"

	"github.com/admitra/admitra/internal/models"
)

func TestStructValid(t *testing.T) {
	t.Parallel()

	req := models.BatchResolveRequest{
		Queries: []string{"a j institute"},
		Type:    "college",
	}
	if apiErr := Struct(&req); apiErr != nil {
		t.Errorf("valid request rejected: %+v", apiErr)
	}
}

func TestStructInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  models.BatchResolveRequest
	}{
		{"missing queries", models.BatchResolveRequest{Type: "college"}},
		{"empty queries", models.BatchResolveRequest{Queries: []string{}, Type: "college"}},
		{"missing type", models.BatchResolveRequest{Queries: []string{"x"}}},
		{"blank query item", models.BatchResolveRequest{Queries: []string{""}, Type: "college"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			apiErr := Struct(&tt.req)
			if apiErr == nil {
				t.Fatal("expected validation error")
			}
			if apiErr.Code != models.ErrCodeValidation {
				t.Errorf("code = %s, want VALIDATION_ERROR", apiErr.Code)
			}
		})
	}
}

func TestStructThresholdBounds(t *testing.T) {
	t.Parallel()

	bad := 1.5
	req := models.BatchResolveRequest{
		Queries: []string{"x"},
		Type:    "college",
		Options: &models.ResolveOptionsBody{FuzzyThreshold: &bad},
	}
	if Struct(&req) == nil {
		t.Error("threshold 1.5 should fail lt=1")
	}

	ok := 0.8
	req.Options.FuzzyThreshold = &ok
	if apiErr := Struct(&req); apiErr != nil {
		t.Errorf("threshold 0.8 rejected: %+v", apiErr)
	}
}
