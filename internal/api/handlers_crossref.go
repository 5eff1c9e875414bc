// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package api

import (
	"net/http"
	"time"

	"github.com/admitra/admitra/internal/crossref"
)

// handleCrossref answers multi-entity filter queries.
//
// @Summary  Cross-reference colleges, courses, and regions
// @Param    region_id  query string false "region code"
// @Param    course_id  query string false "course id"
// @Param    college_id query string false "college id"
// @Param    stream     query string false "stream name"
// @Router   /api/v1/crossref [get]
func (h *Handler) handleCrossref(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query()

	result, err := h.crossref.Query(r.Context(), crossref.Filters{
		RegionID:  q.Get("region_id"),
		CourseID:  q.Get("course_id"),
		CollegeID: q.Get("college_id"),
		Stream:    q.Get("stream"),
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result, started, false)
}
