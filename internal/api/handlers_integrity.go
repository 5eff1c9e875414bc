// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/admitra/admitra/internal/integrity"
	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/validation"
)

// handleIntegrityCheck runs the integrity sweeps.
//
// @Summary  Check catalog integrity
// @Param    sample_size query int false "rows per sweep"
// @Router   /api/v1/integrity/check [get]
func (h *Handler) handleIntegrityCheck(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	opts := integrity.Options{}
	if raw := r.URL.Query().Get("sample_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(w, r, "sample_size must be a positive integer")
			return
		}
		opts.SampleSize = n
	}

	report, err := h.integrity.Check(r.Context(), opts)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, report, started, false)
}

// handleIntegrityRepair applies eligible fixes from a prior check.
//
// @Summary  Repair integrity issues
// @Accept   json
// @Router   /api/v1/integrity/repair [post]
func (h *Handler) handleIntegrityRepair(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.RepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	if apiErr := validation.Struct(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	result, err := h.integrity.Repair(r.Context(), req.Issues, req.DryRun)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result, started, false)
}
