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

	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/resolver"
	"github.com/admitra/admitra/internal/validation"
)

// handleResolve resolves one free-text query.
//
// @Summary  Resolve an entity
// @Param    q         query string true  "free-text query"
// @Param    type      query string true  "college|course|cutoff|region"
// @Param    threshold query number false "fuzzy threshold override (0,1)"
// @Param    no_cache  query bool   false "bypass the resolution cache"
// @Param    suggestions query bool false "attach near-miss suggestions"
// @Router   /api/v1/resolve [get]
func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	query := r.URL.Query().Get("q")
	if query == "" {
		badRequest(w, r, "q is required")
		return
	}
	kind, err := models.ParseEntityKind(r.URL.Query().Get("type"))
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	opts := resolver.DefaultOptions()
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil || t <= 0 || t >= 1 {
			badRequest(w, r, "threshold must be a number in (0, 1)")
			return
		}
		opts.FuzzyThreshold = t
	}
	if r.URL.Query().Get("no_cache") == "true" {
		opts.UseCache = false
	}
	if r.URL.Query().Get("suggestions") == "true" {
		opts.Suggestions = true
	}

	result, err := h.resolver.Resolve(r.Context(), query, kind, opts)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if !result.Resolved() {
		respondError(w, r, http.StatusNotFound, &models.APIError{
			Code:    models.ErrCodeNotFound,
			Message: "no entity matched the query",
		}, result)
		return
	}
	respondJSON(w, r, http.StatusOK, result, started, false)
}

// handleResolveBatch resolves up to 100 queries in one call.
//
// @Summary  Resolve a batch of queries
// @Accept   json
// @Router   /api/v1/resolve/batch [post]
func (h *Handler) handleResolveBatch(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.BatchResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	if apiErr := validation.Struct(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	kind, err := models.ParseEntityKind(req.Type)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	opts := resolver.DefaultOptions()
	if req.Options != nil {
		if req.Options.FuzzyThreshold != nil {
			opts.FuzzyThreshold = *req.Options.FuzzyThreshold
		}
		if req.Options.UseCache != nil {
			opts.UseCache = *req.Options.UseCache
		}
		opts.Suggestions = req.Options.Suggestions
	}

	results, err := h.resolver.ResolveBatch(r.Context(), req.Queries, kind, opts)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, results, started, false)
}
