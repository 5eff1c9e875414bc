// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/recommend"
)

// handleRecommend produces ranked recommendations for a source entity.
//
// @Summary  Recommend related entities
// @Param    type            path  string true  "source entity type"
// @Param    id              path  string true  "source entity id"
// @Param    user_id         query string false "enables personalization"
// @Param    limit           query int    false "max candidates"
// @Param    include_reasons query bool   false "attach reasons (default true)"
// @Router   /api/v1/recommend/{type}/{id} [get]
func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	kind, err := models.ParseEntityKind(chi.URLParam(r, "type"))
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	id := chi.URLParam(r, "id")

	opts := recommend.DefaultOptions()
	opts.UserID = r.URL.Query().Get("user_id")
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(w, r, "limit must be a positive integer")
			return
		}
		opts.Limit = n
	}
	if r.URL.Query().Get("include_reasons") == "false" {
		opts.IncludeReasons = false
	}

	candidates, err := h.recommend.Recommend(r.Context(), id, kind, opts)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, candidates, started, false)
}
