// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/admitra/admitra/internal/graph"
	"github.com/admitra/admitra/internal/models"
)

// handleGraph builds the relationship graph around one entity.
//
// @Summary  Build a relationship graph
// @Param    type             path  string true  "entity type"
// @Param    id               path  string true  "entity id"
// @Param    max_depth        query int    false "traversal depth, max 5"
// @Param    include_metadata query bool   false "attach node metadata (default true)"
// @Param    filter_types     query string false "comma-separated kinds to keep"
// @Router   /api/v1/graph/{type}/{id} [get]
func (h *Handler) handleGraph(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	kind, err := models.ParseEntityKind(chi.URLParam(r, "type"))
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	id := chi.URLParam(r, "id")

	opts := graph.DefaultOptions()
	if h.cfg.DefaultGraphHops > 0 {
		opts.MaxDepth = h.cfg.DefaultGraphHops
	}
	if raw := r.URL.Query().Get("max_depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			badRequest(w, r, "max_depth must be a non-negative integer")
			return
		}
		if h.cfg.MaxGraphDepth > 0 && d > h.cfg.MaxGraphDepth {
			d = h.cfg.MaxGraphDepth
		}
		opts.MaxDepth = d
	}
	if r.URL.Query().Get("include_metadata") == "false" {
		opts.IncludeMetadata = false
	}
	if raw := r.URL.Query().Get("filter_types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			k, err := models.ParseEntityKind(part)
			if err != nil {
				badRequest(w, r, err.Error())
				return
			}
			opts.FilterKinds = append(opts.FilterKinds, k)
		}
	}

	g, err := h.graph.Build(r.Context(), id, kind, opts)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, g, started, false)
}

// handleGraphPath finds the shortest relationship path between two
// entities.
//
// @Summary  Find a path between two entities
// @Param    from_id   query string true "origin id"
// @Param    from_type query string true "origin type"
// @Param    to_id     query string true "target id"
// @Param    to_type   query string true "target type"
// @Router   /api/v1/graph/path [get]
func (h *Handler) handleGraphPath(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query()

	fromKind, err := models.ParseEntityKind(q.Get("from_type"))
	if err != nil {
		badRequest(w, r, "from_type: "+err.Error())
		return
	}
	toKind, err := models.ParseEntityKind(q.Get("to_type"))
	if err != nil {
		badRequest(w, r, "to_type: "+err.Error())
		return
	}
	fromID, toID := q.Get("from_id"), q.Get("to_id")
	if fromID == "" || toID == "" {
		badRequest(w, r, "from_id and to_id are required")
		return
	}

	steps, err := h.graph.FindPath(r.Context(),
		graph.Ref{ID: fromID, Kind: fromKind},
		graph.Ref{ID: toID, Kind: toKind})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	payload := map[string]interface{}{
		"found": steps != nil,
		"path":  steps,
	}
	respondJSON(w, r, http.StatusOK, payload, started, false)
}
