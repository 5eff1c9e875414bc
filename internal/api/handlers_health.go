// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package api

import (
	"net/http"
	"time"

	"github.com/admitra/admitra/internal/models"
)

// handleHealth reports overall service health including cache stats.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	storeStatus := "up"
	status := "healthy"
	code := http.StatusOK
	if err := h.pinger.Ping(r.Context()); err != nil {
		storeStatus = "down"
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	cs := h.resolver.CacheStats()
	payload := models.HealthStatus{
		Status:        status,
		Version:       Version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Store:         storeStatus,
		Cache: models.CacheStats{
			Backend:   h.cacheBackend,
			Entries:   cs.Entries,
			Hits:      cs.Hits,
			Misses:    cs.Misses,
			Evictions: cs.Evictions,
		},
	}
	respondJSON(w, r, code, payload, started, false)
}

// handleHealthLive is the liveness probe: the process answers, it lives.
func (h *Handler) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "alive"}, time.Now(), false)
}

// handleHealthReady is the readiness probe: ready only with a reachable
// store.
func (h *Handler) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	if err := h.pinger.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeStoreUnavailable,
			Message: "store unreachable",
		}, nil)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"}, started, false)
}
