// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/admitra/admitra/internal/middleware"
)

// NewRouter assembles the chi router with the standard middleware stack.
func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match", "X-Request-ID"},
		MaxAge:         300,
	}))
	if h.cfg.RateLimitPerMin > 0 {
		r.Use(httprate.LimitByIP(h.cfg.RateLimitPerMin, time.Minute))
	}
	if h.cfg.EnableMetrics {
		r.Use(middleware.Prometheus)
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/resolve", h.handleResolve)
		r.Post("/resolve/batch", h.handleResolveBatch)

		r.Get("/graph/path", h.handleGraphPath)
		r.Get("/graph/{type}/{id}", h.handleGraph)

		r.Get("/crossref", h.handleCrossref)

		r.Get("/recommend/{type}/{id}", h.handleRecommend)

		r.Get("/integrity/check", h.handleIntegrityCheck)
		r.Post("/integrity/repair", h.handleIntegrityRepair)

		r.Get("/health", h.handleHealth)
		r.Get("/health/live", h.handleHealthLive)
		r.Get("/health/ready", h.handleHealthReady)
	})

	return r
}
