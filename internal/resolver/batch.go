// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package resolver

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/admitra/admitra/internal/models"
)

// MaxBatchQueries caps one batch request.
const MaxBatchQueries = 100

// ResolveBatch resolves queries independently and concurrently. The result
// map contains exactly one entry per distinct input query; a failed
// resolution is recorded on its item and never aborts the rest of the
// batch. Only context cancellation stops early.
func (r *Resolver) ResolveBatch(ctx context.Context, queries []string, kind models.EntityKind, opts Options) (map[string]models.BatchResolutionItem, error) {
	if len(queries) == 0 {
		return map[string]models.BatchResolutionItem{}, nil
	}
	if len(queries) > MaxBatchQueries {
		return nil, fmt.Errorf("batch of %d exceeds limit %d", len(queries), MaxBatchQueries)
	}

	concurrency := r.cfg.BatchConcurrency
	if concurrency < 1 {
		concurrency = 8
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if r.cfg.BatchRateLimit > 0 {
		// Fractional rates truncate to a zero burst, which would starve
		// every Wait; the burst floor keeps the limiter passable.
		burst := int(r.cfg.BatchRateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(r.cfg.BatchRateLimit), burst)
	}

	var mu sync.Mutex
	results := make(map[string]models.BatchResolutionItem, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	seen := make(map[string]bool, len(queries))
	for _, q := range queries {
		if seen[q] {
			continue
		}
		seen[q] = true
		q := q
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err // context cancelled
			}
			res, err := r.Resolve(gctx, q, kind, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[q] = models.BatchResolutionItem{Err: err.Error()}
				return nil
			}
			results[q] = models.BatchResolutionItem{Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch resolve: %w", err)
	}
	return results, nil
}
