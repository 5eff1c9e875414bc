// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package supervisor owns the suture process tree. The root supervisor
// restarts crashed services with backoff; supervisor events are routed
// into the structured log.
package supervisor

import (
	"context"
	"time"

	"github.com/thejerf/sutureslog"
	"github.com/thejerf/suture/v4"

	"github.com/admitra/admitra/internal/logging"
)

// Tree is the root supervisor plus its API layer.
type Tree struct {
	root *suture.Supervisor
	api  *suture.Supervisor
}

// NewTree builds the two-level tree: root supervises the api layer, which
// supervises the HTTP-facing services.
func NewTree() *Tree {
	hook := (&sutureslog.Handler{Logger: logging.NewSlogLogger()}).MustHook()

	root := suture.New("admitra", suture.Spec{
		EventHook:        hook,
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
	})
	api := suture.New("api", suture.Spec{
		EventHook: hook,
	})
	root.Add(api)

	return &Tree{root: root, api: api}
}

// AddAPIService registers a service under the api layer.
func (t *Tree) AddAPIService(s suture.Service) {
	t.api.Add(s)
}

// Serve runs the tree until the context is cancelled.
func (t *Tree) Serve(ctx context.Context) error {
	logging.Info().Msg("supervision tree starting")
	return t.root.Serve(ctx)
}
