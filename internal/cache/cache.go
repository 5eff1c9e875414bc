// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package cache provides the resolution cache: a TTL'd byte-value store
// keyed by (entity kind, normalized query). Two backends exist, an
// in-memory map for single-node deployments and a BadgerDB-backed store
// when resolutions must survive restarts.
package cache

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Clock abstracts time for deterministic expiry tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Stats counts cache effectiveness since startup.
type Stats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is the resolution-cache contract. Values are opaque bytes; callers
// own serialization. Set uses the backend's default TTL; SetWithTTL
// overrides it per entry (negative results use a shorter TTL than hits).
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	SetWithTTL(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	// DeletePrefix evicts every key with the given prefix. Used by
	// Invalidate to clear all cached resolutions of one entity kind.
	DeletePrefix(prefix string) error
	Clear() error
	Stats() Stats
	Close() error
}
