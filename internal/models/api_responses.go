// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package models

import "time"

// APIResponse is the uniform envelope for every JSON endpoint.
type APIResponse struct {
	Status   string       `json:"status"` // "success" or "error"
	Data     interface{}  `json:"data,omitempty"`
	Metadata *APIMetadata `json:"metadata,omitempty"`
	Error    *APIError    `json:"error,omitempty"`
}

// APIMetadata carries per-request diagnostics.
type APIMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms"`
	Cached      bool      `json:"cached"`
}

// APIError is the machine-readable error payload.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// API error codes.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeAmbiguousInput   = "AMBIGUOUS_INPUT"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeRateLimited      = "RATE_LIMITED"
)

// BatchResolveRequest is the body of POST /api/v1/resolve/batch.
type BatchResolveRequest struct {
	Queries []string            `json:"queries" validate:"required,min=1,max=100,dive,min=1"`
	Type    string              `json:"type" validate:"required"`
	Options *ResolveOptionsBody `json:"options,omitempty"`
}

// ResolveOptionsBody mirrors resolver options on the wire.
type ResolveOptionsBody struct {
	FuzzyThreshold *float64 `json:"fuzzy_threshold,omitempty" validate:"omitempty,gt=0,lt=1"`
	UseCache       *bool    `json:"use_cache,omitempty"`
	Suggestions    bool     `json:"suggestions,omitempty"`
}

// RepairRequest is the body of POST /api/v1/integrity/repair.
type RepairRequest struct {
	Issues []IntegrityIssue `json:"issues" validate:"required,min=1"`
	DryRun bool             `json:"dry_run"`
}

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status        string     `json:"status"`
	Version       string     `json:"version"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	Store         string     `json:"store"`
	Cache         CacheStats `json:"cache"`
}

// CacheStats reports resolution-cache effectiveness.
type CacheStats struct {
	Backend   string `json:"backend"`
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}
