// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package api

import (
	"errors"
	"net/http"

	"github.com/admitra/admitra/internal/crossref"
	"github.com/admitra/admitra/internal/logging"
	"github.com/admitra/admitra/internal/models"
	"github.com/admitra/admitra/internal/resolver"
	"github.com/admitra/admitra/internal/store"
)

// respondServiceError maps engine errors onto HTTP statuses and the error
// envelope. Unknown errors become opaque 500s; details never leak.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrStoreUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeStoreUnavailable,
			Message: "catalog store is unavailable, try again later",
		}, nil)
	case errors.Is(err, store.ErrNotFound):
		respondError(w, r, http.StatusNotFound, &models.APIError{
			Code:    models.ErrCodeNotFound,
			Message: "entity not found",
		}, nil)
	case errors.Is(err, crossref.ErrInvalidQuery):
		respondError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeValidation,
			Message: "at least one filter is required",
		}, nil)
	case errors.Is(err, resolver.ErrAmbiguousInput):
		respondError(w, r, http.StatusConflict, &models.APIError{
			Code:    models.ErrCodeAmbiguousInput,
			Message: "query matches multiple entities equally well",
		}, nil)
	default:
		logging.FromContext(r.Context()).Error().Err(err).
			Str("path", r.URL.Path).Msg("unhandled service error")
		respondError(w, r, http.StatusInternalServerError, &models.APIError{
			Code:    models.ErrCodeInternal,
			Message: "internal error",
		}, nil)
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	respondError(w, r, http.StatusBadRequest, &models.APIError{
		Code:    models.ErrCodeValidation,
		Message: message,
	}, nil)
}
