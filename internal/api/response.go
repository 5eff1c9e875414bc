// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package api

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/admitra/admitra/internal/logging"
	"github.com/admitra/admitra/internal/models"
)

// respondJSON writes the success envelope. GET responses get a weak FNV
// ETag; a matching If-None-Match short-circuits to 304.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, started time.Time, cached bool) {
	resp := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: &models.APIMetadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(started).Milliseconds(),
			Cached:      cached,
		},
	}
	writeEnvelope(w, r, status, &resp)
}

// respondError writes the error envelope. The result payload, when given,
// still rides in data (a resolution miss is an answer, not just an error).
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, data interface{}) {
	resp := models.APIResponse{
		Status: "error",
		Data:   data,
		Error:  apiErr,
		Metadata: &models.APIMetadata{
			Timestamp: time.Now().UTC(),
		},
	}
	writeEnvelope(w, r, status, &resp)
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, resp *models.APIResponse) {
	body, err := json.Marshal(resp)
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("response marshal failed")
		http.Error(w, `{"status":"error","error":{"code":"INTERNAL_ERROR"}}`, http.StatusInternalServerError)
		return
	}

	if r.Method == http.MethodGet && status == http.StatusOK {
		etag := computeETag(body)
		w.Header().Set("ETag", etag)
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.FromContext(r.Context()).Debug().Err(err).Msg("response write failed")
	}
}

// computeETag is a weak validator over the serialized body. Metadata
// timestamps vary per response, so hash only serves cheap same-process
// revalidation, which is all the catalog needs.
func computeETag(body []byte) string {
	h := fnv.New64a()
	h.Write(body)
	return fmt.Sprintf(`W/"%x"`, h.Sum64())
}
