// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handler groups for the JSON API.
// Each group wraps the stores it needs; all responses are JSON.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"shopcore/internal/store"
)

// maxBodyBytes caps JSON request bodies. Image uploads have their own
// larger limit.
const maxBodyBytes = 1 << 20

// respond writes a JSON response with the given status.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError writes a JSON error body {"message": ...}, matching the
// shape the middleware layer uses for auth failures.
func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"message": message})
}

// respondFieldErrors writes a 400 with the accumulated validation
// messages.
func respondFieldErrors(w http.ResponseWriter, errs []string) {
	respond(w, http.StatusBadRequest, map[string]any{
		"message": "Validation failed",
		"details": errs,
	})
}

// respondStoreError maps store sentinel errors to HTTP statuses. The
// store's message is safe to surface; anything unclassified is logged
// and reported as a 500.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalid):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("store operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// decodeJSON parses a JSON request body into dst, rejecting unknown
// fields and oversized bodies. Returns false after writing the error
// response when the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	// An empty body decodes to the zero value; required-field validation
	// happens downstream.
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// decodeJSONInto parses the body into dst and also into probe, a raw
// map that lets callers distinguish a field explicitly set to null from
// a field left out of the body entirely.
func decodeJSONInto(w http.ResponseWriter, r *http.Request, dst any, probe *map[string]any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := json.Unmarshal(body, probe); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
