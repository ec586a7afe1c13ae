// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the portal's HTTP handlers: the public JSON
// surface, authentication, profile endpoints and the admin console.
package handler

import (
	"encoding/json"
	"net/http"
)

// Response is the standard JSON response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries listing metadata.
type Meta struct {
	Total    int    `json:"total,omitempty"`
	Language string `json:"language,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes what went wrong. Parent, when set, is a safe route
// the client can navigate back to after a not-found.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Parent  string            `json:"parent,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response wrapped in the standard envelope.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error envelope with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 with a parent route the client can fall back to.
func WriteNotFound(w http.ResponseWriter, message, parent string) {
	WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{
		Code:    "not_found",
		Message: message,
		Parent:  parent,
	}})
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteFetchFailure writes a 502 for an unreachable document store. The
// message is the generic localized one; details never leak store internals.
func WriteFetchFailure(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, "fetch_failed", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 with per-field problems.
func WriteValidationError(w http.ResponseWriter, message string, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", message, fieldErrors)
}

// DecodeJSON decodes a request body, rejecting unknown fields. A false
// return means the error response has already been written.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}
