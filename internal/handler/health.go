// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
	"github.com/pentalingo/portal-go/internal/version"
)

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	store     store.Store
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(st store.Store, v version.Info) *HealthHandler {
	return &HealthHandler{
		store:     st,
		version:   v,
		startTime: time.Now(),
	}
}

// Check is one health check result.
type Check struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// HealthStatus is the GET /health response.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// checkStore probes the document store with a read that is expected to miss.
// ErrNotFound proves the round trip worked.
func (h *HealthHandler) checkStore(r *http.Request) Check {
	start := time.Now()
	var probe model.Event
	err := h.store.Get(r.Context(), model.CollectionEvents, "health-probe", &probe)
	latency := time.Since(start)

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Check{Status: "unhealthy", Latency: latency.String()}
	}
	return Check{Status: "healthy", Latency: latency.String()}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	storeCheck := h.checkStore(r)

	status := "healthy"
	code := http.StatusOK
	if storeCheck.Status != "healthy" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	WriteJSON(w, code, HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.String(),
		Checks:    map[string]Check{"store": storeCheck},
	})
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.checkStore(r).Status != "healthy" {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
