// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS for local HTTP serving.
	IsDevelopment bool

	// ContentSecurityPolicy is the CSP header value. If empty, a default
	// policy is used.
	ContentSecurityPolicy string

	// HSTSMaxAge is the max-age for Strict-Transport-Security in seconds.
	// Default is one year. Zero disables HSTS.
	HSTSMaxAge int

	// HSTSIncludeSubDomains includes subdomains in the HSTS policy.
	HSTSIncludeSubDomains bool

	// FrameOptions controls X-Frame-Options. "DENY", "SAMEORIGIN", or
	// empty to disable.
	FrameOptions string

	// ReferrerPolicy controls Referrer-Policy.
	ReferrerPolicy string
}

// DefaultSecurityHeadersConfig returns defaults suited to a JSON API with a
// small set of server-rendered responses.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	return SecurityHeadersConfig{
		IsDevelopment:         isDev,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubDomains: !isDev,
		FrameOptions:          "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: buildCSP(map[string]string{
			"default-src":     "'none'",
			"frame-ancestors": "'none'",
			"base-uri":        "'self'",
		}),
	}
}

// buildCSP builds a Content-Security-Policy string from a directive map.
func buildCSP(directives map[string]string) string {
	order := []string{"default-src", "frame-ancestors", "base-uri", "form-action"}

	var parts []string
	for _, key := range order {
		if value, ok := directives[key]; ok {
			parts = append(parts, key+" "+value)
		}
	}
	return strings.Join(parts, "; ")
}

// SecurityHeaders creates middleware that sets protective response headers.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")

			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
				hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
				if cfg.HSTSIncludeSubDomains {
					hsts += "; includeSubDomains"
				}
				h.Set("Strict-Transport-Security", hsts)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// StaticCache adds Cache-Control headers for static files.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
			next.ServeHTTP(w, r)
		})
	}
}
