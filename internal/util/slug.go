// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides slug generation and validation helpers used by the
// admin content endpoints.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a title into a URL-safe slug: accents are stripped via
// Unicode decomposition, the result is lowercased, and anything outside
// [a-z0-9-] collapses to hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, _ := transform.String(t, s)

	out = strings.ToLower(out)
	out = strings.ReplaceAll(out, " ", "-")
	out = nonSlugChars.ReplaceAllString(out, "")
	out = hyphenRuns.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// IsValidSlug reports whether s is a well-formed slug: non-empty, only
// lowercase alphanumerics and hyphens, no leading/trailing or doubled hyphens.
func IsValidSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
