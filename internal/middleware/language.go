// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for language routing,
// authentication, and request hardening.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/pentalingo/portal-go/internal/i18n"
	"github.com/pentalingo/portal-go/internal/model"
)

// Context keys for language data.
const (
	ContextKeyLanguage     ContextKey = "language"
	ContextKeyLanguageCode ContextKey = "language_code"
)

// SessionKeyLanguage is the session key for the visitor's language preference.
const SessionKeyLanguage = "preferred_lang"

// languageExemptPrefixes are path prefixes that are never language-prefixed.
// The bare root stays unprefixed so the canonical homepage URL is stable.
var languageExemptPrefixes = []string{
	"/admin",
	"/login",
	"/logout",
	"/register",
	"/profile",
	"/api",
	"/health",
	"/sitemap.xml",
	"/robots.txt",
	"/static",
}

// SplitLanguagePath splits a request path into a language code and the
// remainder. Returns ("", path) when the first segment is not a supported
// language code. The remainder always starts with "/".
func SplitLanguagePath(path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/")
	seg, rest, _ := strings.Cut(trimmed, "/")
	if !model.IsSupportedLanguage(seg) {
		return "", path
	}
	if rest == "" {
		return seg, "/"
	}
	return seg, "/" + rest
}

// languageExempt reports whether the path is served without a language prefix.
func languageExempt(path string) bool {
	if path == "/" || path == "" {
		return true
	}
	for _, prefix := range languageExemptPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Language creates middleware that resolves the request language and
// canonicalizes the URL.
//
// Resolution order:
//  1. ?lang=XX switches the language explicitly and stores the preference
//     in the session.
//  2. A supported language prefix in the path (e.g. /ar/articles/x).
//  3. The session preference, then the Accept-Language header.
//  4. The default language.
//
// Content paths without a prefix are redirected (307) to their prefixed
// form so every localized page has exactly one canonical URL. The redirect
// is idempotent: already-prefixed paths pass through untouched.
func Language(sm *scs.SessionManager, catalog *i18n.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefix, rest := SplitLanguagePath(r.URL.Path)

			// Explicit switch via query parameter wins and is remembered.
			if queryLang := strings.ToLower(r.URL.Query().Get("lang")); queryLang != "" {
				if model.IsSupportedLanguage(queryLang) {
					sm.Put(r.Context(), SessionKeyLanguage, queryLang)
					if prefix != "" && prefix != queryLang {
						redirectLanguage(w, r, queryLang, rest)
						return
					}
					serveWithLanguage(next, w, r, queryLang)
					return
				}
			}

			if prefix != "" {
				serveWithLanguage(next, w, r, prefix)
				return
			}

			lang := preferredLanguage(r, sm, catalog)

			if languageExempt(r.URL.Path) {
				serveWithLanguage(next, w, r, lang)
				return
			}

			// Unprefixed content path: canonicalize.
			redirectLanguage(w, r, lang, r.URL.Path)
		})
	}
}

// preferredLanguage resolves the visitor's language from session preference,
// then Accept-Language, then the default.
func preferredLanguage(r *http.Request, sm *scs.SessionManager, catalog *i18n.Catalog) string {
	if lang := sm.GetString(r.Context(), SessionKeyLanguage); lang != "" && model.IsSupportedLanguage(lang) {
		return lang
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if lang := catalog.MatchLanguage(accept); lang != "" {
			return lang
		}
	}
	return model.DefaultLanguage
}

func redirectLanguage(w http.ResponseWriter, r *http.Request, lang, rest string) {
	target := "/" + lang + rest
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func serveWithLanguage(next http.Handler, w http.ResponseWriter, r *http.Request, code string) {
	lang, _ := model.LanguageByCode(code)
	ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
	ctx = context.WithValue(ctx, ContextKeyLanguageCode, code)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// GetLanguage retrieves the resolved language from the request context,
// falling back to the default language.
func GetLanguage(r *http.Request) model.Language {
	lang, ok := r.Context().Value(ContextKeyLanguage).(model.Language)
	if !ok {
		def, _ := model.LanguageByCode(model.DefaultLanguage)
		return def
	}
	return lang
}

// GetLanguageCode retrieves the resolved language code from the request
// context.
func GetLanguageCode(r *http.Request) string {
	code, ok := r.Context().Value(ContextKeyLanguageCode).(string)
	if !ok {
		return model.DefaultLanguage
	}
	return code
}
