// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/pentalingo/portal-go/internal/i18n"
)

func TestSplitLanguagePath(t *testing.T) {
	tests := []struct {
		path     string
		wantLang string
		wantRest string
	}{
		{"/ar/articles/desert-life", "ar", "/articles/desert-life"},
		{"/en/", "en", "/"},
		{"/de", "de", "/"},
		{"/articles/desert-life", "", "/articles/desert-life"},
		{"/ru/articles/x", "", "/ru/articles/x"}, // unsupported code
		{"/", "", "/"},
		{"/favicon.ico", "", "/favicon.ico"},
	}

	for _, tt := range tests {
		lang, rest := SplitLanguagePath(tt.path)
		if lang != tt.wantLang || rest != tt.wantRest {
			t.Errorf("SplitLanguagePath(%q) = (%q, %q), want (%q, %q)",
				tt.path, lang, rest, tt.wantLang, tt.wantRest)
		}
	}
}

func languageHarness(t *testing.T) http.Handler {
	t.Helper()
	catalog, err := i18n.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	sm := scs.New()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Resolved-Lang", GetLanguageCode(r))
		w.WriteHeader(http.StatusOK)
	})
	return sm.LoadAndSave(Language(sm, catalog)(inner))
}

func TestLanguageRedirectsUnprefixedContent(t *testing.T) {
	h := languageHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/articles/desert-life", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/en/articles/desert-life" {
		t.Errorf("Location = %q, want /en/articles/desert-life", loc)
	}
}

func TestLanguageRedirectIsIdempotent(t *testing.T) {
	h := languageHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/ar/articles/desert-life", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("prefixed path should pass through, got %d", rec.Code)
	}
	if lang := rec.Header().Get("X-Resolved-Lang"); lang != "ar" {
		t.Errorf("resolved language = %q, want ar", lang)
	}
}

func TestLanguageRootIsExempt(t *testing.T) {
	h := languageHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("root must never be rewritten, got %d", rec.Code)
	}
}

func TestLanguageExemptPaths(t *testing.T) {
	h := languageHarness(t)

	for _, path := range []string{"/login", "/admin/articles", "/sitemap.xml", "/robots.txt", "/health", "/profile"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200 (no language redirect)", path, rec.Code)
		}
	}
}

func TestLanguageAcceptHeaderOnRedirect(t *testing.T) {
	h := languageHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/articles/x", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/fr/articles/x" {
		t.Errorf("Location = %q, want /fr/articles/x", loc)
	}
}

func TestLanguageQuerySwitch(t *testing.T) {
	h := languageHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/de/articles/x?lang=de", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if lang := rec.Header().Get("X-Resolved-Lang"); lang != "de" {
		t.Errorf("resolved language = %q, want de", lang)
	}
}

func TestLanguageQuerySwitchRedirectsMismatchedPrefix(t *testing.T) {
	h := languageHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/en/articles/x?lang=ar", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/ar/articles/x?lang=ar" {
		t.Errorf("Location = %q, want /ar/articles/x?lang=ar", loc)
	}
}

func TestLanguageUnsupportedQueryIgnored(t *testing.T) {
	h := languageHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/en/articles/x?lang=xx", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if lang := rec.Header().Get("X-Resolved-Lang"); lang != "en" {
		t.Errorf("resolved language = %q, want en", lang)
	}
}
