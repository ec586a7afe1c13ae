// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pentalingo/portal-go/internal/cache"
	"github.com/pentalingo/portal-go/internal/i18n"
	"github.com/pentalingo/portal-go/internal/middleware"
	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/service"
	"github.com/pentalingo/portal-go/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	catalog, err := i18n.New(testLogger())
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	return catalog
}

// fixture wires a frontend handler over an in-memory store.
type fixture struct {
	store    *store.MemoryStore
	content  *service.ContentService
	cache    *cache.ContentCache
	frontend *FrontendHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	logger := testLogger()
	content := service.NewContentService(st, logger)
	backend := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = backend.Close() })
	contentCache := cache.NewContentCache(content, backend, time.Minute)
	search := service.NewSearchService(content)
	sitemap := cache.NewSitemapCache(content, "https://portal.example.com", time.Minute)

	return &fixture{
		store:   st,
		content: content,
		cache:   contentCache,
		frontend: NewFrontendHandler(contentCache, search, sitemap, testCatalog(t),
			"https://portal.example.com", false, logger),
	}
}

// seedArticle stores an article and returns its id.
func (f *fixture) seedArticle(t *testing.T, a model.Content) string {
	t.Helper()
	id, err := f.store.Put(context.Background(), model.CollectionArticles, "", a)
	if err != nil {
		t.Fatalf("seeding article: %v", err)
	}
	return id
}

func (f *fixture) seedPage(t *testing.T, p model.Content) string {
	t.Helper()
	id, err := f.store.Put(context.Background(), model.CollectionPages, "", p)
	if err != nil {
		t.Fatalf("seeding page: %v", err)
	}
	return id
}

// withLang attaches a resolved language to the request context the way the
// language middleware does.
func withLang(r *http.Request, code string) *http.Request {
	lang, _ := model.LanguageByCode(code)
	ctx := context.WithValue(r.Context(), middleware.ContextKeyLanguage, lang)
	ctx = context.WithValue(ctx, middleware.ContextKeyLanguageCode, code)
	return r.WithContext(ctx)
}

// withUser attaches an authenticated user to the request context.
func withUser(r *http.Request, user model.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, user)
	return r.WithContext(ctx)
}

// decodeBody decodes a response body into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

// decodeError decodes an error envelope.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	return resp.Error
}

// multilingualArticle builds a published article available in en, ar and fr.
func multilingualArticle(slug string, created time.Time) model.Content {
	return model.Content{
		Slug:               slug,
		AvailableLanguages: []string{"en", "ar", "fr"},
		Translations: map[string]model.Translation{
			"en": {Title: "Desert Gardens", Summary: "Growing in arid places",
				Category: "science", Subcategory: "nature",
				Sections: []model.Section{{Title: "Irrigation", Paragraph: "Drip lines save water."}}},
			"ar": {Title: "حدائق الصحراء", Summary: "الزراعة في الأماكن القاحلة",
				Category: "science", Subcategory: "nature"},
			"fr": {Title: "Jardins du désert", Summary: "Cultiver en zones arides",
				Category: "science", Subcategory: "nature"},
		},
		CreatedAt: created,
	}
}
