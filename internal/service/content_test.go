// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedContent(t *testing.T, st store.Store, entities ...*model.Content) {
	t.Helper()
	for _, e := range entities {
		id, err := st.Put(context.Background(), model.CollectionArticles, e.ID, e)
		if err != nil {
			t.Fatalf("seed %s: %v", e.Slug, err)
		}
		e.ID = id
	}
}

func articleAt(slug, lang, title string, created time.Time) *model.Content {
	return &model.Content{
		ID:                 slug,
		Slug:               slug,
		AvailableLanguages: []string{lang},
		Translations:       map[string]model.Translation{lang: {Title: title}},
		CreatedAt:          created,
	}
}

func TestQueryDualCategoryMatch(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewContentService(st, testLogger())

	topLevel := &model.Content{
		ID:                 "a",
		Slug:               "a",
		Category:           "science",
		AvailableLanguages: []string{"en"},
		Translations:       map[string]model.Translation{"en": {Title: "A"}},
	}
	perLanguage := &model.Content{
		ID:                 "b",
		Slug:               "b",
		AvailableLanguages: []string{"fr"},
		Translations:       map[string]model.Translation{"fr": {Title: "B", Category: "science"}},
	}
	unrelated := &model.Content{
		ID:                 "c",
		Slug:               "c",
		Category:           "travel",
		AvailableLanguages: []string{"en"},
		Translations:       map[string]model.Translation{"en": {Title: "C"}},
	}
	seedContent(t, st, topLevel, perLanguage, unrelated)

	got, err := svc.Query(context.Background(), model.CollectionArticles, Filter{Category: "science"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entities, want 2", len(got))
	}
	for _, e := range got {
		if e.Slug == "c" {
			t.Errorf("entity %q should not match category science", e.Slug)
		}
	}
}

func TestQueryDraftPredicate(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewContentService(st, testLogger())

	published := articleAt("live", "en", "Live", time.Time{})
	draft := articleAt("wip", "en", "WIP", time.Time{})
	draft.Draft = true
	seedContent(t, st, published, draft)

	wantPublished := false
	got, err := svc.Query(context.Background(), model.CollectionArticles, Filter{Draft: &wantPublished})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "live" {
		t.Fatalf("got %v, want only the published entity", got)
	}
}

func TestQueryLanguageFilter(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewContentService(st, testLogger())

	seedContent(t, st,
		articleAt("en-only", "en", "English", time.Time{}),
		articleAt("de-only", "de", "Deutsch", time.Time{}),
	)

	got, err := svc.Query(context.Background(), model.CollectionArticles, Filter{Language: "de"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "de-only" {
		t.Fatalf("got %v, want only de-only", got)
	}
}

func TestSortByNewest(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entities := []model.Content{
		{Slug: "old", CreatedAt: base},
		{Slug: "undated-first"},
		{Slug: "new", CreatedAt: base.Add(48 * time.Hour)},
		{Slug: "undated-second"},
	}

	SortByNewest(entities)

	want := []string{"new", "old", "undated-first", "undated-second"}
	for i, slug := range want {
		if entities[i].Slug != slug {
			t.Errorf("position %d = %q, want %q", i, entities[i].Slug, slug)
		}
	}
}

func TestBySlugNotFound(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewContentService(st, testLogger())

	_, err := svc.BySlug(context.Background(), model.CollectionArticles, "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewContentService(st, testLogger())

	_, err := svc.Save(context.Background(), model.CollectionArticles, &model.Content{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want *ValidationError", err)
	}
	if len(verr.Fields) == 0 {
		t.Error("validation error with no fields")
	}
}

func TestSaveAssignsID(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewContentService(st, testLogger())

	entity := articleAt("", "en", "Fresh", time.Now())
	entity.ID = ""
	entity.Slug = "fresh"

	id, err := svc.Save(context.Background(), model.CollectionArticles, entity)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" || entity.ID != id {
		t.Fatalf("id = %q, entity.ID = %q; want matching non-empty ids", id, entity.ID)
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html, err := RenderMarkdown("# Title\n\n<script>alert(1)</script>\n\nbody text")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("rendered HTML contains script tag: %s", html)
	}
	if !strings.Contains(html, "body text") {
		t.Errorf("rendered HTML lost body text: %s", html)
	}
}
