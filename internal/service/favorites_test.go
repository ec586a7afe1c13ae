// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
)

func TestFavoritesOfPreservesStoreOrder(t *testing.T) {
	articles := []model.Content{
		{ID: "a", Slug: "a"},
		{ID: "b", Slug: "b"},
		{ID: "c", Slug: "c"},
		{ID: "d", Slug: "d"},
	}
	// Favorited most-recent-first; the aggregate must follow article order.
	profile := &model.Profile{UserID: "u1", Favorites: []string{"d", "b"}}

	got := FavoritesOf(profile, articles)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "d" {
		t.Fatalf("got %v, want [b d]", got)
	}
}

func TestFavoritesOfNilVersusEmpty(t *testing.T) {
	articles := []model.Content{{ID: "a"}}

	if got := FavoritesOf(nil, articles); got != nil {
		t.Errorf("nil profile: got %v, want nil", got)
	}
	if got := FavoritesOf(&model.Profile{UserID: "u1"}, articles); got != nil {
		t.Errorf("unrecorded favorites: got %v, want nil", got)
	}

	confirmed := &model.Profile{UserID: "u1", Favorites: []string{}}
	got := FavoritesOf(confirmed, articles)
	if got == nil || len(got) != 0 {
		t.Errorf("confirmed-zero favorites: got %v, want empty non-nil slice", got)
	}
}

func TestFavoritesOfSkipsDanglingIDs(t *testing.T) {
	profile := &model.Profile{UserID: "u1", Favorites: []string{"gone", "a"}}
	articles := []model.Content{{ID: "a"}}

	got := FavoritesOf(profile, articles)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("got %v, want only the surviving article", got)
	}
}

func TestEnsureCreatesProfileOnce(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewProfileService(st, testLogger())
	ctx := context.Background()

	if _, err := svc.Get(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound before first use", err)
	}

	first, err := svc.Ensure(ctx, "u1")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if first.Favorites == nil {
		t.Error("a fresh profile should have confirmed-zero favorites")
	}

	second, err := svc.Ensure(ctx, "u1")
	if err != nil {
		t.Fatalf("Ensure (again): %v", err)
	}
	// BSON stores times at millisecond precision.
	if d := first.CreatedAt.Sub(second.CreatedAt); d < 0 || d >= time.Millisecond {
		t.Errorf("second Ensure changed CreatedAt by %v; it must not recreate the profile", d)
	}
}

func TestToggleFavorite(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewProfileService(st, testLogger())
	ctx := context.Background()

	p, err := svc.ToggleFavorite(ctx, "u1", "art-1")
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if !p.IsFavorite("art-1") {
		t.Fatal("article should be favorited after first toggle")
	}

	p, err = svc.ToggleFavorite(ctx, "u1", "art-2")
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if len(p.Favorites) != 2 {
		t.Fatalf("favorites = %v, want two entries", p.Favorites)
	}

	p, err = svc.ToggleFavorite(ctx, "u1", "art-1")
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if p.IsFavorite("art-1") {
		t.Error("second toggle should remove the favorite")
	}
	if len(p.Favorites) != 1 || p.Favorites[0] != "art-2" {
		t.Errorf("favorites = %v, want [art-2]", p.Favorites)
	}

	// Round-trip: the persisted profile reflects the toggles.
	stored, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored.Favorites) != 1 || stored.Favorites[0] != "art-2" {
		t.Errorf("stored favorites = %v, want [art-2]", stored.Favorites)
	}
}

func TestSubmitSuggestion(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewProfileService(st, testLogger())
	ctx := context.Background()

	p, err := svc.SubmitSuggestion(ctx, "u1", model.Suggestion{
		Title:    "Deserts of the Maghreb",
		Language: "ar",
		Category: "travel",
	})
	if err != nil {
		t.Fatalf("SubmitSuggestion: %v", err)
	}
	if len(p.SuggestedArticles) != 1 {
		t.Fatalf("suggestions = %v, want one entry", p.SuggestedArticles)
	}
	s := p.SuggestedArticles[0]
	if s.ID == "" || s.SubmittedAt.IsZero() {
		t.Errorf("suggestion should get an id and timestamp, got %+v", s)
	}
}

func TestSetPreferredLanguage(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewProfileService(st, testLogger())
	ctx := context.Background()

	if err := svc.SetPreferredLanguage(ctx, "u1", "ar"); err != nil {
		t.Fatalf("SetPreferredLanguage: %v", err)
	}
	p, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.PreferredLanguage != "ar" {
		t.Errorf("preferred language = %q, want %q", p.PreferredLanguage, "ar")
	}
}
