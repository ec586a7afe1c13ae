// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/pentalingo/portal-go/internal/middleware"
	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/service"
	"github.com/pentalingo/portal-go/internal/store"
)

// profileHarness serves the profile endpoints with an injected user.
type profileHarness struct {
	store  *store.MemoryStore
	router chi.Router
	user   model.User
}

func newProfileHarness(t *testing.T) *profileHarness {
	t.Helper()
	st := store.NewMemoryStore()
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	logger := testLogger()
	profiles := service.NewProfileService(st, logger)
	h := NewProfileHandler(st, profiles, scs.New(), logger)

	r := chi.NewRouter()
	r.Get(RouteProfile, h.Profile)
	r.Get(RouteFavorites, h.Favorites)
	r.Post(RouteFavorites+"/{id}", h.ToggleFavorite)
	r.Get(RouteSuggestions, h.Suggestions)
	r.Post(RouteSuggestions, h.SubmitSuggestion)

	return &profileHarness{
		store:  st,
		router: r,
		user:   model.User{ID: "user-1", Email: "a@b.com", Name: "A"},
	}
}

func (h *profileHarness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req = withLang(withUser(req, h.user), "en")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *profileHarness) seedArticle(t *testing.T, slug string) string {
	t.Helper()
	id, err := h.store.Put(context.Background(), model.CollectionArticles, "", model.Content{
		Slug:               slug,
		AvailableLanguages: []string{"en"},
		Translations:       map[string]model.Translation{"en": {Title: "Article " + slug}},
		CreatedAt:          time.Now(),
	})
	if err != nil {
		t.Fatalf("seeding article: %v", err)
	}
	return id
}

func TestProfileEnsuredOnFirstAccess(t *testing.T) {
	h := newProfileHarness(t)

	rec := h.do(t, http.MethodGet, RouteProfile, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data model.Profile `json:"data"`
	}
	decodeBody(t, rec, &resp)
	if resp.Data.UserID != "user-1" {
		t.Errorf("user_id = %q", resp.Data.UserID)
	}
	if resp.Data.Favorites == nil || len(resp.Data.Favorites) != 0 {
		t.Errorf("fresh favorites = %#v, want confirmed-empty", resp.Data.Favorites)
	}
}

func TestFavoritesEmptyIsNotNull(t *testing.T) {
	h := newProfileHarness(t)

	rec := h.do(t, http.MethodGet, RouteFavorites, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	// A profile exists after Ensure, so the confirmed-zero case serializes
	// as [] rather than null.
	var raw struct {
		Data struct {
			Favorites json.RawMessage `json:"favorites"`
		} `json:"data"`
	}
	decodeBody(t, rec, &raw)
	if string(raw.Data.Favorites) == "null" {
		t.Fatal("confirmed-zero favorites serialized as null")
	}
}

func TestToggleAndListFavoritesInStoreOrder(t *testing.T) {
	h := newProfileHarness(t)
	idA := h.seedArticle(t, "alpha")
	idB := h.seedArticle(t, "beta")
	idC := h.seedArticle(t, "gamma")

	// Favorite in reverse order; the listing must follow store order, not
	// toggle order.
	for _, id := range []string{idC, idA} {
		rec := h.do(t, http.MethodPost, RouteFavorites+"/"+id, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("toggle status = %d", rec.Code)
		}
	}
	_ = idB

	rec := h.do(t, http.MethodGet, RouteFavorites, "")
	var resp struct {
		Data struct {
			Favorites []ArticleSummary `json:"favorites"`
		} `json:"data"`
	}
	decodeBody(t, rec, &resp)

	if len(resp.Data.Favorites) != 2 {
		t.Fatalf("got %d favorites, want 2", len(resp.Data.Favorites))
	}
	if resp.Data.Favorites[0].ID != idA || resp.Data.Favorites[1].ID != idC {
		t.Errorf("favorites order = [%s %s], want store order [%s %s]",
			resp.Data.Favorites[0].ID, resp.Data.Favorites[1].ID, idA, idC)
	}
}

func TestToggleFavoriteTwiceRemoves(t *testing.T) {
	h := newProfileHarness(t)
	id := h.seedArticle(t, "alpha")

	first := h.do(t, http.MethodPost, RouteFavorites+"/"+id, "")
	var resp struct {
		Data struct {
			Favorited bool `json:"favorited"`
		} `json:"data"`
	}
	decodeBody(t, first, &resp)
	if !resp.Data.Favorited {
		t.Fatal("first toggle should favorite")
	}

	second := h.do(t, http.MethodPost, RouteFavorites+"/"+id, "")
	decodeBody(t, second, &resp)
	if resp.Data.Favorited {
		t.Fatal("second toggle should unfavorite")
	}
}

func TestSubmitSuggestion(t *testing.T) {
	h := newProfileHarness(t)

	rec := h.do(t, http.MethodPost, RouteSuggestions,
		`{"title":"Tidal Power","summary":"Energy from the sea","language":"en","category":"science"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data model.Suggestion `json:"data"`
	}
	decodeBody(t, rec, &resp)
	if resp.Data.ID == "" {
		t.Error("expected assigned suggestion id")
	}
	if resp.Data.SubmittedAt.IsZero() {
		t.Error("expected submission timestamp")
	}

	list := h.do(t, http.MethodGet, RouteSuggestions, "")
	var listResp struct {
		Data []model.Suggestion `json:"data"`
		Meta *Meta              `json:"meta"`
	}
	decodeBody(t, list, &listResp)
	if len(listResp.Data) != 1 || listResp.Data[0].Title != "Tidal Power" {
		t.Errorf("suggestions = %+v", listResp.Data)
	}
}

func TestSubmitSuggestionValidation(t *testing.T) {
	h := newProfileHarness(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{"title":"  ","language":"en"}`, "title"},
		{"bad language", `{"title":"X","language":"xx"}`, "language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, RouteSuggestions, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rec.Code)
			}
			if _, ok := decodeError(t, rec).Details[tt.field]; !ok {
				t.Errorf("expected a problem for %q", tt.field)
			}
		})
	}
}

// TestGatedRoutesServedWithLanguagePrefix wires the profile routes behind
// the full session, auth, and language middleware chain the way the server
// mounts them, and follows the canonical redirect end to end.
func TestGatedRoutesServedWithLanguagePrefix(t *testing.T) {
	st := store.NewMemoryStore()
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	logger := testLogger()
	sm := scs.New()
	profiles := service.NewProfileService(st, logger)
	h := NewProfileHandler(st, profiles, sm, logger)

	user := model.User{ID: "user-1", Email: "a@b.com", Name: "A"}
	if _, err := st.Put(context.Background(), model.CollectionUsers, user.ID, user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	r := chi.NewRouter()
	// Establishes a signed-in session so the gated group is reachable.
	r.Get("/signin", func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), middleware.SessionKeyUserID, user.ID)
		w.WriteHeader(http.StatusNoContent)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(sm))
		r.Use(middleware.LoadUser(sm, st))
		r.Use(middleware.Language(sm, testCatalog(t)))

		for _, prefix := range []string{"", "/{lang:[a-z]{2}}"} {
			r.Get(prefix+RouteProfile, h.Profile)
			r.Get(prefix+RouteFavorites, h.Favorites)
			r.Get(prefix+RouteSuggestions, h.Suggestions)
		}
	})
	server := sm.LoadAndSave(r)

	get := func(t *testing.T, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		return rec
	}

	rec := get(t, "/signin", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("signin status = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// Bare /favorites canonicalizes to the prefixed form...
	rec = get(t, RouteFavorites, cookies)
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("/favorites status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/en/favorites" {
		t.Fatalf("Location = %q, want /en/favorites", loc)
	}

	// ...and the redirect target is actually served.
	for _, path := range []string{"/en/favorites", "/en/suggestions", "/en/profile", RouteProfile} {
		rec = get(t, path, cookies)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}

	// Anonymous requests still bounce to the login page.
	rec = get(t, RouteFavorites, nil)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("anonymous /favorites status = %d, want 303", rec.Code)
	}
}
