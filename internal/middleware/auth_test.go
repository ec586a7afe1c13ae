// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	sm := scs.New()
	h := sm.LoadAndSave(RequireUser(sm)(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequireUserPassesAuthenticated(t *testing.T) {
	sm := scs.New()
	seed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyUserID, "u1")
		RequireUser(sm)(okHandler()).ServeHTTP(w, r)
	})
	h := sm.LoadAndSave(seed)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestLoadUserDestroysStaleSession(t *testing.T) {
	sm := scs.New()
	st := store.NewMemoryStore()
	seed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyUserID, "deleted-user")
		LoadUser(sm, st)(okHandler()).ServeHTTP(w, r)
	})
	h := sm.LoadAndSave(seed)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 for a stale session", rec.Code)
	}
}

func TestLoadUserPutsUserInContext(t *testing.T) {
	sm := scs.New()
	st := store.NewMemoryStore()
	if _, err := st.Put(context.Background(), model.CollectionUsers, "u1", &model.User{
		ID:    "u1",
		Email: "reader@example.com",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var got *model.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUser(r)
		w.WriteHeader(http.StatusOK)
	})
	seed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyUserID, "u1")
		LoadUser(sm, st)(inner).ServeHTTP(w, r)
	})
	h := sm.LoadAndSave(seed)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got == nil || got.Email != "reader@example.com" {
		t.Fatalf("user in context = %+v, want reader@example.com", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin()(okHandler())

	// Anonymous request redirects to login.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("anonymous: status = %d, want 303", rec.Code)
	}

	// Non-admin user gets 403.
	reader := model.User{ID: "u1"}
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, reader))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("reader: status = %d, want 403", rec.Code)
	}

	// Admin passes.
	admin := model.User{ID: "u2", IsAdmin: true}
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, admin))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}
}
