// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/pentalingo/portal-go/internal/store"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.NewSessionDB(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := store.MigrateSessionDB(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew(t *testing.T) {
	db := setupTestDB(t)

	sm := New(db, true)

	if sm == nil {
		t.Fatal("expected session manager to be non-nil")
	}
	if sm.Store == nil {
		t.Error("expected Store to be initialized")
	}
}

func TestNew_CookieSecurity(t *testing.T) {
	db := setupTestDB(t)

	dev := New(db, true)
	if dev.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}

	prod := New(db, false)
	if !prod.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
}

func TestNew_SessionSettings(t *testing.T) {
	db := setupTestDB(t)

	sm := New(db, true)

	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite = Lax, got %v", sm.Cookie.SameSite)
	}
}
