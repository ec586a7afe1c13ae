// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for user data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyRequestPath ContextKey = "request_path"
)

// SessionKeyUserID is the session key holding the authenticated user's id.
const SessionKeyUserID = "user_id"

// RequireUser creates middleware that requires authentication. Anonymous
// requests are redirected to the login page; the original path is not
// preserved.
func RequireUser(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetString(r.Context(), SessionKeyUserID) == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that loads the current user into the request
// context. A stale session pointing at a deleted user is destroyed.
// Use after RequireUser.
func LoadUser(sm *scs.SessionManager, st store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetString(r.Context(), SessionKeyUserID)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			var user model.User
			if err := st.Get(r.Context(), model.CollectionUsers, userID, &user); err != nil {
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalLoadUser loads the current user into context when a session
// exists, and passes anonymous requests through untouched.
func OptionalLoadUser(sm *scs.SessionManager, st store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetString(r.Context(), SessionKeyUserID)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			var user model.User
			if err := st.Get(r.Context(), model.CollectionUsers, userID, &user); err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin creates middleware that requires an administrator. Use after
// LoadUser.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !user.IsAdmin {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the current user from the request context. Returns nil
// for anonymous requests.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's id, or "" if anonymous.
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}

// RequestPath stores the request path in the context for the logging
// handler.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
