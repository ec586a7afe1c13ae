// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/pentalingo/portal-go/internal/auth"
	"github.com/pentalingo/portal-go/internal/middleware"
	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/service"
	"github.com/pentalingo/portal-go/internal/store"
)

// minPasswordLength is the shortest password accepted at registration.
const minPasswordLength = 8

// AuthHandler implements the local identity provider: registration, login
// and logout over the users collection.
type AuthHandler struct {
	store      store.Store
	profiles   *service.ProfileService
	sm         *scs.SessionManager
	protection *middleware.LoginProtection
	logger     *slog.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(st store.Store, profiles *service.ProfileService, sm *scs.SessionManager,
	protection *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		store:      st,
		profiles:   profiles,
		sm:         sm,
		protection: protection,
		logger:     logger,
	}
}

// userByEmail looks up a user by email. Returns store.ErrNotFound when no
// account exists.
func (h *AuthHandler) userByEmail(r *http.Request, email string) (*model.User, error) {
	var users []model.User
	err := h.store.Query(r.Context(), model.CollectionUsers,
		[]store.Predicate{{Field: "email", Value: email}}, &users)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, store.ErrNotFound
	}
	return &users[0], nil
}

// signIn establishes the session and makes sure the profile document exists.
func (h *AuthHandler) signIn(r *http.Request, user *model.User) error {
	if err := h.sm.RenewToken(r.Context()); err != nil {
		return err
	}
	h.sm.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	if _, err := h.profiles.Ensure(r.Context(), user.ID); err != nil {
		// The profile will be ensured again on the next sign-in.
		h.logger.Warn("profile ensure failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// RegisterRequest is the POST /register payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	problems := map[string]string{}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		problems["email"] = "A valid email address is required"
	}
	if req.Name == "" {
		problems["name"] = "Name is required"
	}
	if len(req.Password) < minPasswordLength {
		problems["password"] = "Password must be at least 8 characters"
	}
	if len(problems) > 0 {
		WriteValidationError(w, "Validation failed", problems)
		return
	}

	if _, err := h.userByEmail(r, req.Email); err == nil {
		WriteValidationError(w, "Validation failed", map[string]string{
			"email": "Email is already registered",
		})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("user lookup failed", "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hashing failed", "error", err)
		WriteInternalError(w, "Registration failed")
		return
	}

	user := model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	id, err := h.store.Put(r.Context(), model.CollectionUsers, "", user)
	if err != nil {
		h.logger.Error("user creation failed", "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}
	user.ID = id

	if err := h.signIn(r, &user); err != nil {
		h.logger.Error("session setup failed", "error", err)
		WriteInternalError(w, "Registration failed")
		return
	}

	h.logger.Info("user registered", "user_id", id, "email", user.Email)
	WriteCreated(w, user)
}

// LoginRequest is the POST /login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login. Per-IP rate limiting runs in middleware;
// account lockout with exponential backoff is enforced here.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if locked, remaining := h.protection.IsAccountLocked(req.Email); locked {
		w.Header().Set("Retry-After", remaining.Round(time.Second).String())
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			"Too many failed attempts, try again later", nil)
		return
	}

	user, err := h.userByEmail(r, req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("user lookup failed", "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}

	// Verify even for unknown accounts so response timing does not reveal
	// which emails exist.
	match := false
	if user != nil {
		match, _ = auth.CheckPassword(req.Password, user.PasswordHash)
	} else {
		_, _ = auth.CheckPassword(req.Password, "")
	}

	if !match {
		h.protection.RecordFailedAttempt(req.Email)
		h.logger.Warn("failed login attempt", "email", req.Email)
		WriteUnauthorized(w, "Invalid email or password")
		return
	}

	h.protection.RecordSuccessfulLogin(req.Email)

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			user.PasswordHash = newHash
			if _, err := h.store.Put(r.Context(), model.CollectionUsers, user.ID, user); err != nil {
				h.logger.Warn("password rehash save failed", "user_id", user.ID, "error", err)
			}
		}
	}

	if err := h.signIn(r, user); err != nil {
		h.logger.Error("session setup failed", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	WriteSuccess(w, user, nil)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sm.Destroy(r.Context()); err != nil {
		h.logger.Error("session destroy failed", "error", err)
		WriteInternalError(w, "Logout failed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
