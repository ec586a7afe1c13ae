// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/pentalingo/portal-go/internal/middleware"
	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/service"
	"github.com/pentalingo/portal-go/internal/store"
)

// ProfileHandler serves the session-gated profile endpoints: profile view,
// favorites and article suggestions.
type ProfileHandler struct {
	store    store.Store
	profiles *service.ProfileService
	sm       *scs.SessionManager
	logger   *slog.Logger
}

// NewProfileHandler creates a profile handler.
func NewProfileHandler(st store.Store, profiles *service.ProfileService, sm *scs.SessionManager,
	logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		store:    st,
		profiles: profiles,
		sm:       sm,
		logger:   logger,
	}
}

// Profile handles GET /profile.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	profile, err := h.profiles.Ensure(r.Context(), userID)
	if err != nil {
		h.logger.Error(LogProfileLoadFailed, "user_id", userID, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}
	WriteSuccess(w, profile, nil)
}

// SetLanguageRequest is the PUT /profile/language payload.
type SetLanguageRequest struct {
	Language string `json:"language"`
}

// SetLanguage handles PUT /profile/language: persists the preference on the
// profile and in the session so unprefixed paths resolve to it.
func (h *ProfileHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req SetLanguageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !model.IsSupportedLanguage(req.Language) {
		WriteValidationError(w, "Validation failed", map[string]string{
			"language": "Unsupported language code",
		})
		return
	}

	userID := middleware.GetUserID(r)
	if err := h.profiles.SetPreferredLanguage(r.Context(), userID, req.Language); err != nil {
		h.logger.Error("language preference save failed", "user_id", userID, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}
	h.sm.Put(r.Context(), middleware.SessionKeyLanguage, req.Language)
	WriteSuccess(w, map[string]string{"language": req.Language}, nil)
}

// Favorites handles GET /favorites — the user's favorite articles in store
// order, resolved into the active language.
//
// The payload distinguishes a never-written favorites list (null) from a
// confirmed-empty one ([]).
func (h *ProfileHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguageCode(r)
	userID := middleware.GetUserID(r)

	profile, err := h.profiles.Ensure(r.Context(), userID)
	if err != nil {
		h.logger.Error(LogProfileLoadFailed, "user_id", userID, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}

	// Natural store order, not newest-first: favorites keep the order the
	// store returns articles in.
	published := false
	var articles []model.Content
	err = h.store.Query(r.Context(), model.CollectionArticles,
		[]store.Predicate{{Field: "draft", Value: published}}, &articles)
	if err != nil {
		h.logger.Error(LogContentFetchFailed, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}

	favorites := service.FavoritesOf(profile, articles)

	type favoritesView struct {
		Favorites []ArticleSummary `json:"favorites"`
	}
	var view favoritesView
	if favorites != nil {
		view.Favorites = Summarize(favorites, lang)
	}
	WriteSuccess(w, view, &Meta{Total: len(view.Favorites), Language: lang})
}

// ToggleFavorite handles POST /favorites/{id}: adds or removes one article
// id. The write is an unconditional profile upsert.
func (h *ProfileHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "id")
	if articleID == "" {
		WriteBadRequest(w, "Missing article id", nil)
		return
	}

	userID := middleware.GetUserID(r)
	profile, err := h.profiles.ToggleFavorite(r.Context(), userID, articleID)
	if err != nil {
		h.logger.Error("favorite toggle failed", "user_id", userID, "article_id", articleID, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}

	WriteSuccess(w, map[string]any{
		"favorites": profile.Favorites,
		"favorited": profile.IsFavorite(articleID),
	}, nil)
}

// Suggestions handles GET /suggestions.
func (h *ProfileHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	profile, err := h.profiles.Ensure(r.Context(), userID)
	if err != nil {
		h.logger.Error(LogProfileLoadFailed, "user_id", userID, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}

	suggestions := profile.SuggestedArticles
	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}
	WriteSuccess(w, suggestions, &Meta{Total: len(suggestions)})
}

// SuggestionRequest is the POST /suggestions payload.
type SuggestionRequest struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Language    string `json:"language"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// SubmitSuggestion handles POST /suggestions.
func (h *ProfileHandler) SubmitSuggestion(w http.ResponseWriter, r *http.Request) {
	var req SuggestionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	problems := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		problems["title"] = "Title is required"
	}
	if !model.IsSupportedLanguage(req.Language) {
		problems["language"] = "Unsupported language code"
	}
	if len(problems) > 0 {
		WriteValidationError(w, "Validation failed", problems)
		return
	}

	userID := middleware.GetUserID(r)
	profile, err := h.profiles.SubmitSuggestion(r.Context(), userID, model.Suggestion{
		Title:       strings.TrimSpace(req.Title),
		Summary:     strings.TrimSpace(req.Summary),
		Language:    req.Language,
		Category:    req.Category,
		Subcategory: req.Subcategory,
	})
	if err != nil {
		h.logger.Error("suggestion submit failed", "user_id", userID, "error", err)
		WriteFetchFailure(w, "Service temporarily unavailable")
		return
	}

	WriteCreated(w, profile.SuggestedArticles[len(profile.SuggestedArticles)-1])
}
