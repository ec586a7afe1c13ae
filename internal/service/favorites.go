// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pentalingo/portal-go/internal/model"
	"github.com/pentalingo/portal-go/internal/store"
)

// ProfileService manages per-user profiles: favorites, article suggestions
// and language preference.
type ProfileService struct {
	store  store.Store
	logger *slog.Logger
}

func NewProfileService(s store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: s, logger: logger}
}

// Get returns the profile for a user, or store.ErrNotFound when none exists
// yet. A missing profile is distinct from a profile with zero favorites.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if err := s.store.Get(ctx, model.CollectionProfiles, userID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Ensure returns the user's profile, creating an empty one on first use.
func (s *ProfileService) Ensure(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	p = &model.Profile{
		UserID:    userID,
		Favorites: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.store.Put(ctx, model.CollectionProfiles, userID, p); err != nil {
		return nil, err
	}
	s.logger.Info("profile created", "user_id", userID)
	return p, nil
}

// ToggleFavorite adds the article to the user's favorites, or removes it if
// already present. Returns the updated profile.
func (s *ProfileService) ToggleFavorite(ctx context.Context, userID, articleID string) (*model.Profile, error) {
	p, err := s.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p.IsFavorite(articleID) {
		kept := make([]string, 0, len(p.Favorites))
		for _, id := range p.Favorites {
			if id != articleID {
				kept = append(kept, id)
			}
		}
		p.Favorites = kept
	} else {
		p.Favorites = append(p.Favorites, articleID)
	}
	p.UpdatedAt = time.Now().UTC()

	if _, err := s.store.Put(ctx, model.CollectionProfiles, userID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SubmitSuggestion appends a reader-suggested article to the profile.
func (s *ProfileService) SubmitSuggestion(ctx context.Context, userID string, suggestion model.Suggestion) (*model.Profile, error) {
	p, err := s.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	suggestion.ID = uuid.NewString()
	suggestion.SubmittedAt = time.Now().UTC()
	p.SuggestedArticles = append(p.SuggestedArticles, suggestion)
	p.UpdatedAt = time.Now().UTC()
	if _, err := s.store.Put(ctx, model.CollectionProfiles, userID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPreferredLanguage stores the user's language preference unconditionally.
func (s *ProfileService) SetPreferredLanguage(ctx context.Context, userID, lang string) error {
	p, err := s.Ensure(ctx, userID)
	if err != nil {
		return err
	}
	p.PreferredLanguage = lang
	p.UpdatedAt = time.Now().UTC()
	_, err = s.store.Put(ctx, model.CollectionProfiles, userID, p)
	return err
}

// FavoritesOf filters articles down to the profile's favorites, preserving
// the order the articles argument was given in, not the order the ids were
// favorited. Favorite ids with no matching article are skipped silently.
//
// A nil result means the profile has never recorded favorites; a non-nil
// empty result means the set is known and empty.
func FavoritesOf(p *model.Profile, articles []model.Content) []model.Content {
	if p == nil || p.Favorites == nil {
		return nil
	}
	out := make([]model.Content, 0, len(p.Favorites))
	for _, a := range articles {
		if p.IsFavorite(a.ID) {
			out = append(out, a)
		}
	}
	return out
}
