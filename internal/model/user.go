// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// User collections in the document store.
const (
	CollectionUsers    = "users"
	CollectionProfiles = "profiles"
)

// User is an authenticated identity. The identity provider is realized
// locally: credentials live in the users collection, the session carries the
// user id.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	IsAdmin      bool      `bson:"isAdmin" json:"is_admin"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
}

// Suggestion is a pending user-submitted article draft attached to a profile.
type Suggestion struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Summary     string    `bson:"summary,omitempty" json:"summary,omitempty"`
	Language    string    `bson:"language" json:"language"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	Subcategory string    `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	SubmittedAt time.Time `bson:"submittedAt" json:"submitted_at"`
}

// Profile holds per-user portal state. Created on first authentication,
// mutated by favorite toggles and suggestion submissions, never hard-deleted.
//
// Favorites is nil when the profile has never been loaded or written, and an
// empty non-nil slice once the user has confirmed-zero favorites; callers
// rely on that distinction to tell "loading" from "empty".
type Profile struct {
	UserID            string       `bson:"_id,omitempty" json:"user_id"`
	Favorites         []string     `bson:"favorites" json:"favorites"`
	SuggestedArticles []Suggestion `bson:"suggestedArticles,omitempty" json:"suggested_articles,omitempty"`
	PreferredLanguage string       `bson:"preferredLanguage,omitempty" json:"preferred_language,omitempty"`
	CreatedAt         time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt         time.Time    `bson:"updatedAt" json:"updated_at"`
}

// IsFavorite reports whether the content id is in the profile's favorites.
func (p *Profile) IsFavorite(contentID string) bool {
	for _, id := range p.Favorites {
		if id == contentID {
			return true
		}
	}
	return false
}
