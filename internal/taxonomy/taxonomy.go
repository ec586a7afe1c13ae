// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package taxonomy defines the portal's canonical category tree. The tree is
// a fixed two-level structure keyed by slug; slugs are identity and never
// translated, display names come from the i18n catalog. Admin screens manage
// a mirrored copy in the document store, but routing and navigation always
// use this in-memory tree.
package taxonomy

import (
	"github.com/pentalingo/portal-go/internal/i18n"
)

// CollectionTaxonomy is the document-store mirror of the tree, maintained
// for the admin console. It never feeds back into the canonical structure.
const CollectionTaxonomy = "taxonomy"

// Subcategory is a second-level taxonomy node.
type Subcategory struct {
	Slug         string `bson:"slug" json:"slug"`
	CategorySlug string `bson:"categorySlug" json:"category_slug"`
}

// Category is a first-level taxonomy node.
type Category struct {
	Slug          string        `bson:"slug" json:"slug"`
	Subcategories []Subcategory `bson:"subcategories" json:"subcategories"`
}

// tree is the canonical navigational taxonomy, in display order.
var tree = []Category{
	{Slug: "science", Subcategories: subs("science", "nature", "space", "technology")},
	{Slug: "culture", Subcategories: subs("culture", "arts", "history", "literature")},
	{Slug: "society", Subcategories: subs("society", "education", "economy")},
	{Slug: "health", Subcategories: subs("health", "nutrition", "wellness")},
	{Slug: "travel", Subcategories: subs("travel", "destinations", "guides")},
}

func subs(category string, slugs ...string) []Subcategory {
	out := make([]Subcategory, len(slugs))
	for i, s := range slugs {
		out[i] = Subcategory{Slug: s, CategorySlug: category}
	}
	return out
}

var categoriesBySlug = func() map[string]Category {
	m := make(map[string]Category, len(tree))
	for _, c := range tree {
		m[c.Slug] = c
	}
	return m
}()

// Categories returns all categories in display order.
func Categories() []Category {
	out := make([]Category, len(tree))
	copy(out, tree)
	return out
}

// CategoryBySlug looks up a category by its slug.
func CategoryBySlug(slug string) (Category, bool) {
	c, ok := categoriesBySlug[slug]
	return c, ok
}

// Subcategories returns the ordered subcategories of a category, or an empty
// slice when the category is absent or childless.
func Subcategories(categorySlug string) []Subcategory {
	c, ok := categoriesBySlug[categorySlug]
	if !ok {
		return []Subcategory{}
	}
	out := make([]Subcategory, len(c.Subcategories))
	copy(out, c.Subcategories)
	return out
}

// SubcategoryBySlug looks up a subcategory within a category.
func SubcategoryBySlug(categorySlug, slug string) (Subcategory, bool) {
	for _, s := range Subcategories(categorySlug) {
		if s.Slug == slug {
			return s, true
		}
	}
	return Subcategory{}, false
}

// View is a category projected into one language for display.
type View struct {
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	Subcategories []SubcategoryView `json:"subcategories"`
}

// SubcategoryView is a subcategory projected into one language.
type SubcategoryView struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Localize projects the full tree into the given language. Display names
// follow the catalog's fallback chain and bottom out at the key literal.
func Localize(catalog *i18n.Catalog, lang string) []View {
	views := make([]View, 0, len(tree))
	for _, c := range tree {
		v := View{
			Slug:          c.Slug,
			Name:          catalog.CategoryName(lang, c.Slug),
			Subcategories: make([]SubcategoryView, 0, len(c.Subcategories)),
		}
		for _, s := range c.Subcategories {
			v.Subcategories = append(v.Subcategories, SubcategoryView{
				Slug: s.Slug,
				Name: catalog.SubcategoryName(lang, s.Slug),
			})
		}
		views = append(views, v)
	}
	return views
}
