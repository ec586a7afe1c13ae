// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route paths shared between the router and handlers.
const (
	RouteRoot       = "/"
	RouteCategories = "/categories"
	RouteCategory   = "/categories/{category}"
	RouteSubcat     = "/categories/{category}/{subcategory}"
	RouteCatArticle = "/categories/{category}/{subcategory}/{slug}"
	RouteArticle    = "/article/{slug}"
	RoutePage       = "/page/{slug}"
	RouteSearch     = "/search"

	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteLogout   = "/logout"

	RouteProfile         = "/profile"
	RouteProfileLanguage = "/profile/language"
	RouteFavorites       = "/favorites"
	RouteFavoritesID     = "/favorites/{id}"
	RouteSuggestions     = "/suggestions"

	RouteSitemap = "/sitemap.xml"
	RouteRobots  = "/robots.txt"
	RouteHealth  = "/health"

	RouteAdminArticles   = "/admin/articles"
	RouteAdminArticlesID = "/admin/articles/{id}"
	RouteAdminPages      = "/admin/pages"
	RouteAdminPagesID    = "/admin/pages/{id}"
	RouteAdminTaxonomy   = "/admin/taxonomy"
	RouteAdminPhoto      = "/admin/photo"
)

// Log messages reused across handlers.
const (
	LogContentFetchFailed = "content fetch failed"
	LogProfileLoadFailed  = "profile load failed"
)
