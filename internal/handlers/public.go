// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"infosur/internal/renderer"
	"infosur/internal/storage"
	"infosur/internal/store"
	"infosur/web"
)

// Public groups the non-API handlers: the editor UI, stored image assets,
// and the rendered article pages.
type Public struct {
	articles  *store.ArticleStore
	templates *store.TemplateStore
	images    *storage.LocalStore
}

// NewPublic creates a new Public handler group.
func NewPublic(articles *store.ArticleStore, templates *store.TemplateStore, images *storage.LocalStore) *Public {
	return &Public{articles: articles, templates: templates, images: images}
}

// Home redirects to the editor UI.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/editor", http.StatusFound)
}

// Editor serves the embedded single-page editor UI.
func (p *Public) Editor(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(web.EditorHTML)
}

// Image serves a stored image asset. The local store enforces the extension
// allow-list and rejects anything escaping the image root.
func (p *Public) Image(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := p.images.Resolve(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// ArticlePage renders an article against the current template and serves
// the result. The path parameter is the full slug-timestamp composite.
func (p *Public) ArticlePage(w http.ResponseWriter, r *http.Request) {
	slugAndTimestamp := chi.URLParam(r, "slug")
	if !validArticlePath(slugAndTimestamp) {
		http.NotFound(w, r)
		return
	}

	article, err := p.articles.FindBySlug(slugAndTimestamp)
	if err != nil {
		slog.Error("article page lookup failed", "slug", slugAndTimestamp, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if article == nil {
		http.NotFound(w, r)
		return
	}

	rev, err := p.templates.Latest()
	if err != nil {
		slog.Error("template lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rendered, err := renderer.Render(article, rev.HTML)
	if err != nil {
		slog.Error("article render failed", "slug", slugAndTimestamp, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(rendered))
}

// validArticlePath filters out paths that can never be article slugs before
// touching the database: reserved names, API paths, and anything whose final
// 14 characters are not all digits (the timestamp suffix).
func validArticlePath(path string) bool {
	if path == "" || path == "editor" || strings.HasPrefix(path, "api/") {
		return false
	}
	if len(path) < 14 {
		return false
	}
	for _, c := range path[len(path)-14:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
