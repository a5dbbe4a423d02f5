// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Info Sur server.
// Handlers are grouped by concern (API, public pages) and receive their
// dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"infosur/internal/generator"
	"infosur/internal/models"
	"infosur/internal/store"
)

// API groups the JSON endpoints consumed by the editor UI.
type API struct {
	articles  *store.ArticleStore
	templates *store.TemplateStore
	generator *generator.Generator
}

// NewAPI creates a new API handler group with the given dependencies.
func NewAPI(articles *store.ArticleStore, templates *store.TemplateStore, gen *generator.Generator) *API {
	return &API{articles: articles, templates: templates, generator: gen}
}

// createArticleRequest is the body of POST /api/articles.
type createArticleRequest struct {
	Prompt       string   `json:"prompt"`
	SatireLevel  *int     `json:"satire_level"`
	ImagePrompts []string `json:"image_prompts"`
}

// ArticlesCreate generates a new article from the prompt and persists it.
// Generation failures are the client's problem (bad credential, provider
// outage) and come back as 400 with a localized message, never as a 500.
func (a *API) ArticlesCreate(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo JSON inválido"})
		return
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "El prompt es obligatorio"})
		return
	}

	satireLevel := 50
	if req.SatireLevel != nil {
		satireLevel = *req.SatireLevel
	}

	imagePrompts := nonEmptyPrompts(req.ImagePrompts)

	gen, err := a.generator.GenerateArticle(r.Context(), req.Prompt, satireLevel, imagePrompts)
	if err != nil {
		slog.Error("article generation failed", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No se pudo generar el artículo"})
		return
	}

	articleData := make(map[string]any, len(gen.Modules)+2)
	for k, v := range gen.Modules {
		articleData[k] = v
	}
	articleData["temas"] = gen.Temas
	articleData["image_prompts"] = imagePrompts

	article := &models.Article{
		Prompt:      req.Prompt,
		SatireLevel: satireLevel,
		ArticleData: articleData,
		ImageData:   buildImageData(gen),
	}
	if len(imagePrompts) > 0 {
		article.ImagePromptPrimary = &imagePrompts[0]
	}
	if len(imagePrompts) > 1 {
		article.ImagePromptSecondary = &imagePrompts[1]
	}

	created, err := a.articles.Create(article)
	if err != nil {
		slog.Error("article create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        created.ID,
		"slug":      created.Slug,
		"timestamp": created.Timestamp,
	})
}

// ArticlesList returns summaries of all articles, newest first.
func (a *API) ArticlesList(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.articles.List()
	if err != nil {
		slog.Error("article list failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []models.ArticleSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// ArticlesGet returns the full article record by numeric ID.
func (a *API) ArticlesGet(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	article, err := a.articles.FindByID(id)
	if err != nil {
		slog.Error("article lookup failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if article == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// ArticlesUpdate applies a partial update to the article.
func (a *API) ArticlesUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var payload store.UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo JSON inválido"})
		return
	}

	updated, err := a.articles.Update(id, payload)
	if err != nil {
		slog.Error("article update failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if updated == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ArticlesDelete removes an article.
func (a *API) ArticlesDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	deleted, err := a.articles.Delete(id)
	if err != nil {
		slog.Error("article delete failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// TemplateGet returns the current template revision's HTML.
func (a *API) TemplateGet(w http.ResponseWriter, r *http.Request) {
	rev, err := a.templates.Latest()
	if err != nil {
		slog.Error("template lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"template": rev.HTML})
}

// templateSaveRequest is the body of PUT /api/template.
type templateSaveRequest struct {
	Template string `json:"template"`
}

// TemplateSave appends a new template revision.
func (a *API) TemplateSave(w http.ResponseWriter, r *http.Request) {
	var req templateSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Template == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Falta el template"})
		return
	}

	if _, err := a.templates.Save(req.Template); err != nil {
		slog.Error("template save failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Health reports liveness for load balancers and compose healthchecks.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// nonEmptyPrompts drops empty entries from the image prompt list so the
// first real prompt always lands in the primary slot, and a prompt after a
// blank still counts toward the two slots.
func nonEmptyPrompts(prompts []string) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// buildImageData assembles the persisted image_data mapping: the two slot
// URLs, the composite generation prompts under "captions", and denormalized
// copies of the two caption body fields.
func buildImageData(gen *generator.Generation) map[string]any {
	return map[string]any{
		"primary":           gen.ImageURLs["primary"],
		"secondary":         gen.ImageURLs["secondary"],
		"captions":          gen.ImageMetadata,
		"caption_primary":   gen.Modules["mod_pie1"],
		"caption_secondary": gen.Modules["mod_pie2"],
	}
}

// articleID parses the {id} URL parameter. A non-numeric ID is
// indistinguishable from an unknown article as far as clients care.
func articleID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
