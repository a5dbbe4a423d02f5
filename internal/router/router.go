// Package router sets up all HTTP routes and middleware chains for the
// Info Sur server. The JSON API and the public article pages share the
// global middleware stack; article generation carries its own rate limit.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"infosur/internal/handlers"
	"infosur/internal/middleware"
	"infosur/web"
)

// creation rate limit, matching the original deployment's 10 per hour.
const (
	createLimit  = 10
	createWindow = time.Hour
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", api.Health)

	// JSON API consumed by the editor.
	r.Route("/api", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", api.ArticlesList)

			// Generation is the expensive path: one LLM call plus up to
			// two image calls per request.
			r.Group(func(r chi.Router) {
				limiter := middleware.NewRateLimiter(createLimit, createWindow)
				r.Use(limiter.Middleware)
				r.Post("/", api.ArticlesCreate)
			})

			r.Get("/{id}", api.ArticlesGet)
			r.Put("/{id}", api.ArticlesUpdate)
			r.Delete("/{id}", api.ArticlesDelete)
		})

		r.Get("/template", api.TemplateGet)
		r.Put("/template", api.TemplateSave)
	})

	// Editor UI and its embedded static assets.
	r.Get("/editor", public.Editor)
	staticFS, _ := fs.Sub(web.Static, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Stored image assets.
	r.Get("/images/{name}", public.Image)

	// Public article pages.
	r.Get("/", public.Home)
	r.Get("/{slug}", public.ArticlePage)

	return r
}
