// Package main is the entry point for the Info Sur server.
// It loads configuration, connects to PostgreSQL, wires the AI provider
// registry and stores, and starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infosur/internal/ai"
	"infosur/internal/config"
	"infosur/internal/database"
	"infosur/internal/generator"
	"infosur/internal/handlers"
	"infosur/internal/router"
	"infosur/internal/storage"
	"infosur/internal/store"
	"infosur/web"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Local image store for generated illustrations.
	images, err := storage.NewLocalStore(cfg.ImagesDir)
	if err != nil {
		slog.Error("failed to initialize image store", "dir", cfg.ImagesDir, "error", err)
		os.Exit(1)
	}

	// Initialize data stores. The template store seeds the bundled default
	// document on first read.
	articleStore := store.NewArticleStore(db)
	templateStore := store.NewTemplateStore(db, web.DefaultTemplateHTML)

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai": {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, ModelImage: cfg.OpenAIModelImage, BaseURL: cfg.OpenAIBaseURL},
		"gemini": {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, ModelImage: cfg.GeminiModelImage, BaseURL: cfg.GeminiBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Create handler groups with their dependencies.
	gen := generator.New(aiRegistry, images)
	apiHandlers := handlers.NewAPI(articleStore, templateStore, gen)
	publicHandlers := handlers.NewPublic(articleStore, templateStore, images)

	// Set up the Chi router with all middleware and routes.
	r := router.New(apiHandlers, publicHandlers)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate article generation, which waits on an
	// LLM call plus up to two image generations.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
