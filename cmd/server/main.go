// Housing Outlook - 2026 real estate dashboard server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/housing-outlook/internal/advisor"
	"github.com/ashureev/housing-outlook/internal/api"
	"github.com/ashureev/housing-outlook/internal/config"
	"github.com/ashureev/housing-outlook/internal/events"
	"github.com/ashureev/housing-outlook/internal/gateway"
	"github.com/ashureev/housing-outlook/internal/gemini"
	"github.com/ashureev/housing-outlook/internal/middleware"
	"github.com/ashureev/housing-outlook/internal/onboarding"
	"github.com/ashureev/housing-outlook/internal/session"
	"github.com/ashureev/housing-outlook/internal/store"
	"github.com/ashureev/housing-outlook/internal/validator"
	"github.com/ashureev/housing-outlook/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "model", cfg.Model)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	factory := gemini.NewFactory(cfg.Model)
	gw := gateway.New(factory, gateway.EnvResolver(cfg.DefaultAPIKey), gateway.StoreResolver(repo))
	slog.Info("AI features", "ready", gw.Ready(context.Background()))

	hub := events.NewHub(cfg.FrontendURL, cfg.IsDevelopment())
	machine := onboarding.New(validator.New(factory, cfg.KeyValidationTimeout), repo, gw, hub, cfg.KeySuccessDelay)
	adv := advisor.New(gw, cfg.GenerationTimeout)
	sessions := advisor.NewSessions(gw, cfg.GenerationTimeout)

	handler := api.NewHandler(repo, gw, machine, adv, sessions, cfg)

	origins := []string{"*"}
	if cfg.FrontendURL != "" && !cfg.IsDevelopment() {
		origins = []string{cfg.FrontendURL}
	}

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(origins))
	r.Use(session.Middleware)

	handler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/events", hub.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Generation calls run up to GenerationTimeout, so WriteTimeout must outlast them.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions.StartSweeper(ctx, cfg.ChatSessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
