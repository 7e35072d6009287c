package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/andreasscherbaum/check-markdown-files/internal/api"
	"github.com/andreasscherbaum/check-markdown-files/internal/exiftool"
	"github.com/andreasscherbaum/check-markdown-files/internal/gitignore"
	"github.com/andreasscherbaum/check-markdown-files/internal/runner"
	"github.com/andreasscherbaum/check-markdown-files/internal/sse"
	"github.com/andreasscherbaum/check-markdown-files/internal/storage"
	"github.com/andreasscherbaum/check-markdown-files/internal/watch"
)

// Run starts the lint server with the given options. It serves the REST
// API, streams watcher-driven check results over SSE, and shuts down on
// SIGINT/SIGTERM or context cancellation. Server-side lint runs are
// always dry.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logger for serve mode.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Server.LogLevel,
	}))
	slog.SetDefault(logger)

	catalog := cfg.Catalog(gitignore.IsIgnored, exiftool.Read)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.Server.Address()),
		slog.Int("checks", len(catalog)),
		slog.String("log_level", cfg.Server.LogLevel.String()))

	store := storage.NewFS()
	run := runner.New(catalog)

	// SSE broker for live check results.
	broker := sse.NewBroker()
	defer broker.Close()

	// Build API service and router.
	svc := api.NewService(store, run)
	apiRouter := api.NewRouter(svc, cfg.Server.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.Server.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Re-check postings on change and stream the results.
	g.Go(func() error {
		return watch.Watch(gCtx, store, run, cfg.ContentDirs, func(res *runner.Result) {
			diags := res.Diagnostics
			if diags == nil {
				diags = []string{}
			}
			broker.Publish(sse.Event{Type: "lint.result", Data: map[string]any{
				"path":        res.Path,
				"diagnostics": diags,
				"flagged":     res.Flagged(),
				"changed":     res.Changed,
			}})
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
