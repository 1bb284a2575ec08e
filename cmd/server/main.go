// Package main is the entry point for the verse-router server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/versekit/verse-router/internal/adapter"
	"github.com/versekit/verse-router/internal/config"
	"github.com/versekit/verse-router/internal/handler"
	"github.com/versekit/verse-router/internal/security"
	"github.com/versekit/verse-router/internal/ui"
)

func main() {
	ui.PrintBanner()

	cfg, err := config.Load(os.Getenv("VERSE_ROUTER_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("starting verse-router",
		slog.String("provider", string(cfg.Provider.Type)),
		slog.String("model", cfg.Defaults.Model),
		slog.Bool("configured", cfg.IsConfigured()),
	)

	// Provider is optional. Without one the deterministic formatter answers
	// everything locally.
	var provider adapter.CompletionProvider
	if cfg.IsConfigured() {
		provider, err = adapter.FromConfig(cfg)
		if err != nil {
			logger.Error("failed to create provider adapter", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("provider adapter ready",
			slog.String("provider", provider.Name()),
			slog.String("endpoint", cfg.Endpoint()),
		)
	} else {
		logger.Warn("no provider configured, verse transforms run locally")
	}

	completions := handler.NewCompletionHandler(cfg,
		handler.WithProvider(provider),
		handler.WithLogger(logger),
	)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	cache := handler.NewTransformCache(handler.WithCacheLogger(logger))
	router := buildRouter(completions, cache, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("address", addr))
		ui.PrintStartupInfo(cfg.Server.Host, cfg.Server.Port, string(cfg.Provider.Type), cfg.IsConfigured())

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	ui.PrintShutdown()

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
	ui.PrintGoodbye()
}

// buildRouter assembles the Gin router with the full middleware chain and
// route table. Kept separate from main so tests can exercise the real wiring.
func buildRouter(completions *handler.CompletionHandler, cache *handler.TransformCache, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	router.Use(handler.RecoveryMiddleware(logger))
	router.Use(handler.CORSMiddleware())
	router.Use(handler.StripAuthHeadersMiddleware())
	router.Use(handler.CacheMiddleware(cache, logger))
	router.Use(handler.LoggingMiddleware(logger))

	// OpenAI-compatible surface
	router.POST("/v1/chat/completions", completions.HandleChatCompletion)
	router.GET("/v1/models", completions.HandleModels)
	router.GET("/health", completions.HandleHealth)

	// Also support without /v1 prefix for compatibility
	router.POST("/chat/completions", completions.HandleChatCompletion)

	// Verse-formatting surface
	router.POST("/renumber-verses-stream", completions.HandleRenumberVersesStream)
	router.POST("/clean-verses-stream", completions.HandleCleanVersesStream)
	router.POST("/renumber-verses", completions.HandleRenumberVerses)
	router.POST("/clean-verses", completions.HandleCleanVerses)

	return router
}

// setupLogger creates a structured JSON logger with credential redaction.
func setupLogger(cfg *config.Configuration) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var base slog.Handler
	if cfg.Logging.Format == "text" {
		base = slog.NewTextHandler(os.Stdout, opts)
	} else {
		base = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(security.NewRedactingHandler(base))
	slog.SetDefault(logger)

	return logger
}
