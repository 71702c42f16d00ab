package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/story-player/internal/app"
	"github.com/jwebster45206/story-player/internal/config"
	"github.com/jwebster45206/story-player/internal/handlers"
	"github.com/jwebster45206/story-player/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Story Player server",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"story", cfg.StoryPath,
		"store", cfg.StoreBackend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to start", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("Error closing store", "error", err)
		}
	}()

	if err := a.Watch(ctx); err != nil {
		log.Error("Failed to watch story", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(a.Store, a.Story, log))
	mux.Handle("/v1/story", handlers.NewStoryHandler(a.Story, a.Manifest.OutcomeRules(), log))
	mux.Handle("/v1/achievements", handlers.NewAchievementsHandler(a.Store, cfg.EndingsKey, log))

	dc := a.DirectorConfig(nil)
	mux.Handle("/v1/play", handlers.NewPlayHandler(handlers.PlayConfig{
		Story:      dc.Story,
		Rules:      dc.Rules,
		Manifest:   dc.Manifest,
		Store:      dc.Store,
		EndingsKey: dc.EndingsKey,
		Notifier:   dc.Notifier,
	}, log))

	if a.Redis != nil {
		mux.Handle("/v1/events/", handlers.NewEventsHandler(a.Redis, log))
	}

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handlers.Logger(log, mux),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: websocket and SSE connections are long-lived.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
