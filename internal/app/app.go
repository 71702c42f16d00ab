// Package app wires configuration into the collaborators a Director needs.
// Both binaries build one App at startup.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jwebster45206/story-player/internal/assets"
	"github.com/jwebster45206/story-player/internal/config"
	"github.com/jwebster45206/story-player/internal/events"
	"github.com/jwebster45206/story-player/internal/storage"
	pkgassets "github.com/jwebster45206/story-player/pkg/assets"
	"github.com/jwebster45206/story-player/pkg/game"
	pkgstorage "github.com/jwebster45206/story-player/pkg/storage"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Story    *assets.Reloadable
	Manifest *pkgassets.Manifest
	Store    pkgstorage.Store
	Notifier game.Notifier
	Redis    *redis.Client // set when events are published

	closers []io.Closer
}

// New loads the story and manifest, opens the store, connects the event
// broadcaster when enabled and seeds the ending record.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	story, err := assets.NewReloadable(cfg.StoryPath, logger)
	if err != nil {
		return nil, err
	}
	a.Story = story
	if problems := story.Current().Validate(); len(problems) > 0 {
		logger.Warn("Story has problems", "path", cfg.StoryPath, "count", len(problems), "first", problems[0])
	}

	if a.Manifest, err = assets.LoadManifest(cfg.ManifestPath); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	a.Store, err = storage.Open(storeCtx, storage.Options{
		Backend:    cfg.StoreBackend,
		RedisURL:   cfg.RedisURL,
		SQLitePath: cfg.SQLitePath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	a.closers = append(a.closers, a.Store)

	if cfg.PublishEvents {
		if err := a.connectEvents(storeCtx); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.SeedEndings {
		if err := a.seed(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	logger.Info("Story loaded",
		"name", story.Current().Name(),
		"passages", story.Current().Len(),
		"store", cfg.StoreBackend,
		"events", cfg.PublishEvents)
	return a, nil
}

func (a *App) connectEvents(ctx context.Context) error {
	if rs, ok := a.Store.(*storage.RedisStore); ok {
		a.Redis = rs.Client()
	} else {
		rs, err := storage.NewRedisStore(a.Config.RedisURL, a.Logger)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, rs)
		if err := rs.WaitForConnection(ctx, 10, time.Second); err != nil {
			return fmt.Errorf("failed to connect event broadcaster: %w", err)
		}
		a.Redis = rs.Client()
	}
	a.Notifier = events.NewBroadcaster(a.Redis, a.Logger)
	return nil
}

func (a *App) seed(ctx context.Context) error {
	_, err := game.SeedEndings(ctx, a.Store, a.Config.EndingsKey, a.Story.Current(), a.Manifest.OutcomeRules(), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to seed endings: %w", err)
	}
	return nil
}

// Watch reloads the story on change until ctx is done. It is a no-op unless
// WATCH_STORY is set.
func (a *App) Watch(ctx context.Context) error {
	if !a.Config.WatchStory {
		return nil
	}
	w, err := assets.NewWatcher(a.Story, 0, a.Logger)
	if err != nil {
		return err
	}
	w.OnReload(func(err error) {
		if err != nil || !a.Config.SeedEndings {
			return
		}
		if err := a.seed(ctx); err != nil {
			a.Logger.Warn("Failed to seed endings after reload", "error", err)
		}
	})
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error("Story watcher stopped", "error", err)
		}
	}()
	return nil
}

// DirectorConfig returns the configuration for one session drawn by r.
func (a *App) DirectorConfig(r game.Renderer) game.DirectorConfig {
	return game.DirectorConfig{
		Story:      a.Story,
		Rules:      a.Manifest.OutcomeRules(),
		Manifest:   a.Manifest,
		Renderer:   r,
		Store:      a.Store,
		EndingsKey: a.Config.EndingsKey,
		Notifier:   a.Notifier,
		Logger:     a.Logger,
	}
}

// Close releases the store and any broadcaster connection.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
