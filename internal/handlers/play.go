package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jwebster45206/story-player/internal/transport/ws"
	"github.com/jwebster45206/story-player/pkg/assets"
	"github.com/jwebster45206/story-player/pkg/game"
	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/jwebster45206/story-player/pkg/storage"
)

// PlayConfig holds what every websocket play session shares.
type PlayConfig struct {
	Story      game.GraphSource
	Rules      []outcome.Rule
	Manifest   *assets.Manifest
	Store      storage.Store
	EndingsKey string
	Notifier   game.Notifier
	AckTimeout time.Duration
}

// PlayHandler upgrades GET /v1/play to a websocket and runs one Director per
// connection until either side hangs up.
type PlayHandler struct {
	cfg      PlayConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewPlayHandler(cfg PlayConfig, logger *slog.Logger) *PlayHandler {
	return &PlayHandler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *PlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Warn("Websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	sess := ws.NewSession(conn, h.cfg.AckTimeout, h.logger)
	defer sess.Close()

	d, err := game.NewDirector(game.DirectorConfig{
		Story:      h.cfg.Story,
		Rules:      h.cfg.Rules,
		Manifest:   h.cfg.Manifest,
		Renderer:   sess,
		Store:      h.cfg.Store,
		EndingsKey: h.cfg.EndingsKey,
		Notifier:   h.cfg.Notifier,
		Logger:     h.logger.With("remote_addr", r.RemoteAddr),
	})
	if err != nil {
		h.logger.Error("Failed to create director", "error", err)
		_ = sess.SendError("internal error")
		return
	}
	log := d.Logger()
	log.Info("Play session opened")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		if err := sess.ReadPump(d.Inputs()); err != nil {
			log.Debug("Read pump stopped", "error", err)
		}
	}()

	err = d.Start(ctx)
	if err == nil {
		err = d.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ws.ErrClosed) {
		log.Error("Play session failed", "error", err)
		_ = sess.SendError(err.Error())
	}
	log.Info("Play session closed", "scene", d.Active())
}
