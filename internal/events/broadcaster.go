package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-player/pkg/game"
	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeSceneChanged  EventType = "scene.changed"
	EventTypeEndingReached EventType = "ending.reached"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// Broadcaster publishes play events to Redis Pub/Sub
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

var _ game.Notifier = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Channel returns the pub/sub channel of a session.
func Channel(session uuid.UUID) string {
	return fmt.Sprintf("player-events:%s", session.String())
}

// SceneChanged publishes a scene.changed event
func (b *Broadcaster) SceneChanged(ctx context.Context, session uuid.UUID, from, to game.SceneID) error {
	return b.publish(ctx, session, Event{
		Type:      EventTypeSceneChanged,
		SessionID: session.String(),
		Data: map[string]any{
			"from": from,
			"to":   to,
		},
	})
}

// EndingReached publishes an ending.reached event
func (b *Broadcaster) EndingReached(ctx context.Context, session uuid.UUID, passageName string, o outcome.Outcome) error {
	return b.publish(ctx, session, Event{
		Type:      EventTypeEndingReached,
		SessionID: session.String(),
		Data: map[string]any{
			"passage": passageName,
			"label":   o.Label,
			"title":   o.Label.Title(),
		},
	})
}

func (b *Broadcaster) publish(ctx context.Context, session uuid.UUID, event Event) error {
	channel := Channel(session)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published", "channel", channel, "event_type", event.Type)
	return nil
}
