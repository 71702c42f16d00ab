package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/story-player/pkg/game"
	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func receive(t *testing.T, sub *redis.PubSub) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	return ev
}

func TestBroadcaster_PublishesToSessionChannel(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()
	session := uuid.New()

	sub := client.Subscribe(ctx, Channel(session))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	b := NewBroadcaster(client, testLogger())

	require.NoError(t, b.SceneChanged(ctx, session, game.SceneSplash, game.SceneChoices))
	ev := receive(t, sub)
	assert.Equal(t, EventTypeSceneChanged, ev.Type)
	assert.Equal(t, session.String(), ev.SessionID)
	assert.Equal(t, "splash", ev.Data["from"])
	assert.Equal(t, "choices", ev.Data["to"])

	require.NoError(t, b.EndingReached(ctx, session, "Sunrise", outcome.Ending(outcome.LabelGoodEnding)))
	ev = receive(t, sub)
	assert.Equal(t, EventTypeEndingReached, ev.Type)
	assert.Equal(t, "Sunrise", ev.Data["passage"])
	assert.Equal(t, "good-ending", ev.Data["label"])
	assert.Equal(t, "Good Ending", ev.Data["title"])
}

func TestBroadcaster_RedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	mr.Close()

	b := NewBroadcaster(client, testLogger())
	err := b.SceneChanged(context.Background(), uuid.New(), "", game.SceneSplash)
	assert.Error(t, err)
}

func TestChannel(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "player-events:6ba7b810-9dad-11d1-80b4-00c04fd430c8", Channel(id))
}
