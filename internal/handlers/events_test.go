package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/story-player/internal/events"
	"github.com/jwebster45206/story-player/pkg/game"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestEventsHandler_BadRequests(t *testing.T) {
	h := NewEventsHandler(setupTestRedis(t), testLogger())

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodPost, "/v1/events/" + uuid.NewString(), http.StatusMethodNotAllowed},
		{http.MethodGet, "/v1/events", http.StatusBadRequest},
		{http.MethodGet, "/v1/events/not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, rr.Code, tt.path)
	}
}

func TestEventsHandler_StreamsSessionEvents(t *testing.T) {
	client := setupTestRedis(t)
	srv := httptest.NewServer(NewEventsHandler(client, testLogger()))
	defer srv.Close()

	session := uuid.New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/events/"+session.String(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if line := lines.Text(); line != "" {
				return line
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return ""
	}

	assert.Equal(t, "event: connected", next())
	assert.Contains(t, next(), session.String())

	b := events.NewBroadcaster(client, testLogger())
	require.NoError(t, b.SceneChanged(ctx, session, game.SceneSplash, game.SceneChoices))

	assert.Equal(t, "event: "+string(events.EventTypeSceneChanged), next())
	data := next()
	assert.True(t, strings.HasPrefix(data, "data: "))
	assert.Contains(t, data, `"to":"choices"`)
}
