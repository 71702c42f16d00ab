// Package ws bridges a Director to a browser over a websocket. Every Renderer
// call becomes a render frame the browser acknowledges once it has drawn it;
// browser input frames are fed to the Director's input channel.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jwebster45206/story-player/pkg/game"
	"github.com/jwebster45206/story-player/pkg/state"
	"github.com/jwebster45206/story-player/pkg/story"
)

// DefaultAckTimeout bounds how long a render frame may go unacknowledged.
const DefaultAckTimeout = 10 * time.Second

// ErrClosed is returned by render calls once the connection has gone.
var ErrClosed = errors.New("websocket session closed")

// RenderError is a failure reported by the browser in an ack frame.
type RenderError struct {
	Method  string
	Message string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("client failed to %s: %s", e.Method, e.Message)
}

type ack struct {
	err string
}

// Session is one websocket connection acting as a game.Renderer.
type Session struct {
	conn       *websocket.Conn
	logger     *slog.Logger
	ackTimeout time.Duration

	writeMu sync.Mutex
	seq     atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan ack
	closed  chan struct{}
	once    sync.Once
}

var _ game.Renderer = (*Session)(nil)

// NewSession wraps an upgraded connection. ackTimeout <= 0 selects
// DefaultAckTimeout.
func NewSession(conn *websocket.Conn, ackTimeout time.Duration, logger *slog.Logger) *Session {
	if ackTimeout <= 0 {
		ackTimeout = DefaultAckTimeout
	}
	return &Session{
		conn:       conn,
		logger:     logger,
		ackTimeout: ackTimeout,
		pending:    make(map[uint64]chan ack),
		closed:     make(chan struct{}),
	}
}

// Done is closed when the connection is gone.
func (s *Session) Done() <-chan struct{} { return s.closed }

// ReadPump reads frames until the connection fails. Acks complete pending
// render calls; input frames go to inputs without blocking, so acks are never
// stuck behind a full input queue.
func (s *Session) ReadPump(inputs chan<- game.InputEvent) error {
	defer s.shutdown()
	for {
		var msg Inbound
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("failed to read frame: %w", err)
		}

		switch msg.Type {
		case TypeAck:
			s.resolve(msg.Seq, ack{err: msg.Error})
		case TypeInput:
			var ev game.InputEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				s.logger.Warn("Ignoring malformed input frame", "error", err)
				continue
			}
			select {
			case inputs <- ev:
			default:
				s.logger.Warn("Input queue full, dropping input", "event", ev)
			}
		default:
			s.logger.Warn("Ignoring unknown frame", "type", msg.Type)
		}
	}
}

// SendError tells the browser the session has failed.
func (s *Session) SendError(message string) error {
	return s.write(Outbound{Type: TypeError, Message: message})
}

// Close sends a close frame and releases every waiting render call.
func (s *Session) Close() error {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.writeMu.Unlock()
	s.shutdown()
	return s.conn.Close()
}

func (s *Session) shutdown() {
	s.once.Do(func() { close(s.closed) })
}

func (s *Session) resolve(seq uint64, a ack) {
	s.mu.Lock()
	ch, ok := s.pending[seq]
	delete(s.pending, seq)
	s.mu.Unlock()
	if !ok {
		s.logger.Debug("Ack for unknown frame", "seq", seq)
		return
	}
	ch <- a
}

func (s *Session) write(frame Outbound) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// call sends a render frame and waits for the browser to acknowledge it.
func (s *Session) call(ctx context.Context, method string, payload any) error {
	seq := s.seq.Add(1)
	ch := make(chan ack, 1)

	s.mu.Lock()
	s.pending[seq] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, seq)
		s.mu.Unlock()
	}()

	select {
	case <-s.closed:
		return ErrClosed
	default:
	}

	if err := s.write(Outbound{Type: TypeRender, Seq: seq, Method: method, Payload: payload}); err != nil {
		return err
	}

	timer := time.NewTimer(s.ackTimeout)
	defer timer.Stop()

	select {
	case a := <-ch:
		if a.err != "" {
			return &RenderError{Method: method, Message: a.err}
		}
		return nil
	case <-s.closed:
		return ErrClosed
	case <-timer.C:
		return fmt.Errorf("timed out waiting for %s ack", method)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) Initialize(ctx context.Context) error {
	return s.call(ctx, MethodInitialize, nil)
}

func (s *Session) EnterScene(ctx context.Context, id game.SceneID, params game.Params) error {
	return s.call(ctx, MethodEnterScene, scenePayload{Scene: id, Params: &params})
}

func (s *Session) ExitScene(ctx context.Context, id game.SceneID) error {
	return s.call(ctx, MethodExitScene, scenePayload{Scene: id})
}

func (s *Session) UpdateBackground(ctx context.Context, name string) error {
	return s.call(ctx, MethodUpdateBackground, valuePayload{Value: name})
}

func (s *Session) UpdateBackgroundAudio(ctx context.Context, track string) error {
	return s.call(ctx, MethodUpdateBackgroundAudio, valuePayload{Value: track})
}

func (s *Session) UpdatePrompt(ctx context.Context, text string) error {
	return s.call(ctx, MethodUpdatePrompt, valuePayload{Value: text})
}

func (s *Session) UpdateWordChoices(ctx context.Context, links []story.Link) error {
	if links == nil {
		links = []story.Link{}
	}
	return s.call(ctx, MethodUpdateWordChoices, choicesPayload{Choices: links})
}

func (s *Session) AnimateMouth(ctx context.Context, cue string) error {
	return s.call(ctx, MethodAnimateMouth, valuePayload{Value: cue})
}

func (s *Session) ShowSweat(ctx context.Context, show bool) error {
	return s.call(ctx, MethodShowSweat, valuePayload{Value: show})
}

func (s *Session) UpdateEnding(ctx context.Context, text string) error {
	return s.call(ctx, MethodUpdateEnding, valuePayload{Value: text})
}

func (s *Session) ShowAchievements(ctx context.Context, record state.EndingRecord) error {
	return s.call(ctx, MethodShowAchievements, achievementsPayload{Endings: record, Order: record.Names()})
}
