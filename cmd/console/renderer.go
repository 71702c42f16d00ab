package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/story-player/pkg/game"
	"github.com/jwebster45206/story-player/pkg/state"
	"github.com/jwebster45206/story-player/pkg/story"
)

// renderMsg carries one Renderer call into the bubbletea loop. done is closed
// once Update has applied it, which is what makes the call awaitable.
type renderMsg struct {
	apply func(m *ConsoleUI)
	done  chan struct{}
}

// teaRenderer implements game.Renderer by posting renderMsgs to a program.
type teaRenderer struct {
	send func(tea.Msg)
}

var _ game.Renderer = (*teaRenderer)(nil)

func newTeaRenderer(send func(tea.Msg)) *teaRenderer {
	return &teaRenderer{send: send}
}

func (r *teaRenderer) do(ctx context.Context, apply func(m *ConsoleUI)) error {
	msg := renderMsg{apply: apply, done: make(chan struct{})}
	r.send(msg)
	select {
	case <-msg.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *teaRenderer) Initialize(ctx context.Context) error {
	return r.do(ctx, func(m *ConsoleUI) { m.ready = true })
}

func (r *teaRenderer) EnterScene(ctx context.Context, id game.SceneID, params game.Params) error {
	return r.do(ctx, func(m *ConsoleUI) {
		m.scene = id
		m.params = params
		m.cursor = 0
		m.status = ""
		m.refresh()
	})
}

func (r *teaRenderer) ExitScene(ctx context.Context, id game.SceneID) error {
	return r.do(ctx, func(m *ConsoleUI) {
		if m.scene == id {
			m.scene = ""
		}
		m.choices = nil
	})
}

func (r *teaRenderer) UpdateBackground(ctx context.Context, name string) error {
	return r.do(ctx, func(m *ConsoleUI) { m.background = name })
}

func (r *teaRenderer) UpdateBackgroundAudio(ctx context.Context, track string) error {
	return r.do(ctx, func(m *ConsoleUI) { m.audio = track })
}

func (r *teaRenderer) UpdatePrompt(ctx context.Context, text string) error {
	return r.do(ctx, func(m *ConsoleUI) {
		m.prompt = text
		m.refresh()
	})
}

func (r *teaRenderer) UpdateWordChoices(ctx context.Context, links []story.Link) error {
	return r.do(ctx, func(m *ConsoleUI) {
		m.choices = append([]story.Link(nil), links...)
		m.cursor = 0
	})
}

func (r *teaRenderer) AnimateMouth(ctx context.Context, cue string) error {
	return r.do(ctx, func(m *ConsoleUI) { m.mouth = cue })
}

func (r *teaRenderer) ShowSweat(ctx context.Context, show bool) error {
	return r.do(ctx, func(m *ConsoleUI) { m.sweat = show })
}

func (r *teaRenderer) UpdateEnding(ctx context.Context, text string) error {
	return r.do(ctx, func(m *ConsoleUI) {
		m.ending = text
		m.refresh()
	})
}

func (r *teaRenderer) ShowAchievements(ctx context.Context, record state.EndingRecord) error {
	record = record.Clone()
	return r.do(ctx, func(m *ConsoleUI) {
		m.achievements = record
		m.refresh()
	})
}
