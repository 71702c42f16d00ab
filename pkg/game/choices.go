package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jwebster45206/story-player/pkg/assets"
	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/jwebster45206/story-player/pkg/state"
	"github.com/jwebster45206/story-player/pkg/story"
)

// choicesScene is the gameplay loop: show a passage, wait for a link, repeat
// until an ending.
type choicesScene struct {
	d       *Director
	graph   *story.Graph
	endings state.EndingRecord
	current *story.Passage
	ended   bool
}

func (c *choicesScene) ID() SceneID { return SceneChoices }

func (c *choicesScene) Enter(ctx context.Context, params Params) error {
	// The graph is fixed for the whole playthrough even if the source reloads.
	c.graph = c.d.story.Current()
	if c.graph == nil {
		return errors.New("no story loaded")
	}
	c.d.classifier.Reset()
	c.endings = c.d.RetrieveFromLocal(ctx, c.d.endingsKey)
	c.current = nil
	c.ended = false

	if err := c.d.renderer.EnterScene(ctx, SceneChoices, params); err != nil {
		return err
	}
	c.d.Subscribe(c)

	start := c.graph.Start(params.StartType)
	c.d.logger.Info("Playthrough started", "start_type", params.StartType, "pid", start)
	return c.process(ctx, start)
}

func (c *choicesScene) Exit(ctx context.Context) error {
	c.d.Unsubscribe(c)
	return c.d.renderer.ExitScene(ctx, SceneChoices)
}

func (c *choicesScene) HandleInput(ctx context.Context, ev InputEvent) error {
	if c.ended || ev.ID == "" {
		return nil
	}
	pid, err := strconv.Atoi(ev.ID)
	if err != nil {
		c.d.logger.Warn("Ignoring choice with non-numeric id", "id", ev.ID)
		return nil
	}
	return c.process(ctx, story.PID(pid))
}

// Passage returns the passage on screen, or nil.
func (c *choicesScene) Passage() *story.Passage {
	return c.current
}

func (c *choicesScene) process(ctx context.Context, pid story.PID) error {
	p, err := c.graph.Resolve(pid)
	if err != nil {
		return fmt.Errorf("failed to resolve passage: %w", err)
	}

	o := c.d.classifier.Classify(p.Tags)
	c.d.logger.Debug("Passage", "pid", pid, "name", p.Name, "outcome", o.String())

	switch o.Kind {
	case outcome.KindEnding:
		c.d.Unsubscribe(c)
		c.ended = true
		return c.endOfPath(ctx, p, o)
	case outcome.KindMenu:
		return nil
	}

	c.current = p
	r, m := c.d.renderer, c.d.manifest
	anim := m.Animation(p.Name)
	return runAll(
		func() error { return r.UpdateBackground(ctx, m.Background(p.Name, string(o.Label))) },
		func() error { return r.UpdateBackgroundAudio(ctx, m.AudioTrack(assets.AudioNormal)) },
		func() error { return r.AnimateMouth(ctx, anim.MouthAnimation) },
		func() error { return r.ShowSweat(ctx, anim.Sweat) },
		func() error { return r.UpdatePrompt(ctx, story.DisplayText(p)) },
		func() error { return r.UpdateWordChoices(ctx, p.Links) },
	)
}

// endOfPath marks the ending on the freshest stored record, not the copy
// loaded on Enter, so endings unlocked meanwhile by other sessions survive.
// A failed save is logged and the player still sees the ending.
func (c *choicesScene) endOfPath(ctx context.Context, p *story.Passage, o outcome.Outcome) error {
	tracked := false
	rec, err := UpdateEndings(ctx, c.d.store, c.d.endingsKey, c.d.logger, func(rec state.EndingRecord) bool {
		tracked = rec.MarkGot(p.Name)
		return tracked
	})
	switch {
	case err != nil:
		c.d.logger.Error("Failed to persist endings", "passage", p.Name, "error", err)
		c.endings.MarkGot(p.Name)
	case !tracked:
		c.d.logger.Warn("Reached ending is not tracked", "passage", p.Name, "outcome", o.String())
		c.endings = rec
	default:
		c.endings = rec
	}
	if err := c.d.notifier.EndingReached(ctx, c.d.session, p.Name, o); err != nil {
		c.d.logger.Warn("Failed to publish ending", "error", err)
	}

	return c.d.SwitchScene(ctx, SceneGameOver, Params{
		Outcome:     o,
		Ending:      story.DisplayText(p),
		PassageName: p.Name,
	})
}
