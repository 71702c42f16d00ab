package game

import (
	"context"

	"github.com/jwebster45206/story-player/pkg/assets"
)

// splashScene is the title screen. It waits for a loadScreen directive.
type splashScene struct {
	d *Director
}

func (s *splashScene) ID() SceneID { return SceneSplash }

func (s *splashScene) Enter(ctx context.Context, params Params) error {
	r, m := s.d.renderer, s.d.manifest
	err := runAll(
		func() error { return r.UpdateBackground(ctx, m.SceneBackground(string(SceneSplash))) },
		func() error { return r.UpdateBackgroundAudio(ctx, m.AudioTrack(assets.AudioSilent)) },
		func() error { return r.EnterScene(ctx, SceneSplash, params) },
	)
	if err != nil {
		return err
	}
	s.d.Subscribe(s)
	return nil
}

func (s *splashScene) Exit(ctx context.Context) error {
	s.d.Unsubscribe(s)
	return s.d.renderer.ExitScene(ctx, SceneSplash)
}

func (s *splashScene) HandleInput(ctx context.Context, ev InputEvent) error {
	if ev.LoadScreen == "" {
		return nil
	}
	return s.d.SwitchScene(ctx, ev.LoadScreen, Params{
		StartType: ev.StartType,
		Detail:    ev,
	})
}
