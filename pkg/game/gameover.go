package game

import (
	"context"

	"github.com/jwebster45206/story-player/pkg/assets"
	"github.com/jwebster45206/story-player/pkg/outcome"
)

type gameOverScene struct {
	d      *Director
	params Params
}

func (g *gameOverScene) ID() SceneID { return SceneGameOver }

func (g *gameOverScene) Enter(ctx context.Context, params Params) error {
	g.params = params
	r, m := g.d.renderer, g.d.manifest

	audio := assets.AudioNormal
	if params.Outcome.Label == outcome.LabelBadEnding {
		audio = assets.AudioBadEnding
	}

	err := runAll(
		func() error {
			return r.UpdateBackground(ctx, m.Background(params.PassageName, string(params.Outcome.Label)))
		},
		func() error { return r.UpdateBackgroundAudio(ctx, m.AudioTrack(audio)) },
		func() error { return r.UpdateEnding(ctx, params.Ending) },
		func() error { return r.EnterScene(ctx, SceneGameOver, params) },
	)
	if err != nil {
		return err
	}
	g.d.Subscribe(g)
	return nil
}

func (g *gameOverScene) Exit(ctx context.Context) error {
	g.d.Unsubscribe(g)
	return g.d.renderer.ExitScene(ctx, SceneGameOver)
}

func (g *gameOverScene) HandleInput(ctx context.Context, ev InputEvent) error {
	switch ev.Action {
	case ActionRestart:
		return g.d.SwitchScene(ctx, SceneSplash, Params{})
	case ActionAchievements:
		return g.d.SwitchScene(ctx, SceneAchievements, Params{})
	}
	return nil
}
