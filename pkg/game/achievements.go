package game

import (
	"context"

	"github.com/jwebster45206/story-player/pkg/assets"
)

// achievementsScene lists endings as persisted, never the in-memory copy of
// a running playthrough.
type achievementsScene struct {
	d *Director
}

func (a *achievementsScene) ID() SceneID { return SceneAchievements }

func (a *achievementsScene) Enter(ctx context.Context, params Params) error {
	record := a.d.RetrieveFromLocal(ctx, a.d.endingsKey)
	r, m := a.d.renderer, a.d.manifest

	err := runAll(
		func() error { return r.UpdateBackground(ctx, m.SceneBackground(string(SceneAchievements))) },
		func() error { return r.UpdateBackgroundAudio(ctx, m.AudioTrack(assets.AudioNormal)) },
		func() error { return r.EnterScene(ctx, SceneAchievements, params) },
		func() error { return r.ShowAchievements(ctx, record) },
	)
	if err != nil {
		return err
	}
	a.d.Subscribe(a)
	return nil
}

func (a *achievementsScene) Exit(ctx context.Context) error {
	a.d.Unsubscribe(a)
	return a.d.renderer.ExitScene(ctx, SceneAchievements)
}

func (a *achievementsScene) HandleInput(ctx context.Context, ev InputEvent) error {
	if ev.Action == ActionRestart {
		return a.d.SwitchScene(ctx, SceneSplash, Params{})
	}
	return nil
}
