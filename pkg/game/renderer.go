package game

import (
	"context"

	"github.com/jwebster45206/story-player/pkg/state"
	"github.com/jwebster45206/story-player/pkg/story"
)

// Renderer is the front end. Every call blocks until the front end has
// applied it; EnterScene returns once the scene is on screen and ready for
// input.
type Renderer interface {
	Initialize(ctx context.Context) error
	EnterScene(ctx context.Context, id SceneID, params Params) error
	ExitScene(ctx context.Context, id SceneID) error
	UpdateBackground(ctx context.Context, name string) error
	UpdateBackgroundAudio(ctx context.Context, track string) error
	UpdatePrompt(ctx context.Context, text string) error
	UpdateWordChoices(ctx context.Context, links []story.Link) error
	AnimateMouth(ctx context.Context, cue string) error
	ShowSweat(ctx context.Context, show bool) error
	UpdateEnding(ctx context.Context, text string) error
	ShowAchievements(ctx context.Context, record state.EndingRecord) error
}

// GraphSource yields the story a new playthrough should use.
type GraphSource interface {
	Current() *story.Graph
}

type staticGraph struct {
	g *story.Graph
}

func (s staticGraph) Current() *story.Graph { return s.g }

// StaticGraph wraps a graph that never changes.
func StaticGraph(g *story.Graph) GraphSource {
	return staticGraph{g: g}
}

// runAll runs render steps in order and stops at the first failure.
func runAll(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
