package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/story-player/pkg/state"
	"github.com/jwebster45206/story-player/pkg/story"
)

type call struct {
	Method string
	Arg    any
}

// recordingRenderer records every call in order. failOn makes a method fail.
type recordingRenderer struct {
	mu           sync.Mutex
	calls        []call
	failOn       map[string]error
	achievements state.EndingRecord
	onEnter      func(id SceneID)
	onExit       func(id SceneID)
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{failOn: make(map[string]error)}
}

func (r *recordingRenderer) record(method string, arg any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{Method: method, Arg: arg})
	return r.failOn[method]
}

func (r *recordingRenderer) Initialize(ctx context.Context) error {
	return r.record("Initialize", nil)
}

func (r *recordingRenderer) EnterScene(ctx context.Context, id SceneID, params Params) error {
	if r.onEnter != nil {
		r.onEnter(id)
	}
	return r.record("EnterScene", id)
}

func (r *recordingRenderer) ExitScene(ctx context.Context, id SceneID) error {
	if r.onExit != nil {
		r.onExit(id)
	}
	return r.record("ExitScene", id)
}

func (r *recordingRenderer) UpdateBackground(ctx context.Context, name string) error {
	return r.record("UpdateBackground", name)
}

func (r *recordingRenderer) UpdateBackgroundAudio(ctx context.Context, track string) error {
	return r.record("UpdateBackgroundAudio", track)
}

func (r *recordingRenderer) UpdatePrompt(ctx context.Context, text string) error {
	return r.record("UpdatePrompt", text)
}

func (r *recordingRenderer) UpdateWordChoices(ctx context.Context, links []story.Link) error {
	return r.record("UpdateWordChoices", links)
}

func (r *recordingRenderer) AnimateMouth(ctx context.Context, cue string) error {
	return r.record("AnimateMouth", cue)
}

func (r *recordingRenderer) ShowSweat(ctx context.Context, show bool) error {
	return r.record("ShowSweat", show)
}

func (r *recordingRenderer) UpdateEnding(ctx context.Context, text string) error {
	return r.record("UpdateEnding", text)
}

func (r *recordingRenderer) ShowAchievements(ctx context.Context, record state.EndingRecord) error {
	r.mu.Lock()
	r.achievements = record.Clone()
	r.mu.Unlock()
	return r.record("ShowAchievements", len(record))
}

// methods returns the method names called so far.
func (r *recordingRenderer) methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Method
	}
	return out
}

// last returns the argument of the most recent call to method.
func (r *recordingRenderer) last(method string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].Method == method {
			return r.calls[i].Arg, true
		}
	}
	return nil, false
}

func (r *recordingRenderer) count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (r *recordingRenderer) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *recordingRenderer) String() string {
	return fmt.Sprint(r.methods())
}
