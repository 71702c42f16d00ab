// Package game is the scene engine: four scenes, the Director that switches
// between them and the contracts for the front end that draws them.
package game

import (
	"context"
	"strconv"

	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/jwebster45206/story-player/pkg/story"
)

// SceneID names a top-level scene.
type SceneID string

const (
	SceneSplash       SceneID = "splash"
	SceneChoices      SceneID = "choices"
	SceneGameOver     SceneID = "gameover"
	SceneAchievements SceneID = "achievements"
)

// Input actions understood by the GameOver and Achievements scenes.
const (
	ActionRestart      = "restart"
	ActionAchievements = "achievements"
)

// Scene is one state of the Director's state machine. Enter subscribes the
// scene to input once the renderer reports it is ready; Exit unsubscribes
// before anything else.
type Scene interface {
	ID() SceneID
	Enter(ctx context.Context, params Params) error
	Exit(ctx context.Context) error
	HandleInput(ctx context.Context, ev InputEvent) error
}

// Params is the bundle handed to a scene on entry.
type Params struct {
	StartType   story.StartType `json:"startType,omitempty"`
	Outcome     outcome.Outcome `json:"outcome"`
	Ending      string          `json:"ending,omitempty"`
	PassageName string          `json:"passageName,omitempty"`
	Detail      InputEvent      `json:"detail"`
}

// InputEvent is the single kind of user input. Exactly one of ID, Action or
// LoadScreen is normally set.
type InputEvent struct {
	ID         string          `json:"id,omitempty"`    // chosen link target pid
	Value      string          `json:"value,omitempty"` // chosen link label
	Action     string          `json:"action,omitempty"`
	LoadScreen SceneID         `json:"loadScreen,omitempty"`
	StartType  story.StartType `json:"startType,omitempty"`
}

// Choice builds the input event for selecting a link.
func Choice(l story.Link) InputEvent {
	return InputEvent{ID: strconv.Itoa(int(l.PID)), Value: l.Name}
}

// Load builds the splash directive to open a scene.
func Load(id SceneID, start story.StartType) InputEvent {
	return InputEvent{LoadScreen: id, StartType: start}
}

// Act builds an action event such as ActionRestart.
func Act(action string) InputEvent {
	return InputEvent{Action: action}
}
