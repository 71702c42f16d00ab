package game

import (
	"errors"
	"fmt"
)

// ErrUnknownScene is matched by every UnknownSceneError.
var ErrUnknownScene = errors.New("unknown scene")

// UnknownSceneError reports a switch to a scene that was never registered.
type UnknownSceneError struct {
	ID SceneID
}

func (e *UnknownSceneError) Error() string {
	return fmt.Sprintf("unknown scene %q", e.ID)
}

func (e *UnknownSceneError) Is(target error) bool {
	return target == ErrUnknownScene
}
