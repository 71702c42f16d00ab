package game

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-player/pkg/outcome"
)

// Notifier receives best-effort notifications about a session. Errors are
// logged and never interrupt play.
type Notifier interface {
	SceneChanged(ctx context.Context, session uuid.UUID, from, to SceneID) error
	EndingReached(ctx context.Context, session uuid.UUID, passageName string, o outcome.Outcome) error
}

type nopNotifier struct{}

func (nopNotifier) SceneChanged(context.Context, uuid.UUID, SceneID, SceneID) error { return nil }

func (nopNotifier) EndingReached(context.Context, uuid.UUID, string, outcome.Outcome) error {
	return nil
}
