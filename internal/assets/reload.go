package assets

import (
	"log/slog"
	"sync/atomic"

	"github.com/jwebster45206/story-player/pkg/story"
)

// Reloadable holds the latest good story loaded from a file. It satisfies
// game.GraphSource.
type Reloadable struct {
	path    string
	current atomic.Pointer[story.Graph]
	logger  *slog.Logger
}

// NewReloadable loads path once; the first load must succeed.
func NewReloadable(path string, logger *slog.Logger) (*Reloadable, error) {
	g, err := LoadStory(path)
	if err != nil {
		return nil, err
	}
	r := &Reloadable{path: path, logger: logger}
	r.current.Store(g)
	return r, nil
}

// Path is the watched story file.
func (r *Reloadable) Path() string { return r.path }

// Current returns the most recently loaded graph.
func (r *Reloadable) Current() *story.Graph {
	return r.current.Load()
}

// Reload re-reads the file. On failure the previous graph stays in place.
func (r *Reloadable) Reload() error {
	g, err := LoadStory(r.path)
	if err != nil {
		r.logger.Warn("Story reload failed, keeping previous version", "path", r.path, "error", err)
		return err
	}
	if problems := g.Validate(); len(problems) > 0 {
		r.logger.Warn("Reloaded story has problems", "path", r.path, "count", len(problems), "first", problems[0])
	}
	r.current.Store(g)
	r.logger.Info("Story reloaded", "path", r.path, "name", g.Name(), "passages", g.Len())
	return nil
}
