// Package assets loads the story document and asset manifest from disk and
// keeps the story current while the files change.
package assets

import (
	"fmt"
	"os"

	"github.com/jwebster45206/story-player/pkg/assets"
	"github.com/jwebster45206/story-player/pkg/story"
)

// LoadStory reads and parses a Twison JSON document.
func LoadStory(path string) (*story.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story %s: %w", path, err)
	}
	g, err := story.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load story %s: %w", path, err)
	}
	return g, nil
}

// LoadManifest reads a YAML asset manifest. An empty path yields an empty
// manifest, which resolves every lookup to its default.
func LoadManifest(path string) (*assets.Manifest, error) {
	if path == "" {
		return &assets.Manifest{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return assets.ParseManifest(data)
}
