// Package assets describes the image, audio and animation lookups a front end
// uses to dress each passage.
package assets

import (
	"fmt"

	"github.com/jwebster45206/story-player/pkg/outcome"
	"gopkg.in/yaml.v3"
)

// DefaultKey is the fallback entry of every lookup table.
const DefaultKey = "default"

// NeutralMouth is the mouth cue for passages without an animation entry.
const NeutralMouth = "neutral"

// Audio variants passed to the renderer.
const (
	AudioNormal    = "normal"
	AudioSilent    = "silent"
	AudioBadEnding = "bad-ending"
)

// Animation is the per-passage cue set.
type Animation struct {
	MouthAnimation string `yaml:"mouthAnimation" json:"mouthAnimation"`
	Sweat          bool   `yaml:"sweat" json:"sweat"`
}

// Manifest is the asset directory. Backgrounds are keyed by passage name or
// outcome label; scene backgrounds by scene id; animations by passage name;
// audio by variant. Rules, when present, replace outcome.DefaultRules for
// stories that tag passages differently.
type Manifest struct {
	Backgrounds map[string]string    `yaml:"backgrounds" json:"backgrounds"`
	Scenes      map[string]string    `yaml:"scenes" json:"scenes"`
	Animations  map[string]Animation `yaml:"animations" json:"animations"`
	Audio       map[string]string    `yaml:"audio" json:"audio"`
	Rules       []outcome.Rule       `yaml:"rules" json:"rules,omitempty"`
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	for i, r := range m.Rules {
		if r.Tag == "" {
			return nil, fmt.Errorf("rule %d: tag is required", i)
		}
		if r.Outcome.Kind != outcome.KindNone && r.Outcome.Kind != outcome.KindMenu && r.Outcome.Label == "" {
			return nil, fmt.Errorf("rule %d (%s): %s outcome needs a label", i, r.Tag, r.Outcome.Kind)
		}
		if r.Outcome.Kind == outcome.KindMenu && r.Outcome.Label == "" {
			m.Rules[i].Outcome.Label = outcome.LabelMenu
		}
	}
	return &m, nil
}

// OutcomeRules returns the manifest's rule list, or nil to select
// outcome.DefaultRules.
func (m *Manifest) OutcomeRules() []outcome.Rule {
	if m == nil {
		return nil
	}
	return m.Rules
}

// Background picks the image for a passage: by passage name, then by outcome
// label, then the default entry. A nil manifest yields DefaultKey so front
// ends can still resolve something.
func (m *Manifest) Background(passageName, label string) string {
	if m == nil {
		return DefaultKey
	}
	if bg, ok := m.Backgrounds[passageName]; ok && passageName != "" {
		return bg
	}
	if bg, ok := m.Backgrounds[label]; ok && label != "" {
		return bg
	}
	if bg, ok := m.Backgrounds[DefaultKey]; ok {
		return bg
	}
	return DefaultKey
}

// SceneBackground picks the image for a non-story screen such as the title or
// achievements screen. Scene entries never collide with passage names.
func (m *Manifest) SceneBackground(scene string) string {
	if m == nil {
		return DefaultKey
	}
	if bg, ok := m.Scenes[scene]; ok && scene != "" {
		return bg
	}
	if bg, ok := m.Backgrounds[DefaultKey]; ok {
		return bg
	}
	return DefaultKey
}

// Animation returns the cue for a passage, or the neutral cue.
func (m *Manifest) Animation(passageName string) Animation {
	if m != nil {
		if a, ok := m.Animations[passageName]; ok {
			if a.MouthAnimation == "" {
				a.MouthAnimation = NeutralMouth
			}
			return a
		}
	}
	return Animation{MouthAnimation: NeutralMouth}
}

// AudioTrack maps a variant to a track name, falling back to the variant.
func (m *Manifest) AudioTrack(variant string) string {
	if m != nil {
		if t, ok := m.Audio[variant]; ok {
			return t
		}
	}
	return variant
}
