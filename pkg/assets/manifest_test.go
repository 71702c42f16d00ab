package assets

import (
	"testing"

	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestYAML = `
backgrounds:
  default: plain.png
  good-ending: sunrise.png
  Cellar: cellar.png
animations:
  Cellar:
    mouthAnimation: talk-fast
    sweat: true
  Hall:
    sweat: false
scenes:
  splash: title.png
audio:
  normal: theme.ogg
  bad-ending: dirge.ogg
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)
	assert.Len(t, m.Backgrounds, 3)
	assert.Equal(t, "talk-fast", m.Animations["Cellar"].MouthAnimation)

	_, err = ParseManifest([]byte("backgrounds: [unclosed"))
	assert.Error(t, err)
}

func TestBackground(t *testing.T) {
	m, err := ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)

	tests := []struct {
		name    string
		passage string
		label   string
		want    string
	}{
		{"passage name wins", "Cellar", "good-ending", "cellar.png"},
		{"label fallback", "Attic", "good-ending", "sunrise.png"},
		{"default fallback", "Attic", "bad-ending", "plain.png"},
		{"no label", "Attic", "", "plain.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Background(tt.passage, tt.label))
		})
	}

	var nilManifest *Manifest
	assert.Equal(t, DefaultKey, nilManifest.Background("Cellar", ""))
	assert.Equal(t, DefaultKey, (&Manifest{}).Background("Cellar", ""))
}

func TestAnimation(t *testing.T) {
	m, err := ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)

	assert.Equal(t, Animation{MouthAnimation: "talk-fast", Sweat: true}, m.Animation("Cellar"))
	assert.Equal(t, Animation{MouthAnimation: NeutralMouth}, m.Animation("Hall"), "empty cue defaults to neutral")
	assert.Equal(t, Animation{MouthAnimation: NeutralMouth}, m.Animation("Nowhere"))

	var nilManifest *Manifest
	assert.Equal(t, NeutralMouth, nilManifest.Animation("Cellar").MouthAnimation)
}

func TestAudioTrack(t *testing.T) {
	m, err := ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)
	assert.Equal(t, "dirge.ogg", m.AudioTrack(AudioBadEnding))
	assert.Equal(t, AudioSilent, m.AudioTrack(AudioSilent))
}

func TestSceneBackground(t *testing.T) {
	m, err := ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)

	assert.Equal(t, "title.png", m.SceneBackground("splash"))
	assert.Equal(t, "plain.png", m.SceneBackground("achievements"))

	m.Backgrounds["splash"] = "passage-named-splash.png"
	assert.Equal(t, "title.png", m.SceneBackground("splash"), "passage entries never leak into scenes")
	assert.Equal(t, "passage-named-splash.png", m.Background("splash", ""))

	var nilManifest *Manifest
	assert.Equal(t, DefaultKey, nilManifest.SceneBackground("splash"))
}

func TestParseManifest_Rules(t *testing.T) {
	m, err := ParseManifest([]byte(`
rules:
  - tag: DOOM
    outcome: {kind: ending, label: bad-ending}
  - tag: HUB
    outcome: {kind: menu}
`))
	require.NoError(t, err)
	assert.Equal(t, []outcome.Rule{
		{Tag: "DOOM", Outcome: outcome.Ending(outcome.LabelBadEnding)},
		{Tag: "HUB", Outcome: outcome.Menu()},
	}, m.OutcomeRules())

	none, err := ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)
	assert.Nil(t, none.OutcomeRules(), "no rules selects the defaults")

	tests := []struct {
		name string
		yaml string
	}{
		{"missing tag", "rules:\n  - outcome: {kind: path, label: good-path}\n"},
		{"ending without label", "rules:\n  - tag: X\n    outcome: {kind: ending}\n"},
		{"unknown kind", "rules:\n  - tag: X\n    outcome: {kind: epilogue}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
