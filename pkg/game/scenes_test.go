package game

import (
	"errors"
	"testing"

	"github.com/jwebster45206/story-player/pkg/assets"
	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/jwebster45206/story-player/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) play(t *testing.T, start story.StartType) {
	t.Helper()
	f.start(t)
	f.send(t, Load(SceneChoices, start))
	require.Equal(t, SceneChoices, f.d.Active())
}

func TestChoices_PrimaryStart(t *testing.T) {
	f := newFixture(t, testGraph())
	f.play(t, story.StartPrimary)

	prompt, _ := f.r.last("UpdatePrompt")
	assert.Equal(t, "Welcome. ", prompt)
	links, _ := f.r.last("UpdateWordChoices")
	assert.Equal(t, []story.Link{{Name: "go", PID: 2}}, links)
	bg, _ := f.r.last("UpdateBackground")
	assert.Equal(t, "plain.png", bg)
	mouth, _ := f.r.last("AnimateMouth")
	assert.Equal(t, assets.NeutralMouth, mouth)
	sweat, _ := f.r.last("ShowSweat")
	assert.Equal(t, false, sweat)
	audio, _ := f.r.last("UpdateBackgroundAudio")
	assert.Equal(t, assets.AudioNormal, audio)
	assert.Equal(t, SceneChoices, f.d.Subscribed())
}

func TestChoices_AlternateStart(t *testing.T) {
	f := newFixture(t, testGraph())
	f.play(t, story.StartAlternate)

	prompt, _ := f.r.last("UpdatePrompt")
	assert.Equal(t, "Side start ", prompt)
	assert.Equal(t, "Side", f.choices().Passage().Name)
}

func TestChoices_FollowLink(t *testing.T) {
	f := newFixture(t, testGraph())
	f.play(t, story.StartPrimary)
	f.r.reset()

	f.send(t, Choice(story.Link{Name: "go", PID: 2}))

	assert.Equal(t, []string{
		"UpdateBackground", "UpdateBackgroundAudio", "AnimateMouth",
		"ShowSweat", "UpdatePrompt", "UpdateWordChoices",
	}, f.r.methods())

	bg, _ := f.r.last("UpdateBackground")
	assert.Equal(t, "hall.png", bg, "passage name beats outcome label")
	mouth, _ := f.r.last("AnimateMouth")
	assert.Equal(t, "talk", mouth)
	sweat, _ := f.r.last("ShowSweat")
	assert.Equal(t, true, sweat)
	links, _ := f.r.last("UpdateWordChoices")
	assert.Len(t, links, 3)
	assert.Equal(t, 1, f.d.Counts()[outcome.LabelGoodPath])
}

func TestChoices_IgnoresMalformedInput(t *testing.T) {
	f := newFixture(t, testGraph())
	f.play(t, story.StartPrimary)
	f.r.reset()

	f.send(t, InputEvent{ID: "two"})
	f.send(t, InputEvent{})
	f.send(t, Act(ActionRestart))

	assert.Empty(t, f.r.methods())
	assert.Equal(t, "Start", f.choices().Passage().Name)
}

func TestChoices_MenuPassageIsNoop(t *testing.T) {
	f := newFixture(t, testGraph())
	f.play(t, story.StartPrimary)
	f.send(t, InputEvent{ID: "2"})
	f.r.reset()

	f.send(t, InputEvent{ID: "6"})

	assert.Empty(t, f.r.methods())
	assert.Equal(t, "Hall", f.choices().Passage().Name)
	assert.Equal(t, SceneChoices, f.d.Subscribed())
}

func TestChoices_GoodEndingPersistsBeforeGameOver(t *testing.T) {
	f := newFixture(t, testGraph())
	_, err := f.d.SeedEndings(f.ctx)
	require.NoError(t, err)

	gotAtEnter := false
	f.r.onEnter = func(id SceneID) {
		if id == SceneGameOver {
			gotAtEnter = f.d.RetrieveFromLocal(f.ctx, DefaultEndingsKey)["Sunrise"].Got
		}
	}

	f.play(t, story.StartPrimary)
	f.send(t, InputEvent{ID: "2"})
	f.send(t, InputEvent{ID: "3"})

	assert.True(t, gotAtEnter, "ending is saved before the game over screen appears")
	assert.Equal(t, SceneGameOver, f.d.Active())
	assert.Equal(t, SceneGameOver, f.d.Subscribed())

	ending, _ := f.r.last("UpdateEnding")
	assert.Equal(t, "You made it.", ending)
	bg, _ := f.r.last("UpdateBackground")
	assert.Equal(t, "sunrise.png", bg)
	audio, _ := f.r.last("UpdateBackgroundAudio")
	assert.Equal(t, assets.AudioNormal, audio)

	rec := f.storedEndings(t)
	assert.True(t, rec["Sunrise"].Got)
	assert.False(t, rec["Pit"].Got)
	assert.Equal(t, 1, f.d.Counts()[outcome.LabelGoodEnding])
}

func TestChoices_BadEndingAudio(t *testing.T) {
	f := newFixture(t, testGraph())
	f.play(t, story.StartPrimary)
	f.send(t, InputEvent{ID: "2"})
	f.send(t, InputEvent{ID: "4"})

	require.Equal(t, SceneGameOver, f.d.Active())
	audio, _ := f.r.last("UpdateBackgroundAudio")
	assert.Equal(t, assets.AudioBadEnding, audio)
	bg, _ := f.r.last("UpdateBackground")
	assert.Equal(t, "dark.png", bg)
	assert.Equal(t, 1, f.d.Counts()[outcome.LabelBadEnding])
	assert.Equal(t, 1, f.d.Counts()[outcome.LabelGoodPath])
}

func TestChoices_UntrackedEndingAddsNoKey(t *testing.T) {
	f := newFixture(t, testGraph())
	f.store.Put(DefaultEndingsKey, `{"Pit":{"got":false}}`)

	f.play(t, story.StartPrimary)
	f.send(t, InputEvent{ID: "2"})
	f.send(t, InputEvent{ID: "3"})

	require.Equal(t, SceneGameOver, f.d.Active())
	rec := f.storedEndings(t)
	assert.Equal(t, []string{"Pit"}, rec.Names())
	assert.False(t, rec["Pit"].Got)
}

func TestChoices_SessionsSharingStoreKeepEachOthersEndings(t *testing.T) {
	a := newFixture(t, testGraph())
	_, err := a.d.SeedEndings(a.ctx)
	require.NoError(t, err)
	b := newFixtureWithStore(t, testGraph(), a.store)

	// Both sessions load the record before either reaches an ending.
	a.play(t, story.StartPrimary)
	b.play(t, story.StartPrimary)

	b.send(t, InputEvent{ID: "2"})
	b.send(t, InputEvent{ID: "3"})
	require.Equal(t, SceneGameOver, b.d.Active())

	a.send(t, InputEvent{ID: "2"})
	a.send(t, InputEvent{ID: "4"})
	require.Equal(t, SceneGameOver, a.d.Active())

	rec := a.storedEndings(t)
	assert.True(t, rec["Sunrise"].Got, "reached by the other session")
	assert.True(t, rec["Pit"].Got)
	assert.False(t, rec["Secret"].Got)
}

func TestChoices_SaveFailureStillShowsEnding(t *testing.T) {
	f := newFixture(t, testGraph())
	_, err := f.d.SeedEndings(f.ctx)
	require.NoError(t, err)
	f.store.SetSetError(errors.New("read-only"))

	f.play(t, story.StartPrimary)
	f.send(t, InputEvent{ID: "2"})
	f.send(t, InputEvent{ID: "3"})

	assert.Equal(t, SceneGameOver, f.d.Active(), "a failed save is logged, not fatal")
	ending, _ := f.r.last("UpdateEnding")
	assert.Equal(t, "You made it.", ending)
	assert.False(t, f.storedEndings(t)["Sunrise"].Got)
	assert.True(t, f.choices().endings["Sunrise"].Got, "the session still counts it")
}

func TestChoices_StartPassageIsEnding(t *testing.T) {
	g := story.New("Short", 1, 1, []story.Passage{
		{PID: 1, Name: "Instant", Text: "Over before it began.", Tags: []string{outcome.TagBadEnd}},
	})
	f := newFixture(t, g)
	f.start(t)
	f.r.reset()

	f.send(t, Load(SceneChoices, story.StartPrimary))

	assert.Equal(t, SceneGameOver, f.d.Active())
	assert.Equal(t, SceneGameOver, f.d.Subscribed())
	assert.Equal(t, 2, f.r.count("ExitScene"))
	assert.Zero(t, f.r.count("UpdatePrompt"), "an ending is never shown as a prompt")

	var scenes []any
	f.r.mu.Lock()
	for _, c := range f.r.calls {
		if c.Method == "EnterScene" || c.Method == "ExitScene" {
			scenes = append(scenes, c.Method+":"+string(c.Arg.(SceneID)))
		}
	}
	f.r.mu.Unlock()
	assert.Equal(t, []any{
		"ExitScene:splash", "EnterScene:choices", "ExitScene:choices", "EnterScene:gameover",
	}, scenes, f.r.String())
}

func TestGameOver_IgnoresChoices(t *testing.T) {
	f := newFixture(t, testGraph())
	f.play(t, story.StartPrimary)
	f.send(t, InputEvent{ID: "2"})
	f.send(t, InputEvent{ID: "3"})
	require.Equal(t, SceneGameOver, f.d.Active())
	f.r.reset()

	f.send(t, InputEvent{ID: "2"})

	assert.Empty(t, f.r.methods())
	assert.Equal(t, SceneGameOver, f.d.Active())
}

func TestGameOver_Restart(t *testing.T) {
	f := newFixture(t, testGraph())
	f.play(t, story.StartPrimary)
	f.send(t, InputEvent{ID: "2"})
	f.send(t, InputEvent{ID: "4"})
	require.Equal(t, SceneGameOver, f.d.Active())

	f.send(t, Act(ActionRestart))
	assert.Equal(t, SceneSplash, f.d.Active())
	assert.Equal(t, SceneSplash, f.d.Subscribed())

	f.send(t, Load(SceneChoices, story.StartPrimary))
	for label, n := range f.d.Counts() {
		assert.Zero(t, n, "counter %s resets on a new playthrough", label)
	}
	assert.Equal(t, "Start", f.choices().Passage().Name)
}

func TestAchievements_ReadsPersistedRecord(t *testing.T) {
	f := newFixture(t, testGraph())
	_, err := f.d.SeedEndings(f.ctx)
	require.NoError(t, err)

	f.play(t, story.StartPrimary)
	f.send(t, InputEvent{ID: "2"})
	f.send(t, InputEvent{ID: "3"})
	f.send(t, Act(ActionAchievements))

	require.Equal(t, SceneAchievements, f.d.Active())
	assert.Equal(t, SceneAchievements, f.d.Subscribed())
	assert.True(t, f.r.achievements["Sunrise"].Got)
	assert.False(t, f.r.achievements["Secret"].Got)
	bg, _ := f.r.last("UpdateBackground")
	assert.Equal(t, "plain.png", bg)

	f.send(t, Act(ActionRestart))
	require.Equal(t, SceneSplash, f.d.Active())

	// A change made outside this session shows up on the next visit.
	f.store.Put(DefaultEndingsKey, `{"Secret":{"got":true}}`)
	f.send(t, Load(SceneAchievements, ""))
	require.Equal(t, SceneAchievements, f.d.Active())
	assert.Equal(t, []string{"Secret"}, f.r.achievements.Names())
	assert.True(t, f.r.achievements["Secret"].Got)
}

func TestAchievements_IgnoresOtherActions(t *testing.T) {
	f := newFixture(t, testGraph())
	f.start(t)
	f.send(t, Load(SceneAchievements, ""))
	f.r.reset()

	f.send(t, Act(ActionAchievements))
	f.send(t, InputEvent{ID: "1"})

	assert.Empty(t, f.r.methods())
	assert.Equal(t, SceneAchievements, f.d.Active())
}
