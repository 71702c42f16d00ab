package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want Outcome
	}{
		{"no tags", nil, None},
		{"unknown tag", []string{"intro"}, None},
		{"bad ending", []string{TagBadEnd}, Ending(LabelBadEnding)},
		{"good ending", []string{TagGoodEnd}, Ending(LabelGoodEnding)},
		{"neutral ending", []string{TagNeutralEnd}, Ending(LabelNeutralEnding)},
		{"neutral path", []string{TagNeutralPath}, Path(LabelNeutralPath)},
		{"good path", []string{TagGood}, Path(LabelGoodPath)},
		{"easter egg", []string{TagEgg}, Ending(LabelEasterEgg)},
		{"menu", []string{TagMenu}, Menu()},
		{"bad ending beats good path", []string{TagGood, TagBadEnd}, Ending(LabelBadEnding)},
		{"ending beats path", []string{TagNeutralPath, TagNeutralEnd}, Ending(LabelNeutralEnding)},
		{"path beats egg", []string{TagEgg, TagNeutralPath}, Path(LabelNeutralPath)},
		{"egg beats menu", []string{TagMenu, TagEgg}, Ending(LabelEasterEgg)},
		{"case sensitive", []string{"good-end", "bad-end"}, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(nil)
			assert.Equal(t, tt.want, c.Classify(tt.tags))
		})
	}
}

func TestClassify_Counters(t *testing.T) {
	c := NewClassifier(nil)

	counts := c.Counts()
	require.Len(t, counts, 6, "every counted label starts at zero")
	for label, n := range counts {
		assert.Zero(t, n, label)
	}
	_, hasMenu := counts[LabelMenu]
	assert.False(t, hasMenu, "menu outcomes are not counted")

	c.Classify([]string{TagBadEnd, TagGood})
	c.Classify([]string{TagGood})
	c.Classify([]string{TagGood})
	c.Classify([]string{TagMenu})
	c.Classify([]string{"nothing"})

	assert.Equal(t, 1, c.Count(LabelBadEnding))
	assert.Equal(t, 2, c.Count(LabelGoodPath))
	assert.Equal(t, 0, c.Count(LabelMenu))

	c.Reset()
	assert.Equal(t, 0, c.Count(LabelGoodPath))
	assert.Len(t, c.Counts(), 6)
}

func TestClassifier_CustomRuleOrder(t *testing.T) {
	c := NewClassifier([]Rule{
		{Tag: TagGood, Outcome: Path(LabelGoodPath)},
		{Tag: TagBadEnd, Outcome: Ending(LabelBadEnding)},
	})
	assert.Equal(t, Path(LabelGoodPath), c.Classify([]string{TagBadEnd, TagGood}))

	rules := c.Rules()
	rules[0].Tag = "mutated"
	assert.Equal(t, TagGood, c.Rules()[0].Tag, "Rules returns a copy")
}

func TestDefaultRulesOrder(t *testing.T) {
	var tags []string
	for _, r := range DefaultRules {
		tags = append(tags, r.Tag)
	}
	assert.Equal(t, []string{TagBadEnd, TagGoodEnd, TagNeutralEnd, TagNeutralPath, TagGood, TagEgg, TagMenu}, tags)
}

func TestLabelTitle(t *testing.T) {
	assert.Equal(t, "Good Ending", LabelGoodEnding.Title())
	assert.Equal(t, "Easter Egg", LabelEasterEgg.Title())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "ending(bad-ending)", Ending(LabelBadEnding).String())
}
