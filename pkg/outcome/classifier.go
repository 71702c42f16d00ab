package outcome

// Story tags recognised by DefaultRules, as authored in Twine.
const (
	TagBadEnd      = "BAD-END"
	TagGoodEnd     = "Good-End"
	TagNeutralEnd  = "Neutral-End"
	TagNeutralPath = "Neutral-Path"
	TagGood        = "GOOD"
	TagEgg         = "EGG"
	TagMenu        = "MENU"
)

// Rule maps a single tag to an outcome.
type Rule struct {
	Tag     string  `json:"tag" yaml:"tag"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
}

// DefaultRules is evaluated top to bottom and the first matching tag wins.
// Passages may carry several tags; only one outcome is ever reported.
var DefaultRules = []Rule{
	{Tag: TagBadEnd, Outcome: Ending(LabelBadEnding)},
	{Tag: TagGoodEnd, Outcome: Ending(LabelGoodEnding)},
	{Tag: TagNeutralEnd, Outcome: Ending(LabelNeutralEnding)},
	{Tag: TagNeutralPath, Outcome: Path(LabelNeutralPath)},
	{Tag: TagGood, Outcome: Path(LabelGoodPath)},
	{Tag: TagEgg, Outcome: Ending(LabelEasterEgg)},
	{Tag: TagMenu, Outcome: Menu()},
}

// Classifier applies an ordered rule list and keeps per-session counters for
// every Path and Ending label it reports. It never touches the graph.
type Classifier struct {
	rules  []Rule
	counts map[Label]int
}

// NewClassifier copies rules; nil or empty selects DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	c := &Classifier{rules: make([]Rule, len(rules))}
	copy(c.rules, rules)
	c.Reset()
	return c
}

// Rules returns the rule order in effect.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Reset zeroes every counter the rule list can increment.
func (c *Classifier) Reset() {
	c.counts = make(map[Label]int, len(c.rules))
	for _, r := range c.rules {
		if counted(r.Outcome) {
			c.counts[r.Outcome.Label] = 0
		}
	}
}

// Classify returns the outcome of the first rule whose tag is present.
func (c *Classifier) Classify(tags []string) Outcome {
	for _, r := range c.rules {
		if !contains(tags, r.Tag) {
			continue
		}
		if counted(r.Outcome) {
			c.counts[r.Outcome.Label]++
		}
		return r.Outcome
	}
	return None
}

// Count returns the session counter for a label.
func (c *Classifier) Count(l Label) int {
	return c.counts[l]
}

// Counts returns a copy of all session counters.
func (c *Classifier) Counts() map[Label]int {
	out := make(map[Label]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

func counted(o Outcome) bool {
	return o.Kind == KindPath || o.Kind == KindEnding
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
