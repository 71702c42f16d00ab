package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/story-player/pkg/assets"
	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/jwebster45206/story-player/pkg/story"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <stories.json> [assets.yaml]\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &StoryValidator{}
	if len(os.Args) > 2 {
		if err := validator.loadRules(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	validator.report(os.Stdout)
	fmt.Println("Story file is valid!")
}

// StoryValidator collects problems that would break traversal (errors) and
// ones that only look like authoring mistakes (warnings).
type StoryValidator struct {
	errors   []string
	warnings []string
	graph    *story.Graph
	counts   map[outcome.Label]int
	rules    []outcome.Rule // nil means outcome.DefaultRules
}

// loadRules takes the tag rules from an asset manifest, so the report
// classifies passages the way the player will.
func (v *StoryValidator) loadRules(manifestPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", manifestPath, err)
	}
	m, err := assets.ParseManifest(data)
	if err != nil {
		return err
	}
	v.rules = m.OutcomeRules()
	return nil
}

func (v *StoryValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if !strings.HasSuffix(filepath.Base(filename), ".json") {
		return fmt.Errorf("story file must have .json extension: %s", filepath.Base(filename))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	g, err := story.Parse(data)
	if err != nil {
		return err
	}
	v.validateGraph(g)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *StoryValidator) validateGraph(g *story.Graph) {
	v.graph = g
	v.errors = nil
	v.warnings = nil
	for _, err := range g.Validate() {
		v.errors = append(v.errors, err.Error())
	}

	c := outcome.NewClassifier(v.rules)
	g.Passages(func(p *story.Passage) bool {
		o := c.Classify(p.Tags)
		switch {
		case o.IsEnding() && len(p.Links) > 0:
			v.warnings = append(v.warnings, fmt.Sprintf("ending %q has links that can never be followed", p.Name))
		case o.Kind != outcome.KindEnding && o.Kind != outcome.KindMenu && len(p.Links) == 0:
			v.warnings = append(v.warnings, fmt.Sprintf("passage %q is a dead end without an ending tag", p.Name))
		}
		return true
	})
	v.counts = c.Counts()
}

func (v *StoryValidator) report(w io.Writer) {
	if v.graph == nil {
		return
	}
	fmt.Fprintf(w, "%s: %d passages, start %d, alternate start %d\n",
		v.graph.Name(), v.graph.Len(), v.graph.StartNode(), v.graph.AltStartNode())

	labels := make([]outcome.Label, 0, len(v.counts))
	for l := range v.counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	for _, l := range labels {
		fmt.Fprintf(w, "  %-16s %d\n", l.Title(), v.counts[l])
	}
	for _, warn := range v.warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}
