// Package story is a read-only view over a Twine story exported in the
// Twison JSON shape. Passage ids are 1-based; id N lives at index N-1.
package story

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LinkMarkup opens raw choice markup inside passage text.
const LinkMarkup = "[["

// StartType selects which of the two start passages a session begins on.
type StartType string

const (
	StartPrimary   StartType = "primary"
	StartAlternate StartType = "alternate"
)

// PID is a passage id. Twison writes ids as strings, hand-written documents
// often use numbers, so both are accepted.
type PID int

func (p *PID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*p = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid passage id %s: %w", data, err)
	}
	*p = PID(n)
	return nil
}

// Link is an outgoing choice from a passage.
type Link struct {
	Name string `json:"name"`           // Label shown to the player
	Link string `json:"link,omitempty"` // Target passage name, as authored
	PID  PID    `json:"pid"`            // Target passage id
}

// Passage is a single node of the story graph.
type Passage struct {
	PID   PID      `json:"pid"`
	Name  string   `json:"name"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags,omitempty"`
	Links []Link   `json:"links,omitempty"`
}

// HasTag reports whether the passage carries tag. Tags are case-sensitive.
func (p *Passage) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DisplayText returns the narrative prose of a passage: everything before the
// first raw link markup.
func DisplayText(p *Passage) string {
	if p == nil {
		return ""
	}
	if i := strings.Index(p.Text, LinkMarkup); i >= 0 {
		return p.Text[:i]
	}
	return p.Text
}

// document mirrors the exported JSON file.
type document struct {
	Name           string    `json:"name"`
	Creator        string    `json:"creator,omitempty"`
	CreatorVersion string    `json:"creator-version,omitempty"`
	StartNode      PID       `json:"startnode"`
	AltStartNode   PID       `json:"altstartnode"`
	Passages       []Passage `json:"passages"`
}

// Graph is the immutable passage graph. It has no mutation methods.
type Graph struct {
	name           string
	creator        string
	creatorVersion string
	startNode      PID
	altStartNode   PID
	passages       []Passage
}

// Parse decodes a Twison document. Structural problems that would break
// traversal are reported by Validate, not here.
func Parse(data []byte) (*Graph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal story: %w", err)
	}
	if len(doc.Passages) == 0 {
		return nil, fmt.Errorf("story %q has no passages", doc.Name)
	}
	if doc.AltStartNode == 0 {
		doc.AltStartNode = doc.StartNode
	}
	return &Graph{
		name:           doc.Name,
		creator:        doc.Creator,
		creatorVersion: doc.CreatorVersion,
		startNode:      doc.StartNode,
		altStartNode:   doc.AltStartNode,
		passages:       doc.Passages,
	}, nil
}

// New builds a graph directly from passages; used by tests and tools.
func New(name string, start, altStart PID, passages []Passage) *Graph {
	ps := make([]Passage, len(passages))
	copy(ps, passages)
	return &Graph{
		name:         name,
		startNode:    start,
		altStartNode: altStart,
		passages:     ps,
	}
}

func (g *Graph) Name() string           { return g.name }
func (g *Graph) Creator() string        { return g.creator }
func (g *Graph) CreatorVersion() string { return g.creatorVersion }
func (g *Graph) Len() int               { return len(g.passages) }
func (g *Graph) StartNode() PID         { return g.startNode }
func (g *Graph) AltStartNode() PID      { return g.altStartNode }

// Start returns the start passage id for the given start type. Anything other
// than StartAlternate resolves to the primary start.
func (g *Graph) Start(t StartType) PID {
	if t == StartAlternate {
		return g.altStartNode
	}
	return g.startNode
}

// Resolve maps a passage id to its passage. Repeated calls return the same
// pointer.
func (g *Graph) Resolve(pid PID) (*Passage, error) {
	if pid < 1 || int(pid) > len(g.passages) {
		return nil, &LookupError{PID: pid, Len: len(g.passages)}
	}
	return &g.passages[pid-1], nil
}

// Passages calls fn for every passage in id order. Returning false stops the
// walk.
func (g *Graph) Passages(fn func(p *Passage) bool) {
	for i := range g.passages {
		if !fn(&g.passages[i]) {
			return
		}
	}
}

// Validate checks what traversal depends on: start nodes and link targets
// resolve, passage ids match their position and names are unique.
func (g *Graph) Validate() []error {
	var errs []error
	if _, err := g.Resolve(g.startNode); err != nil {
		errs = append(errs, fmt.Errorf("startnode: %w", err))
	}
	if _, err := g.Resolve(g.altStartNode); err != nil {
		errs = append(errs, fmt.Errorf("altstartnode: %w", err))
	}
	seen := make(map[string]PID, len(g.passages))
	for i := range g.passages {
		p := &g.passages[i]
		if int(p.PID) != i+1 {
			errs = append(errs, fmt.Errorf("passage %q at index %d has pid %d", p.Name, i, p.PID))
		}
		if prev, ok := seen[p.Name]; ok {
			errs = append(errs, fmt.Errorf("passage name %q used by pids %d and %d", p.Name, prev, p.PID))
		}
		seen[p.Name] = p.PID
		for _, l := range p.Links {
			if _, err := g.Resolve(l.PID); err != nil {
				errs = append(errs, fmt.Errorf("passage %q link %q: %w", p.Name, l.Name, err))
			}
		}
	}
	return errs
}
