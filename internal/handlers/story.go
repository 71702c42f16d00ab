package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/story-player/pkg/game"
	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/jwebster45206/story-player/pkg/story"
)

// StoryResponse describes the loaded story without giving away its text.
type StoryResponse struct {
	Name           string                `json:"name"`
	Creator        string                `json:"creator,omitempty"`
	CreatorVersion string                `json:"creatorVersion,omitempty"`
	Passages       int                   `json:"passages"`
	StartNode      story.PID             `json:"startnode"`
	AltStartNode   story.PID             `json:"altstartnode"`
	Outcomes       map[outcome.Label]int `json:"outcomes"`
	Problems       []string              `json:"problems,omitempty"`
}

type StoryHandler struct {
	story  game.GraphSource
	rules  []outcome.Rule
	logger *slog.Logger
}

func NewStoryHandler(source game.GraphSource, rules []outcome.Rule, logger *slog.Logger) *StoryHandler {
	return &StoryHandler{story: source, rules: rules, logger: logger}
}

func (h *StoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	g := h.story.Current()
	if g == nil {
		writeError(w, h.logger, http.StatusServiceUnavailable, "No story loaded")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, Describe(g, h.rules))
}

// Describe summarises g, counting passages per outcome label.
func Describe(g *story.Graph, rules []outcome.Rule) StoryResponse {
	c := outcome.NewClassifier(rules)
	g.Passages(func(p *story.Passage) bool {
		c.Classify(p.Tags)
		return true
	})

	resp := StoryResponse{
		Name:           g.Name(),
		Creator:        g.Creator(),
		CreatorVersion: g.CreatorVersion(),
		Passages:       g.Len(),
		StartNode:      g.StartNode(),
		AltStartNode:   g.AltStartNode(),
		Outcomes:       c.Counts(),
	}
	for _, err := range g.Validate() {
		resp.Problems = append(resp.Problems, err.Error())
	}
	return resp
}
