package ws

import (
	"encoding/json"

	"github.com/jwebster45206/story-player/pkg/game"
	"github.com/jwebster45206/story-player/pkg/state"
	"github.com/jwebster45206/story-player/pkg/story"
)

// Frame types on the wire.
const (
	TypeRender = "render" // server -> client, must be acked
	TypeAck    = "ack"    // client -> server
	TypeInput  = "input"  // client -> server
	TypeError  = "error"  // server -> client, session is over
)

// Render methods, one per Renderer call.
const (
	MethodInitialize            = "initialize"
	MethodEnterScene            = "enterScene"
	MethodExitScene             = "exitScene"
	MethodUpdateBackground      = "updateBackground"
	MethodUpdateBackgroundAudio = "updateBackgroundAudio"
	MethodUpdatePrompt          = "updatePrompt"
	MethodUpdateWordChoices     = "updateWordChoices"
	MethodAnimateMouth          = "animateMouth"
	MethodShowSweat             = "showSweat"
	MethodUpdateEnding          = "updateEnding"
	MethodShowAchievements      = "showAchievements"
)

// Outbound is a frame written by the server.
type Outbound struct {
	Type    string `json:"type"`
	Seq     uint64 `json:"seq,omitempty"`
	Method  string `json:"method,omitempty"`
	Payload any    `json:"payload,omitempty"`
	Message string `json:"message,omitempty"`
}

// Inbound is a frame read from the client. Payload is an InputEvent for
// input frames.
type Inbound struct {
	Type    string          `json:"type"`
	Seq     uint64          `json:"seq,omitempty"`
	Error   string          `json:"error,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type scenePayload struct {
	Scene  game.SceneID `json:"scene"`
	Params *game.Params `json:"params,omitempty"`
}

type valuePayload struct {
	Value any `json:"value"`
}

type choicesPayload struct {
	Choices []story.Link `json:"choices"`
}

type achievementsPayload struct {
	Endings state.EndingRecord `json:"endings"`
	Order   []string           `json:"order"`
}
