// Package outcome turns passage tags into typed game events.
package outcome

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the category of an outcome.
type Kind int

const (
	KindNone Kind = iota
	KindPath
	KindEnding
	KindMenu
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindEnding:
		return "ending"
	case KindMenu:
		return "menu"
	default:
		return "none"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "path":
		*k = KindPath
	case "ending":
		*k = KindEnding
	case "menu":
		*k = KindMenu
	case "none", "":
		*k = KindNone
	default:
		return fmt.Errorf("unknown outcome kind %q", text)
	}
	return nil
}

// Label names a narrative outcome. Labels double as asset manifest keys.
type Label string

const (
	LabelBadEnding     Label = "bad-ending"
	LabelGoodEnding    Label = "good-ending"
	LabelNeutralEnding Label = "neutral-ending"
	LabelNeutralPath   Label = "neutral-path"
	LabelGoodPath      Label = "good-path"
	LabelEasterEgg     Label = "easter-egg"
	LabelMenu          Label = "menu-page"
)

// Title renders a label for display, e.g. "Good Ending".
func (l Label) Title() string {
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(string(l), "-", " "))
}

// Outcome is the result of classifying a passage.
type Outcome struct {
	Kind  Kind  `json:"kind" yaml:"kind"`
	Label Label `json:"label,omitempty" yaml:"label,omitempty"`
}

var None = Outcome{Kind: KindNone}

func Path(l Label) Outcome   { return Outcome{Kind: KindPath, Label: l} }
func Ending(l Label) Outcome { return Outcome{Kind: KindEnding, Label: l} }
func Menu() Outcome          { return Outcome{Kind: KindMenu, Label: LabelMenu} }

func (o Outcome) IsEnding() bool { return o.Kind == KindEnding }

func (o Outcome) String() string {
	if o.Label == "" {
		return o.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", o.Kind, o.Label)
}
