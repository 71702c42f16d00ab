package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/story-player/pkg/game"
	"github.com/jwebster45206/story-player/pkg/state"
	"github.com/jwebster45206/story-player/pkg/story"
	"github.com/muesli/reflow/wordwrap"
)

// ConsoleUI is the BubbleTea model that draws whatever the Director last
// rendered and turns key presses into input events.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	title  string
	inputs chan<- game.InputEvent

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	scene        game.SceneID
	params       game.Params
	background   string
	audio        string
	mouth        string
	sweat        bool
	prompt       string
	choices      []story.Link
	cursor       int
	ending       string
	achievements state.EndingRecord

	status        string
	err           error
	showQuitModal bool
}

type directorErrMsg struct{ err error }

type copiedMsg struct{ err error }

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3).
			PaddingRight(3)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	proseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(title string, inputs chan<- game.InputEvent) ConsoleUI {
	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true
	return ConsoleUI{
		title:    title,
		inputs:   inputs,
		viewport: vp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

// emit hands ev to the Director without blocking Update.
func (m ConsoleUI) emit(ev game.InputEvent) tea.Cmd {
	inputs := m.inputs
	return func() tea.Msg {
		inputs <- ev
		return nil
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case renderMsg:
		msg.apply(&m)
		close(msg.done)
		return m, nil

	case directorErrMsg:
		m.err = msg.err
		m.refresh()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Ending copied to clipboard"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.storyWidth() - 6
		m.viewport.Height = m.height - 8
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.showQuitModal = true
			return m, nil
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.scene {
	case game.SceneSplash:
		switch key {
		case "enter", "n":
			return m, m.emit(game.Load(game.SceneChoices, story.StartPrimary))
		case "c":
			return m, m.emit(game.Load(game.SceneChoices, story.StartAlternate))
		case "a":
			return m, m.emit(game.Load(game.SceneAchievements, ""))
		}

	case game.SceneChoices:
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.choices) {
				return m, m.emit(game.Choice(m.choices[m.cursor]))
			}
			return m, nil
		}
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.choices) {
				return m, m.emit(game.Choice(m.choices[i]))
			}
		}

	case game.SceneGameOver:
		switch key {
		case "r", "enter":
			return m, m.emit(game.Act(game.ActionRestart))
		case "a":
			return m, m.emit(game.Act(game.ActionAchievements))
		case "y":
			return m, copyEnding(m.ending)
		}

	case game.SceneAchievements:
		switch key {
		case "r", "enter":
			return m, m.emit(game.Act(game.ActionRestart))
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func copyEnding(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case renderMsg:
		// The Director keeps running behind the modal.
		msg.apply(&m)
		close(msg.done)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) storyWidth() int {
	if m.width == 0 {
		return 56
	}
	return int(float64(m.width)*0.7) - 2
}

// refresh rebuilds the viewport content for the current scene and width.
func (m *ConsoleUI) refresh() {
	m.viewport.SetContent(m.sceneContent(m.viewport.Width))
	m.viewport.GotoTop()
}

func (m ConsoleUI) sceneContent(width int) string {
	if width <= 0 {
		width = 50
	}
	var content strings.Builder

	switch m.scene {
	case game.SceneSplash:
		content.WriteString(titleStyle.Render(strings.ToUpper(m.title)) + "\n\n")
		content.WriteString("Enter  new story\n")
		content.WriteString("c      continue from the alternate start\n")
		content.WriteString("a      achievements\n")

	case game.SceneChoices:
		content.WriteString(proseStyle.Render(wordwrap.String(strings.TrimSpace(m.prompt), width)) + "\n")

	case game.SceneGameOver:
		label := m.params.Outcome.Label
		if label != "" {
			content.WriteString(titleStyle.Render(label.Title()) + "\n\n")
		}
		content.WriteString(proseStyle.Render(wordwrap.String(strings.TrimSpace(m.ending), width)) + "\n")

	case game.SceneAchievements:
		content.WriteString(titleStyle.Render("ACHIEVEMENTS") + "\n\n")
		content.WriteString(achievementList(m.achievements))
	}

	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render(wordwrap.String("Error: "+m.err.Error(), width)) + "\n")
	}
	return content.String()
}

func achievementList(record state.EndingRecord) string {
	if len(record) == 0 {
		return lockedStyle.Render("No endings tracked yet.") + "\n"
	}
	var b strings.Builder
	for _, name := range record.Names() {
		if record[name].Got {
			b.WriteString(choiceStyle.Render("★ "+name) + "\n")
		} else {
			b.WriteString(lockedStyle.Render("☆ ???") + "\n")
		}
	}
	fmt.Fprintf(&b, "\n%d of %d unlocked\n", record.Unlocked(), len(record))
	return b.String()
}

func (m ConsoleUI) choiceList() string {
	var b strings.Builder
	for i, l := range m.choices {
		line := fmt.Sprintf("%d. %s", i+1, l.Name)
		if i == m.cursor {
			b.WriteString(selectedChoiceStyle.Render("▶ "+line) + "\n")
		} else {
			b.WriteString(choiceStyle.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

func (m ConsoleUI) help() string {
	switch m.scene {
	case game.SceneChoices:
		return "↑/↓ or 1-9 to choose, Enter to confirm"
	case game.SceneGameOver:
		return "r restart · a achievements · y copy ending"
	case game.SceneAchievements:
		return "r back to title"
	}
	return "Esc to quit"
}

func (m ConsoleUI) metadata() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SCENE") + "\n")
	b.WriteString(string(m.scene) + "\n\n")
	b.WriteString("Background:\n" + m.background + "\n\n")
	b.WriteString("Audio:\n" + m.audio + "\n\n")
	if m.scene == game.SceneChoices {
		b.WriteString("Mouth:\n" + m.mouth + "\n")
		if m.sweat {
			b.WriteString("(sweating)\n")
		}
	}
	return b.String()
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your unlocked endings are already saved.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if !m.ready || m.width == 0 {
		return "\n  Initializing..."
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	storyWidth := m.storyWidth()
	metaWidth := m.width - storyWidth - 2

	parts := []string{m.viewport.View()}
	if m.scene == game.SceneChoices {
		parts = append(parts, "", m.choiceList())
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, promptStyle.Render(m.help()))

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(m.metadata())

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}
