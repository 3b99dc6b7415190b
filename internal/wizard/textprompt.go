package wizard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/crateport/crateport/internal/tui/styles"
)

// TextPromptModel is a single-line text prompt, trimmed from the search
// wizard's textinput usage with the search/debounce machinery removed.
type TextPromptModel struct {
	label  string
	input  textinput.Model
	done   bool
	quit   bool
	width  int
	height int
}

var (
	promptLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.Primary)

	promptHintStyle = lipgloss.NewStyle().
				Foreground(styles.TextDim)
)

// NewTextPromptModel creates a text prompt labelled label with placeholder
// text shown until the user types something.
func NewTextPromptModel(label, placeholder string) TextPromptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return TextPromptModel{label: label, input: ti, width: 80, height: 20}
}

func (m TextPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m TextPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit

		case "enter":
			m.done = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TextPromptModel) View() string {
	var b strings.Builder
	b.WriteString(promptLabelStyle.Render(m.label))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(promptHintStyle.Render("enter confirm • esc cancel"))
	return b.String()
}

// Value returns the entered text and whether the prompt was confirmed
// (rather than cancelled).
func (m TextPromptModel) Value() (string, bool) {
	return m.input.Value(), m.done && !m.quit
}

// RunTextPrompt runs a single-line text prompt and returns the entered
// value.
func RunTextPrompt(label, placeholder string) (string, error) {
	model := NewTextPromptModel(label, placeholder)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	value, _ := finalModel.(TextPromptModel).Value()
	return value, nil
}
