package wizard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/crateport/crateport/internal/tui/styles"
)

// PickerModel is the bubbletea model for a single-choice list picker,
// generalised from the device picker's cursor/select loop.
type PickerModel struct {
	title    string
	options  []string
	cursor   int
	selected string
	chosen   bool
	width    int
	height   int
}

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.Primary)

	pickerItemStyle = lipgloss.NewStyle().
				PaddingLeft(2)

	pickerSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(styles.Border)

	pickerHintStyle = lipgloss.NewStyle().
				Foreground(styles.TextDim)
)

// NewPickerModel creates a list picker over options, titled title.
func NewPickerModel(title string, options []string) PickerModel {
	return PickerModel{title: title, options: options, width: 80, height: 20}
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if len(m.options) > 0 && m.cursor < len(m.options) {
				m.selected = m.options[m.cursor]
				m.chosen = true
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, option := range m.options {
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("▸ " + option))
		} else {
			b.WriteString(pickerItemStyle.Render("  " + option))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickerHintStyle.Render("↑/↓ navigate • enter select • esc quit"))

	return b.String()
}

// Selected returns the chosen option and whether one was chosen.
func (m PickerModel) Selected() (string, bool) {
	return m.selected, m.chosen
}

// RunPicker runs a list picker over options and returns the chosen value.
func RunPicker(title string, options []string) (string, error) {
	model := NewPickerModel(title, options)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	choice, _ := finalModel.(PickerModel).Selected()
	return choice, nil
}
