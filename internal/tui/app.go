// Package tui renders a running conversion's progress, grounded on
// tessro-riff/internal/tui's bubbletea Model but replacing its Spotify
// poll/search loop with a single listener on a progress.Reporter's two
// channels (spec.md §6 "progress sink").
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crateport/crateport/internal/progress"
	"github.com/crateport/crateport/internal/tui/styles"
)

type eventMsg progress.Event
type terminalMsg progress.Terminal

// Model is the progress-display TUI model.
type Model struct {
	rep    *progress.Reporter
	width  int
	height int

	percent  int
	message  string
	terminal *progress.Terminal

	cancel func()
}

// NewModel creates a model that listens on rep. cancel, if non-nil, is
// invoked when the user presses ctrl+c or q before the run finishes.
func NewModel(rep *progress.Reporter, cancel func()) Model {
	return Model{rep: rep, cancel: cancel}
}

func waitForEvent(rep *progress.Reporter) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-rep.Events()
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

func waitForTerminal(rep *progress.Reporter) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-rep.Terminal()
		if !ok {
			return nil
		}
		return terminalMsg(t)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.rep), waitForTerminal(m.rep))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.terminal == nil && m.cancel != nil {
				m.cancel()
				return m, nil
			}
			return m, tea.Quit
		}
		return m, nil

	case eventMsg:
		m.percent = msg.Percent
		m.message = msg.Message
		return m, waitForEvent(m.rep)

	case terminalMsg:
		t := progress.Terminal(msg)
		m.terminal = &t
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 60
	}

	var b string
	b += styles.Title.Render("crateport") + "\n\n"

	if m.terminal != nil {
		b += formatTerminal(*m.terminal) + "\n"
		return b
	}

	barWidth := width - 10
	if barWidth < 10 {
		barWidth = 10
	}
	b += fmt.Sprintf("[%3d%%] %s\n", m.percent, m.message)
	b += styles.ProgressBar(float64(m.percent), barWidth) + "\n\n"
	b += styles.Dim.Render("ctrl+c: cancel")
	return b
}

func formatTerminal(t progress.Terminal) string {
	switch t.Kind {
	case progress.TerminalDone:
		return styles.Done.Render("done: " + t.Summary)
	case progress.TerminalCancelled:
		return styles.Cancelled.Render("cancelled: " + t.Summary)
	default:
		msg := "failed"
		if t.Err != nil {
			msg = "failed: " + t.Err.Error()
		}
		return styles.Failed.Render(msg)
	}
}

// Run starts the TUI, blocking until the conversion finishes or the user
// quits.
func Run(rep *progress.Reporter, cancel func()) error {
	p := tea.NewProgram(NewModel(rep, cancel), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
