package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crateport/crateport/internal/progress"
)

func keyMsgFor(key string) tea.KeyMsg {
	if key == "q" {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
	}
	return tea.KeyMsg{Type: tea.KeyCtrlC}
}

func TestUpdateTracksLatestEvent(t *testing.T) {
	rep := progress.NewReporter(4)
	m := NewModel(rep, nil)

	next, _ := m.Update(eventMsg(progress.Event{Percent: 42, Message: "copying audio"}))
	model := next.(Model)

	if model.percent != 42 || model.message != "copying audio" {
		t.Fatalf("unexpected model state: %+v", model)
	}
}

func TestUpdateRecordsTerminalFailure(t *testing.T) {
	rep := progress.NewReporter(4)
	m := NewModel(rep, nil)

	next, _ := m.Update(terminalMsg(progress.Terminal{Kind: progress.TerminalFailed, Err: errors.New("boom")}))
	model := next.(Model)

	if model.terminal == nil || model.terminal.Kind != progress.TerminalFailed {
		t.Fatalf("expected a recorded failed terminal, got %+v", model.terminal)
	}
}

func TestQuitKeyInvokesCancelBeforeTerminal(t *testing.T) {
	rep := progress.NewReporter(4)
	cancelled := false
	m := NewModel(rep, func() { cancelled = true })

	keyMsg := keyMsgFor("q")
	m.Update(keyMsg)

	if !cancelled {
		t.Fatalf("expected q to invoke cancel before a terminal event arrives")
	}
}
