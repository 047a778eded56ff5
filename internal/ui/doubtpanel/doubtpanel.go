// Package doubtpanel renders the Q&A side panel: previously asked questions
// with their answers, plus a composer for asking a new one.
package doubtpanel

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lectern-tui/lectern/internal/doubt"
	"github.com/lectern-tui/lectern/internal/ui"
	"github.com/lectern-tui/lectern/internal/ui/cursor"
)

// SubmitDoubtMsg is sent when the user submits a new question.
type SubmitDoubtMsg struct {
	Text string
}

// Model represents the Q&A panel state.
type Model struct {
	ui.Base
	cursor cursor.Cursor

	doubts   []doubt.Doubt
	composer textinput.Model
}

// New creates a Q&A panel.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.CharLimit = 500
	ti.Prompt = "> "
	return Model{
		cursor:   cursor.New(ui.ScrollMargin),
		composer: ti,
	}
}

// SetDoubts replaces the question list, newest last.
func (m *Model) SetDoubts(doubts []doubt.Doubt) {
	m.doubts = make([]doubt.Doubt, len(doubts))
	copy(m.doubts, doubts)
	m.cursor.ClampToBounds(len(m.doubts))
}

// Add appends a question to the list.
func (m *Model) Add(d doubt.Doubt) {
	m.doubts = append(m.doubts, d)
}

// IsComposing reports whether the composer has keyboard focus. While true
// the application must not treat keys as playback shortcuts.
func (m Model) IsComposing() bool {
	return m.composer.Focused()
}

// Update handles messages for the Q&A panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return m, nil
	}

	if m.composer.Focused() {
		return m.updateComposer(keyMsg)
	}

	if m.cursor.HandleKey(keyMsg.String(), len(m.doubts), m.listHeight()) {
		return m, nil
	}

	if keyMsg.String() == "a" {
		m.composer.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) updateComposer(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.composer.Blur()
		m.composer.Reset()
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.composer.Value())
		m.composer.Blur()
		m.composer.Reset()
		if text == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			return SubmitDoubtMsg{Text: text}
		}
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) listHeight() int {
	// The composer takes two extra rows at the bottom.
	return m.Height() - ui.PanelOverhead - 2
}
