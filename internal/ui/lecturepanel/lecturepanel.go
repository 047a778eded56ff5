// Package lecturepanel renders the course's lecture list with the playing
// lecture marked and finished lectures flagged.
package lecturepanel

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lectern-tui/lectern/internal/lecture"
	"github.com/lectern-tui/lectern/internal/ui"
	"github.com/lectern-tui/lectern/internal/ui/cursor"
)

// SelectLectureMsg is sent when the user picks a lecture to switch to.
type SelectLectureMsg struct {
	ID string
}

// Model represents the lecture panel state.
type Model struct {
	ui.Base
	cursor cursor.Cursor

	lectures    *lecture.Collection
	currentID   string
	completed   map[string]bool
	lastWatched map[string]time.Time
}

// New creates a lecture panel over a collection.
func New(lectures *lecture.Collection) Model {
	return Model{
		cursor:      cursor.New(ui.ScrollMargin),
		lectures:    lectures,
		completed:   make(map[string]bool),
		lastWatched: make(map[string]time.Time),
	}
}

// SetCurrent marks the lecture that is loaded in the player and moves the
// cursor to it.
func (m *Model) SetCurrent(id string) {
	m.currentID = id
	if idx := m.lectures.IndexOf(id); idx >= 0 {
		m.cursor.Jump(idx, m.lectures.Len(), m.listHeight())
	}
}

// Current returns the marked lecture ID.
func (m Model) Current() string {
	return m.currentID
}

// SetCompleted marks a lecture as finished.
func (m *Model) SetCompleted(id string) {
	m.completed[id] = true
}

// SetHistory seeds completion flags and last-watched times, normally from
// the checkpoint store at startup.
func (m *Model) SetHistory(completed map[string]bool, lastWatched map[string]time.Time) {
	if completed != nil {
		m.completed = completed
	}
	if lastWatched != nil {
		m.lastWatched = lastWatched
	}
}

// Update handles messages for the lecture panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return m, nil
	}

	if m.cursor.HandleKey(keyMsg.String(), m.lectures.Len(), m.listHeight()) {
		return m, nil
	}

	if keyMsg.String() == "enter" && m.lectures.Len() > 0 {
		l := m.lectures.At(m.cursor.Pos())
		if l != nil && l.ID != m.currentID {
			return m, func() tea.Msg {
				return SelectLectureMsg{ID: l.ID}
			}
		}
	}

	return m, nil
}

func (m Model) listHeight() int {
	return m.Height() - ui.PanelOverhead
}
