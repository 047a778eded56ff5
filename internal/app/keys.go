package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lectern-tui/lectern/internal/ui/controlbar"
)

// panelKeys are consumed by an open panel instead of acting as playback
// shortcuts.
var panelKeys = map[string]bool{
	"j": true, "k": true, "g": true, "G": true,
	"enter": true, "a": true, "esc": true,
	"pgup": true, "pgdown": true,
}

// handleKey routes keyboard input. While the question composer is focused
// every key belongs to it; playback shortcuts stay suppressed so typing "f"
// does not toggle fullscreen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.panel == PanelDoubts && m.DoubtPanel.IsComposing() {
		if key == "ctrl+c" {
			return m.requestClose()
		}
		var cmd tea.Cmd
		m.DoubtPanel, cmd = m.DoubtPanel.Update(msg)
		return m, cmd
	}

	if m.panel != PanelNone && panelKeys[key] {
		return m.updateOpenPanel(msg)
	}

	switch key {
	case "q", "ctrl+c":
		return m.requestClose()

	case " ", "k":
		return m, m.sessionCmd(func() error { return m.controller.TogglePlay() })

	case "left", "h":
		return m, m.sessionCmd(func() error { return m.controller.SkipBackward() })

	case "right", "l":
		return m, m.sessionCmd(func() error { return m.controller.SkipForward() })

	case "up":
		return m, m.sessionCmd(func() error { return m.controller.VolumeUp() })

	case "down":
		return m, m.sessionCmd(func() error { return m.controller.VolumeDown() })

	case "m":
		return m, m.sessionCmd(func() error { return m.controller.ToggleMute() })

	case "f":
		return m, m.sessionCmd(func() error { return m.controller.ToggleFullscreen() })

	case ",":
		return m, m.sessionCmd(func() error { return m.controller.RateDown() })

	case ".":
		return m, m.sessionCmd(func() error { return m.controller.RateUp() })

	case "L":
		m.togglePanel(PanelLectures)
		return m, nil

	case "d":
		m.togglePanel(PanelDoubts)
		return m, nil
	}

	// Unhandled keys still count as activity.
	if m.controller != nil {
		m.controller.ShowControls()
	}
	return m, nil
}

// sessionCmd runs a controller intent, swallowing it while no session is
// loaded. Intent errors surface through the session's error events.
func (m Model) sessionCmd(fn func() error) tea.Cmd {
	if m.controller == nil {
		return nil
	}
	return func() tea.Msg {
		_ = fn()
		return nil
	}
}

// togglePanel opens a panel, or closes it when already open. Opening one
// panel closes the other.
func (m *Model) togglePanel(p PanelMode) {
	if m.panel == p {
		m.panel = PanelNone
	} else {
		m.panel = p
	}
	m.LecturePanel.SetFocused(m.panel == PanelLectures)
	m.DoubtPanel.SetFocused(m.panel == PanelDoubts)
	m.resizePanels()
}

func (m Model) updateOpenPanel(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.panel {
	case PanelLectures:
		m.LecturePanel, cmd = m.LecturePanel.Update(msg)
	case PanelDoubts:
		m.DoubtPanel, cmd = m.DoubtPanel.Update(msg)
	}
	return m, cmd
}

// handleMouse maps pointer input onto the control surface: motion reveals
// the controls and previews the seek target, a click on the track seeks.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.controller != nil {
		m.controller.ShowControls()
	}

	barTop := m.height - playbackBarHeight()
	onTrackRow := msg.Y == barTop+1 // content row inside the border

	layout := controlbar.ComputeLayout(m.controlbarState(), m.width)

	switch msg.Action {
	case tea.MouseActionMotion:
		if onTrackRow && layout.Contains(msg.X) {
			m.hoverColumn = msg.X
		} else {
			m.hoverColumn = -1
		}
		return m, nil

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onTrackRow {
			return m, nil
		}
		if !layout.Contains(msg.X) {
			return m, nil
		}
		target := controlbar.TimeAt(layout, msg.X, m.playback.Duration)
		return m, m.sessionCmd(func() error { return m.controller.SeekTo(target) })
	}

	return m, nil
}
