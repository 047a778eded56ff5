package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-tui/lectern/internal/icons"
	"github.com/lectern-tui/lectern/internal/session"
	"github.com/lectern-tui/lectern/internal/ui/controlbar"
	"github.com/lectern-tui/lectern/internal/ui/layout"
	"github.com/lectern-tui/lectern/internal/ui/overlay"
	"github.com/lectern-tui/lectern/internal/ui/styles"
)

func playbackBarHeight() int {
	return controlbar.Height()
}

// View renders the whole screen: the player stage, an optional side panel
// and the control surface at the bottom.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 || m.quitting {
		return ""
	}

	stageHeight := layout.StageHeight(m.height, playbackBarHeight())
	stageWidth := layout.StageWidth(m.width, m.panel != PanelNone)

	stage := m.renderStage(stageWidth, stageHeight)

	if overlay.ShieldVisible(m.playback.Position, m.playback.Duration) && !m.loading && m.loadErr == "" {
		shield := overlay.RenderShield(stageWidth, stageHeight, m.lectureTitle())
		stage = overlay.Compose(stage, shield, stageWidth, stageHeight)
	}

	var row string
	switch m.panel {
	case PanelLectures:
		row = lipgloss.JoinHorizontal(lipgloss.Top, stage, m.LecturePanel.View())
	case PanelDoubts:
		row = lipgloss.JoinHorizontal(lipgloss.Top, stage, m.DoubtPanel.View())
	default:
		row = stage
	}

	bar := m.renderBar()

	return row + "\n" + bar
}

// renderStage draws the player area: title, subject and current status.
func (m Model) renderStage(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	var lines []string

	title := styles.ApplyBoldGradient(m.lectureTitle(), styles.T().Primary, styles.T().Secondary)
	lines = append(lines, title)

	if lec := m.CurrentLecture(); lec != nil && lec.Subject != "" {
		lines = append(lines, subjectStyle().Render(lec.Subject))
	}
	lines = append(lines, "")

	switch {
	case m.loadErr != "":
		lines = append(lines, styles.T().S().Error.Render(m.loadErr))
	case m.loading || m.playback.Status == session.StatusIdle:
		lines = append(lines, statusLineStyle().Render("loading..."))
	case m.playback.Ended:
		lines = append(lines, statusLineStyle().Render(icons.Completed()+" lecture finished"))
	case m.playback.Playing:
		lines = append(lines, statusLineStyle().Render(icons.Play()+" playing"))
	default:
		lines = append(lines, statusLineStyle().Render(icons.Pause()+" paused"))
	}

	if m.playback.Fullscreen {
		lines = append(lines, statusLineStyle().Render(icons.Fullscreen()+" fullscreen"))
	}
	if m.statusMsg != "" {
		lines = append(lines, "", styles.T().S().Warning.Render(m.statusMsg))
	}

	content := strings.Join(lines, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderBar draws the control surface, or a blank strip while hidden.
func (m Model) renderBar() string {
	if !m.playback.ControlsVisible {
		return strings.Repeat("\n", playbackBarHeight()-1)
	}
	return controlbar.Render(m.controlbarState(), m.width)
}

func (m Model) controlbarState() controlbar.State {
	return controlbar.State{
		Playing:     m.playback.Playing,
		Position:    m.playback.Position,
		Duration:    m.playback.Duration,
		Buffered:    m.playback.BufferedSeconds,
		Volume:      m.playback.Volume,
		Muted:       m.playback.Muted,
		Rate:        m.playback.Rate,
		HoverColumn: m.hoverColumn,
	}
}

func (m Model) lectureTitle() string {
	if lec := m.CurrentLecture(); lec != nil {
		return lec.Title
	}
	return ""
}

func subjectStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func statusLineStyle() lipgloss.Style {
	return styles.T().S().Base
}
