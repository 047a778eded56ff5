package lecturepanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lectern-tui/lectern/internal/icons"
	"github.com/lectern-tui/lectern/internal/lecture"
	"github.com/lectern-tui/lectern/internal/ui"
	"github.com/lectern-tui/lectern/internal/ui/render"
	"github.com/lectern-tui/lectern/internal/ui/styles"
)

// View renders the lecture panel.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	innerWidth := m.Width() - ui.BorderHeight
	listHeight := m.listHeight()

	header := m.renderHeader(innerWidth)
	separator := render.Separator(innerWidth)
	list := m.renderList(innerWidth, listHeight)

	content := header + "\n" + separator + "\n" + list

	return styles.PanelStyle(m.IsFocused()).
		Width(innerWidth).
		Render(content)
}

// renderHeader shows progress through the course and, when known, how long
// ago the current lecture was last watched.
func (m Model) renderHeader(innerWidth int) string {
	done := 0
	for _, v := range m.completed {
		if v {
			done++
		}
	}
	left := fmt.Sprintf("Lectures (%d/%d)", done, m.lectures.Len())

	var right string
	if at, ok := m.lastWatched[m.currentID]; ok && !at.IsZero() {
		right = icons.Clock() + " " + humanize.Time(at)
	}

	leftWidth := innerWidth - lipgloss.Width(right)
	left = render.TruncateAndPad(left, leftWidth)

	return headerStyle.Render(left) + lastWatchedStyle.Render(right)
}

func (m Model) renderList(innerWidth, listHeight int) string {
	lectures := m.lectures.All()
	currentIdx := m.lectures.IndexOf(m.currentID)

	lines := make([]string, 0, listHeight)
	for i := range listHeight {
		idx := i + m.cursor.Offset()
		if idx >= len(lectures) {
			lines = append(lines, render.EmptyLine(innerWidth))
			continue
		}
		lines = append(lines, m.renderLine(lectures[idx], idx, currentIdx, innerWidth))
	}

	return strings.Join(lines, "\n")
}

// renderLine renders one lecture: marker, title, then duration and the
// completion flag right-aligned.
func (m Model) renderLine(l lecture.Lecture, idx, currentIdx, width int) string {
	prefix := "  "
	if idx == currentIdx {
		prefix = icons.Play() + " "
	}

	flag := "  "
	if m.completed[l.ID] {
		flag = " " + icons.Completed()
	}

	duration := formatDuration(l.Duration.Seconds())
	suffix := " " + duration + flag

	titleWidth := width - lipgloss.Width(prefix) - lipgloss.Width(suffix)
	title := render.TruncateAndPadEllipsis(l.Title, titleWidth)

	line := prefix + title + suffix

	return m.lineStyle(idx, currentIdx, m.completed[l.ID]).Render(line)
}

func (m Model) lineStyle(idx, currentIdx int, completed bool) lipgloss.Style {
	isCursor := idx == m.cursor.Pos() && m.IsFocused()

	switch {
	case isCursor && idx == currentIdx:
		return cursorStyle.Inherit(currentStyle)
	case isCursor:
		return cursorStyle
	case idx == currentIdx:
		return currentStyle
	case completed:
		return completedStyle
	default:
		return lectureStyle
	}
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}
