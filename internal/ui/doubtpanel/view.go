package doubtpanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lectern-tui/lectern/internal/doubt"
	"github.com/lectern-tui/lectern/internal/icons"
	"github.com/lectern-tui/lectern/internal/ui"
	"github.com/lectern-tui/lectern/internal/ui/render"
	"github.com/lectern-tui/lectern/internal/ui/styles"
)

// View renders the Q&A panel.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	innerWidth := m.Width() - ui.BorderHeight
	listHeight := m.listHeight()

	header := headerStyle.Render(render.TruncateAndPad(
		fmt.Sprintf("Questions (%d)", len(m.doubts)), innerWidth))
	separator := render.Separator(innerWidth)
	list := m.renderList(innerWidth, listHeight)
	composer := m.renderComposer(innerWidth)

	content := header + "\n" + separator + "\n" + list + "\n" + separator + "\n" + composer

	return styles.PanelStyle(m.IsFocused()).
		Width(innerWidth).
		Render(content)
}

// renderList shows each question and, indented below it, its answer when
// one has arrived.
func (m Model) renderList(innerWidth, listHeight int) string {
	rows := m.buildRows(innerWidth)

	lines := make([]string, 0, listHeight)
	for i := range listHeight {
		idx := i + m.cursor.Offset()
		if idx >= len(rows) {
			lines = append(lines, render.EmptyLine(innerWidth))
			continue
		}
		lines = append(lines, rows[idx])
	}
	return strings.Join(lines, "\n")
}

// buildRows flattens questions and answers into display rows.
func (m Model) buildRows(width int) []string {
	var rows []string
	for _, d := range m.doubts {
		rows = append(rows, m.renderQuestion(d, width))
		if d.Answered() {
			rows = append(rows, m.renderAnswer(d, width))
		}
	}
	return rows
}

func (m Model) renderQuestion(d doubt.Doubt, width int) string {
	meta := metaStyle.Render(d.Asker + " · " + humanize.Time(d.AskedAt))
	marker := icons.Question() + " "
	textWidth := width - lipgloss.Width(marker) - lipgloss.Width(meta) - 1
	text := render.TruncateAndPadEllipsis(d.Text, textWidth)
	return questionStyle.Render(marker+text) + " " + meta
}

func (m Model) renderAnswer(d doubt.Doubt, width int) string {
	marker := "  " + icons.Answer() + " "
	text := render.TruncateAndPadEllipsis(d.Answer, width-lipgloss.Width(marker))
	return answerStyle.Render(marker + text)
}

func (m Model) renderComposer(innerWidth int) string {
	if m.composer.Focused() {
		return m.composer.View()
	}
	return hintStyle.Render(render.TruncateAndPad("a: ask a question", innerWidth))
}
