package controlbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-tui/lectern/internal/ui/styles"
)

func barStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().Border)
}

func statusStyle() lipgloss.Style  { return styles.T().S().Active }
func timeStyle() lipgloss.Style    { return styles.T().S().Muted }
func rateStyle() lipgloss.Style    { return styles.T().S().Subtle }
func previewStyle() lipgloss.Style { return styles.T().S().Title }

func playedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Primary)
}

func knobStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Primary).Bold(true)
}

func bufferedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().FgMuted)
}

func emptyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().FgSubtle)
}
