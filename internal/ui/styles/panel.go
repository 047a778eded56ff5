package styles

import "github.com/charmbracelet/lipgloss"

// PanelStyle returns the bordered frame for a satellite panel. Focus is
// signalled with the theme's focus color, nothing else changes.
func PanelStyle(focused bool) lipgloss.Style {
	border := T().Border
	if focused {
		border = T().BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
