package lecturepanel

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-tui/lectern/internal/ui/styles"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	lastWatchedStyle = lipgloss.NewStyle().
				Foreground(styles.T().FgSubtle)

	lectureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	currentStyle = lipgloss.NewStyle().
			Foreground(styles.T().Primary).
			Bold(true)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252"))
)
