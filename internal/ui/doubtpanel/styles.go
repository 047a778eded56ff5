package doubtpanel

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-tui/lectern/internal/ui/styles"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	answerStyle = lipgloss.NewStyle().
			Foreground(styles.T().Success)

	metaStyle = lipgloss.NewStyle().
			Foreground(styles.T().FgSubtle)

	hintStyle = lipgloss.NewStyle().
			Foreground(styles.T().FgSubtle)
)
