package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-tui/lectern/internal/ui/styles"
)

// shieldEdge is how close to either end of the media the shield shows, in
// seconds. It hides branding the embedded player paints over the first and
// last moments of a lecture.
const shieldEdge = 1.0

// ShieldVisible reports whether the occlusion shield should cover the
// player. It is visible near the very start and the very end of the media,
// and whenever the duration is still unknown.
func ShieldVisible(position, duration float64) bool {
	if duration <= 0 {
		return true
	}
	return position < shieldEdge || duration-position <= shieldEdge
}

// RenderShield draws an opaque panel of the given size with the lecture
// title centered, for composing over the player region.
func RenderShield(width, height int, title string) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	blank := strings.Repeat("█", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = shieldStyle().Render(blank)
	}

	if title != "" && height > 1 {
		label := shieldTitleStyle().Render(title)
		pad := max((width-lipgloss.Width(label))/2, 0)
		lines[height/2] = shieldStyle().Render(strings.Repeat("█", pad)) +
			label +
			shieldStyle().Render(strings.Repeat("█", max(width-pad-lipgloss.Width(label), 0)))
	}

	return strings.Join(lines, "\n")
}

func shieldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().BgBase)
}

func shieldTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.T().FgMuted).
		Background(styles.T().BgBase)
}
