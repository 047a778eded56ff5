// Package controlbar renders the playback control surface: transport
// status, elapsed/total time, a seekable progress track with buffered
// shading, playback rate and volume.
package controlbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-tui/lectern/internal/icons"
	"github.com/lectern-tui/lectern/internal/ui"
	"github.com/lectern-tui/lectern/internal/ui/overlay"
)

const barHPadding = 2

// State holds everything needed to render the control bar.
type State struct {
	Playing  bool
	Position float64 // seconds
	Duration float64 // seconds
	Buffered float64 // seconds
	Volume   float64 // [0,1]
	Muted    bool
	Rate     float64

	// HoverColumn is the mouse column while the pointer is over the track,
	// -1 when not hovering. Hovering shows the would-be seek target.
	HoverColumn int
}

// Height returns the rendered height of the control bar.
func Height() int {
	return 3 // top border + content + bottom border
}

// Render returns the control bar for the given total width. Returns an
// empty string when there is no duration to show a track for.
func Render(s State, width int) string {
	if width <= 0 {
		return ""
	}

	layout := ComputeLayout(s, width)
	innerWidth := max(width-2, 0)

	prefix := statusSymbol(s.Playing) + "  " + timeStyle().Render(timesLabel(s)) + "  "
	suffix := "  " + rateStyle().Render(rateLabel(s.Rate)) + "  " + timeStyle().Render(volumeLabel(s.Volume, s.Muted))

	var bar string
	if layout.BarWidth >= ui.MinProgressBarWidth {
		bar = renderTrack(s, layout)
	}

	content := prefix + bar + suffix

	rendered := barStyle().Padding(0, barHPadding).Width(innerWidth).Render(content)

	// The preview is composed into the top border row so the bar keeps its
	// fixed height while hovering.
	if s.HoverColumn >= 0 && layout.Contains(s.HoverColumn) && s.Duration > 0 {
		preview := previewStyle().Render(formatClock(TimeAt(layout, s.HoverColumn, s.Duration)))
		col := s.HoverColumn - lipgloss.Width(preview)/2
		col = min(max(col, 0), max(width-lipgloss.Width(preview), 0))
		rendered = overlay.Compose(rendered, strings.Repeat(" ", col)+preview, width, 0)
	}

	return rendered
}

// renderTrack draws the seekable track: played, buffered-but-unplayed and
// unbuffered segments, with a knob at the playhead.
func renderTrack(s State, l Layout) string {
	played := int(float64(l.BarWidth) * PlayedPercent(s.Position, s.Duration) / 100)
	buffered := int(float64(l.BarWidth) * BufferedPercent(s.Buffered, s.Duration) / 100)
	played = min(played, l.BarWidth)
	buffered = min(max(buffered, played), l.BarWidth)

	knob := 0
	if played > 0 {
		knob = 1
	}

	var b strings.Builder
	b.WriteString(playedStyle().Render(strings.Repeat("━", max(played-knob, 0))))
	if knob > 0 {
		b.WriteString(knobStyle().Render("●"))
	}
	b.WriteString(bufferedStyle().Render(strings.Repeat("─", buffered-played)))
	b.WriteString(emptyStyle().Render(strings.Repeat("·", l.BarWidth-buffered)))
	return b.String()
}

func statusSymbol(playing bool) string {
	if playing {
		return statusStyle().Render(icons.Play())
	}
	return statusStyle().Render(icons.Pause())
}

func timesLabel(s State) string {
	return formatClock(s.Position) + " / " + formatClock(s.Duration)
}

func rateLabel(rate float64) string {
	if rate == 0 {
		rate = 1
	}
	return fmt.Sprintf("%gx", rate)
}

func volumeLabel(volume float64, muted bool) string {
	icon := icons.Volume()
	if muted {
		icon = icons.VolumeMute()
	}
	return fmt.Sprintf("%s %3d%%", icon, int(volume*100))
}

// formatClock renders seconds as m:ss, or h:mm:ss past the hour mark.
func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
