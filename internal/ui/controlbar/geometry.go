package controlbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-tui/lectern/internal/ui"
)

// Layout describes where the seekable track sits on screen so mouse columns
// can be mapped back to media time.
type Layout struct {
	BarLeft  int // first column of the track, relative to the bar's left edge
	BarWidth int // track width in columns
}

// ComputeLayout derives the track geometry for a given state and total
// width. Render uses the same math, so a column computed here always lands
// on the glyph the user clicked.
func ComputeLayout(s State, width int) Layout {
	innerWidth := max(width-barHPadding*2-2, 0) // border + padding

	prefix := statusSymbol(s.Playing) + "  " + timesLabel(s) + "  "
	suffix := "  " + rateLabel(s.Rate) + "  " + volumeLabel(s.Volume, s.Muted)

	barWidth := innerWidth - lipgloss.Width(prefix) - lipgloss.Width(suffix)
	if barWidth < ui.MinProgressBarWidth {
		return Layout{}
	}

	return Layout{
		BarLeft:  1 + barHPadding + lipgloss.Width(prefix),
		BarWidth: barWidth,
	}
}

// TimeAt maps a screen column to media time. The fraction is clamped to
// [0, 1], so clicks left of the track seek to 0 and clicks right of it seek
// to the end. A zero-width track or unknown duration always maps to 0.
func TimeAt(l Layout, x int, duration float64) float64 {
	if l.BarWidth <= 0 || duration <= 0 {
		return 0
	}
	frac := float64(x-l.BarLeft) / float64(l.BarWidth)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return frac * duration
}

// Contains reports whether a column falls on the seekable track.
func (l Layout) Contains(x int) bool {
	return l.BarWidth > 0 && x >= l.BarLeft && x < l.BarLeft+l.BarWidth
}

// PlayedPercent returns the played fraction as a percentage in [0, 100].
func PlayedPercent(position, duration float64) float64 {
	return percent(position, duration)
}

// BufferedPercent returns the buffered fraction as a percentage in [0, 100].
func BufferedPercent(buffered, duration float64) float64 {
	return percent(buffered, duration)
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	p := part / whole * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
