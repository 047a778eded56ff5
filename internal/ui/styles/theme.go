// Package styles holds the lectern color theme and the shared lipgloss
// styles built from it.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the lectern palette. Every UI package styles itself from these
// colors so the whole surface can be retinted in one place.
type Theme struct {
	Primary   lipgloss.Color // teal - active transport, focused chrome
	Secondary lipgloss.Color // amber - gradient tail, highlights

	FgBase   lipgloss.Color // body text
	FgMuted  lipgloss.Color // timestamps, secondary labels
	FgSubtle lipgloss.Color // hints, separators

	BgBase lipgloss.Color // shield and panel fills

	Border      lipgloss.Color // resting borders
	BorderFocus lipgloss.Color // focused panel border

	Success lipgloss.Color // completed lectures, answered questions
	Error   lipgloss.Color // load failures
	Warning lipgloss.Color // transient status text

	styles *Styles
}

// Styles are the prebuilt text styles shared across the UI.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Active  lipgloss.Style // transport status, current lecture
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#5eead4"),
	Secondary: lipgloss.Color("#fbbf24"),

	FgBase:   lipgloss.Color("#d6d6d6"),
	FgMuted:  lipgloss.Color("#8a8a8a"),
	FgSubtle: lipgloss.Color("#5f5f5f"),

	BgBase: lipgloss.Color("#141414"),

	Border:      lipgloss.Color("#4e4e4e"),
	BorderFocus: lipgloss.Color("#5eead4"),

	Success: lipgloss.Color("#4ade80"),
	Error:   lipgloss.Color("#f87171"),
	Warning: lipgloss.Color("#fbbf24"),
}

// T returns the active theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the prebuilt styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:    base,
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:   base.Bold(true),
		Active:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
