package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyBoldGradient renders text in bold with a horizontal color sweep from
// one theme color to another. Used for the stage title.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	if text == "" {
		return ""
	}

	// Grapheme clusters, not runes: one color step per visible cell group.
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	if len(clusters) == 1 {
		return lipgloss.NewStyle().Foreground(from).Bold(true).Render(text)
	}

	c1 := parseHex(from)
	c2 := parseHex(to)

	var b strings.Builder
	for i, cluster := range clusters {
		// HCL keeps the sweep perceptually even.
		t := float64(i) / float64(len(clusters)-1)
		c := lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
		b.WriteString(lipgloss.NewStyle().Foreground(c).Bold(true).Render(cluster))
	}

	return b.String()
}

// parseHex converts a theme color to a blendable color, falling back to a
// neutral gray for anything that is not a hex literal.
func parseHex(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
