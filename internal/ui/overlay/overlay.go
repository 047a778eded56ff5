// Package overlay composes floating content over a base view, ANSI-aware.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Compose lays overlay on top of base. Visually empty overlay lines leave
// the base untouched; on other lines the overlay's visible span replaces the
// base at the same columns, styling intact.
func Compose(base, overlay string, width, _ int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	for i, overlayLine := range overlayLines {
		if i >= len(baseLines) {
			break
		}
		baseLines[i] = composeLine(baseLines[i], overlayLine, width)
	}

	return strings.Join(baseLines, "\n")
}

// composeLine splices the visible span of overlayLine into baseLine.
func composeLine(baseLine, overlayLine string, width int) string {
	plain := ansi.Strip(overlayLine)
	if strings.TrimSpace(plain) == "" {
		return baseLine
	}

	// Visible span bounds, in display columns.
	startCol := 0
	for _, r := range plain {
		if r != ' ' {
			break
		}
		startCol++
	}
	trimmed := strings.TrimRight(plain, " ")
	endCol := startCol + ansi.StringWidth(trimmed[startCol:])

	// Cut keeps ANSI sequences intact.
	content := ansi.Cut(overlayLine, startCol, endCol)

	if baseWidth := ansi.StringWidth(ansi.Strip(baseLine)); baseWidth < width {
		baseLine += strings.Repeat(" ", width-baseWidth)
	}

	result := ansi.Cut(baseLine, 0, startCol) + content
	if endCol < width {
		result += ansi.Cut(baseLine, endCol, width)
	}
	return result
}
