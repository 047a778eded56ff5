// Package render shapes manifest and question text into fixed-width panel
// rows.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Sanitize strips control characters (tab excepted) and invalid UTF-8 from
// text that arrives via course manifests or submitted questions, so it can
// never corrupt the terminal. Non-breaking spaces become plain spaces to
// keep truncation honest.
func Sanitize(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if b := s[i]; b < 0x20 && b != '\t' || b >= 0x7f {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			i++
		case r != '\t' && unicode.IsControl(r):
			i += size
		case r == ' ':
			b.WriteByte(' ')
			i += size
		default:
			b.WriteString(s[i : i+size])
			i += size
		}
	}
	return b.String()
}

// TruncateAndPad sanitizes s, shortens it to maxWidth with a "..." tail if
// needed, and pads with spaces to exactly that width. Wide characters (CJK,
// emoji) count by display cells.
func TruncateAndPad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(Sanitize(s), width, "..."), width)
}

// TruncateAndPadEllipsis is TruncateAndPad with a single-cell … tail, for
// columns too narrow to give three cells away.
func TruncateAndPadEllipsis(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(Sanitize(s), width, "…"), width)
}

// Separator draws a horizontal rule of the given width.
func Separator(width int) string {
	return strings.Repeat("─", width)
}

// EmptyLine fills a row with spaces.
func EmptyLine(width int) string {
	return strings.Repeat(" ", width)
}
