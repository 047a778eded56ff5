// Package testutil helps tests assert on rendered panel output.
package testutil

import (
	"regexp"
	"strings"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes color and style escape sequences so tests can compare
// rendered output as plain text.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// FindLine returns the first rendered line containing substr, stripped of
// escape sequences, or "" when no line matches.
func FindLine(output, substr string) string {
	for _, line := range strings.Split(StripANSI(output), "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}
