// Package e2e holds helpers for asserting on terminal output in tests.
package e2e

import (
	"regexp"
	"strings"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// VisibleLines strips escape codes and returns the non-empty lines of
// terminal output, trimmed of trailing spaces.
func VisibleLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(StripANSI(s), "\n") {
		line = strings.TrimRight(line, " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
