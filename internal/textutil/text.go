package textutil

import (
	"regexp"
	"strings"
)

// punctuationPattern matches runs of the marks removed from recognized words.
var punctuationPattern = regexp.MustCompile(`[.!,;?":]+`)

// StripPunctuation replaces punctuation runs with a space and collapses the
// result. Apostrophes and hyphens are kept so contractions survive.
func StripPunctuation(text string) string {
	return CollapseSpaces(punctuationPattern.ReplaceAllString(text, " "))
}

// CollapseSpaces trims text and reduces internal whitespace runs to a single
// space.
func CollapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// JoinLines joins wrapped caption lines with single spaces, dropping blank
// lines.
func JoinLines(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
