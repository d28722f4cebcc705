// Package metrics computes cheap local text features used by telemetry.
package metrics

import (
	"strings"
	"unicode/utf8"
)

// Stats holds size features of a text payload.
type Stats struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// TextStats returns byte, rune, word and line counts for s.
func TextStats(s string) Stats {
	return Stats{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: lineCount(s),
	}
}

// lineCount returns 0 for empty strings; otherwise 1 plus the number of
// newline runes.
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
