// Package text provides text post-processing utilities for outbound
// messages.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const ellipsis = "…"

// Clamp truncates s to at most maxLen bytes. When truncation is needed it
// prefers to cut at a whitespace boundary and appends an ellipsis. Strings
// already within the limit are returned unchanged.
func Clamp(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}

	budget := maxLen - len(ellipsis)
	if budget <= 0 {
		return ellipsis
	}

	cut := budget
	// Back off to a rune boundary so the cut never splits a character.
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	truncated := s[:cut]
	if idx := strings.LastIndexFunc(truncated, unicode.IsSpace); idx > 0 {
		truncated = truncated[:idx]
	}

	return strings.TrimRightFunc(truncated, unicode.IsSpace) + ellipsis
}
