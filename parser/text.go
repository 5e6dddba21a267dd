// Package parser turns rendered page text into order records.
package parser

import "strings"

// Lines splits raw page text into trimmed, non-empty lines, preserving order.
// Lines(strings.Join(Lines(s), "\n")) equals Lines(s).
func Lines(raw string) []string {
	fields := strings.FieldsFunc(raw, isLineBreak)
	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		if line := strings.TrimSpace(field); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
