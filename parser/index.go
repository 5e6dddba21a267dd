package parser

import "strings"

// ResolveIndex returns the zero-based position, among summary rows only, of
// the first row whose date equals target (case-insensitive). Rows sharing a
// short date are told apart by encounter order alone: the first one wins.
func ResolveIndex(lines []string, target string) (int, bool) {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return -1, false
	}
	index := 0
	for _, line := range lines {
		summary, ok := MatchSummary(line)
		if !ok {
			continue
		}
		if strings.ToLower(summary.Date) == target {
			return index, true
		}
		index++
	}
	return -1, false
}
