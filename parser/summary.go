package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-orders/models"
)

// SummaryPattern matches "<Month> <Day> - $<amount> - <N> Item(s)" rows.
var SummaryPattern = regexp.MustCompile(
	`^(?P<date>[A-Za-z]+ \d{1,2})\s*-\s*\$(?P<amount>[\d,]+\.\d{2})\s*-\s*(?P<items>\d+) Items?$`,
)

// MatchSummary parses a single summary row. The returned summary has no
// detail link index; callers assign it from the row position.
func MatchSummary(line string) (models.OrderSummary, bool) {
	m := SummaryPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return models.OrderSummary{}, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil {
		return models.OrderSummary{}, false
	}
	count, err := strconv.Atoi(m[3])
	if err != nil {
		return models.OrderSummary{}, false
	}
	return models.OrderSummary{Date: m[1], Amount: amount, ItemCount: count}, true
}

// IsSummaryLine reports whether line is an order summary row.
func IsSummaryLine(line string) bool {
	_, ok := MatchSummary(line)
	return ok
}

// ParseSummaries returns one summary per matching line, in display order.
// DetailLinkIndex is the position of the row among summary rows.
func ParseSummaries(lines []string) []models.OrderSummary {
	var out []models.OrderSummary
	for _, line := range lines {
		summary, ok := MatchSummary(line)
		if !ok {
			continue
		}
		summary.DetailLinkIndex = len(out)
		out = append(out, summary)
	}
	return out
}

// SummaryLines returns the raw summary rows of lines, used to list the
// available dates when a lookup fails.
func SummaryLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		if IsSummaryLine(line) {
			out = append(out, line)
		}
	}
	return out
}

// CountSummaries counts summary rows in lines.
func CountSummaries(lines []string) int {
	n := 0
	for _, line := range lines {
		if IsSummaryLine(line) {
			n++
		}
	}
	return n
}
