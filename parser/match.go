package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	orderNumberRe = regexp.MustCompile(`Order number:\s*#(\w+)`)
	customerRe    = regexp.MustCompile(`(?i)thank you for your order,\s*(.+)\.`)
	orderDateRe   = regexp.MustCompile(`Order placed at\s+(.+)`)
	emailRe       = regexp.MustCompile(`Sent to\s+(\S+)`)
	itemsHeaderRe = regexp.MustCompile(`^Items \(\d+\)`)
	currencyRe    = regexp.MustCompile(`^\$[\d,]+\.\d{2}$`)
	quantityRe    = regexp.MustCompile(`(?i)\s+x\s*(\d+)$`)
	nonAmountRe   = regexp.MustCompile(`[^\d.]`)
)

// submatch returns the trimmed first capture group of re in text.
func submatch(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// lineAfter returns the first line strictly after the first line containing
// label, compared case-insensitively.
func lineAfter(lines []string, label string) (string, bool) {
	label = strings.ToLower(label)
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), label) {
			continue
		}
		if i+1 < len(lines) {
			return lines[i+1], true
		}
		return "", false
	}
	return "", false
}

// indexOf returns the first index whose line satisfies match.
func indexOf(lines []string, match func(string) bool) (int, bool) {
	for i, line := range lines {
		if match(line) {
			return i, true
		}
	}
	return -1, false
}

// amountAfter finds the first currency line within window lines after the
// first line exactly equal to label.
func amountAfter(lines []string, label string, window int) (string, bool) {
	start, ok := indexOf(lines, func(line string) bool { return line == label })
	if !ok {
		return "", false
	}
	end := min(start+1+window, len(lines))
	for _, line := range lines[start+1 : end] {
		if currencyRe.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

// splitQuantity strips a trailing "x<N>" suffix from an item name line.
func splitQuantity(line string) (string, int) {
	m := quantityRe.FindStringSubmatchIndex(line)
	if m == nil {
		return strings.TrimSpace(line), 1
	}
	qty, err := strconv.Atoi(line[m[2]:m[3]])
	if err != nil {
		qty = 1
	}
	return strings.TrimSpace(line[:m[0]]), qty
}

func isPriceLine(line string) bool {
	return strings.HasPrefix(line, "$")
}

// ParseAmount converts a formatted amount such as "$1,234.50" to a number.
func ParseAmount(text string) (float64, error) {
	return strconv.ParseFloat(nonAmountRe.ReplaceAllString(text, ""), 64)
}
