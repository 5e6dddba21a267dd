package parser

import (
	"strings"

	"github.com/aluiziolira/go-scrape-orders/models"
)

const (
	variationMarker   = "Variation"
	orderPlacedPrefix = "Order placed"
)

type itemState int

const (
	awaitName itemState = iota
	awaitVariationOrPrice
	awaitVariationValue
	awaitPrice
)

// itemScanner walks the item block one transition at a time. Every line is
// consumed at most once.
type itemScanner struct {
	lines   []string
	pos     int
	state   itemState
	current models.LineItem
	items   []models.LineItem
}

// ParseItems groups the lines of an item block into line items. The grammar
// is fixed: name, then optionally "Variation" and its value, then optionally a
// price. Price lines and bare "Variation" markers seen while waiting for a
// name are noise and are skipped.
func ParseItems(lines []string) []models.LineItem {
	s := &itemScanner{lines: itemLines(lines)}
	for s.step() {
	}
	return s.items
}

func itemLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, orderPlacedPrefix) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func (s *itemScanner) peek() (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	return s.lines[s.pos], true
}

// step applies one transition and reports whether scanning should continue.
func (s *itemScanner) step() bool {
	line, ok := s.peek()

	switch s.state {
	case awaitName:
		if !ok {
			return false
		}
		s.pos++
		if isPriceLine(line) || line == variationMarker {
			return true
		}
		name, qty := splitQuantity(line)
		s.current = models.LineItem{Name: name, Quantity: qty}
		s.state = awaitVariationOrPrice

	case awaitVariationOrPrice:
		if ok && line == variationMarker {
			s.pos++
			s.state = awaitVariationValue
			return true
		}
		s.state = awaitPrice

	case awaitVariationValue:
		if ok && !isPriceLine(line) {
			s.current.Variation = models.String(line)
			s.pos++
		}
		s.state = awaitPrice

	case awaitPrice:
		if ok && isPriceLine(line) {
			s.current.Price = models.String(line)
			s.pos++
		}
		s.items = append(s.items, s.current)
		s.current = models.LineItem{}
		s.state = awaitName
	}
	return true
}
