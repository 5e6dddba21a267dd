package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aluiziolira/go-scrape-orders/models"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "trims and drops blanks",
			input:    "  first \n\n\tsecond\r\n   \nthird",
			expected: []string{"first", "second", "third"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "only whitespace",
			input:    " \n \t\n",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines(tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Lines(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestLinesIdempotent(t *testing.T) {
	raw := "  a \n\n b\r\nc  \n"
	once := Lines(raw)
	twice := Lines(strings.Join(once, "\n"))
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("re-tokenizing changed output (-once +twice):\n%s", diff)
	}
}

func TestMatchSummary(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.OrderSummary
		ok       bool
	}{
		{
			name:     "thousands separator",
			input:    "February 22 - $1,234.50 - 3 Items",
			expected: models.OrderSummary{Date: "February 22", Amount: 1234.50, ItemCount: 3},
			ok:       true,
		},
		{
			name:     "single item",
			input:    "January 9 - $12.00 - 1 Item",
			expected: models.OrderSummary{Date: "January 9", Amount: 12.00, ItemCount: 1},
			ok:       true,
		},
		{
			name:     "surrounding whitespace",
			input:    "   March 3 - $5.25 - 2 Items  ",
			expected: models.OrderSummary{Date: "March 3", Amount: 5.25, ItemCount: 2},
			ok:       true,
		},
		{
			name:  "missing cents",
			input: "March 3 - $5 - 2 Items",
		},
		{
			name:  "trailing text",
			input: "March 3 - $5.25 - 2 Items shipped",
		},
		{
			name:  "unrelated line",
			input: "Track order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchSummary(tt.input)
			if ok != tt.ok {
				t.Fatalf("MatchSummary(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("MatchSummary(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseSummariesPreservesOrder(t *testing.T) {
	lines := Lines(`Order history
February 22 - $1,234.50 - 3 Items
Track order
Delivered
January 19 - $40.00 - 1 Item
Track order
December 2 - $9.99 - 2 Items`)

	got := ParseSummaries(lines)
	want := []models.OrderSummary{
		{Date: "February 22", Amount: 1234.50, ItemCount: 3, DetailLinkIndex: 0},
		{Date: "January 19", Amount: 40.00, ItemCount: 1, DetailLinkIndex: 1},
		{Date: "December 2", Amount: 9.99, ItemCount: 2, DetailLinkIndex: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseSummaries mismatch (-want +got):\n%s", diff)
	}
	if n := CountSummaries(lines); n != 3 {
		t.Fatalf("CountSummaries = %d, want 3", n)
	}
	if rows := SummaryLines(lines); len(rows) != 3 || rows[1] != "January 19 - $40.00 - 1 Item" {
		t.Fatalf("SummaryLines = %v", rows)
	}
}

func TestResolveIndex(t *testing.T) {
	lines := Lines(`Order history
February 22 - $10.00 - 1 Item
Track order
Something else
January 19 - $40.00 - 1 Item
February 22 - $99.00 - 4 Items`)

	tests := []struct {
		name   string
		target string
		index  int
		ok     bool
	}{
		{name: "first row", target: "February 22", index: 0, ok: true},
		{name: "non-summary lines take no slot", target: "January 19", index: 1, ok: true},
		{name: "case insensitive", target: "  january 19 ", index: 1, ok: true},
		{name: "missing", target: "March 1", index: -1, ok: false},
		{name: "empty target", target: "", index: -1, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ok := ResolveIndex(lines, tt.target)
			if index != tt.index || ok != tt.ok {
				t.Fatalf("ResolveIndex(%q) = (%d, %v), want (%d, %v)", tt.target, index, ok, tt.index, tt.ok)
			}
		})
	}
}

func TestResolveIndexStableAcrossGrowth(t *testing.T) {
	firstPage := []string{
		"March 4 - $1.00 - 1 Item",
		"March 2 - $2.00 - 1 Item",
	}
	grown := append(append([]string{}, firstPage...), "Track order", "January 9 - $3.00 - 2 Items")

	before, ok := ResolveIndex(firstPage, "March 2")
	if !ok {
		t.Fatalf("expected March 2 on the first page")
	}
	after, ok := ResolveIndex(grown, "March 2")
	if !ok || after != before {
		t.Fatalf("index changed after growth: before=%d after=%d", before, after)
	}
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []models.LineItem
	}{
		{
			name:  "quantity and variation",
			lines: []string{"Widget x10", "$5.00", "Gadget", "Variation", "Red", "$3.00"},
			expected: []models.LineItem{
				{Name: "Widget", Quantity: 10, Price: models.String("$5.00")},
				{Name: "Gadget", Quantity: 1, Variation: models.String("Red"), Price: models.String("$3.00")},
			},
		},
		{
			name:  "orphaned price and marker are skipped",
			lines: []string{"$1.00", "Variation", "Widget", "$2.00", "$9.99"},
			expected: []models.LineItem{
				{Name: "Widget", Quantity: 1, Price: models.String("$2.00")},
			},
		},
		{
			name:  "variation marker followed by price",
			lines: []string{"Stand X 3", "Variation", "$4.00"},
			expected: []models.LineItem{
				{Name: "Stand", Quantity: 3, Price: models.String("$4.00")},
			},
		},
		{
			name:  "no price",
			lines: []string{"Sticker", "Poster x2"},
			expected: []models.LineItem{
				{Name: "Sticker", Quantity: 1},
				{Name: "Poster", Quantity: 2},
			},
		},
		{
			name:  "order placed line and blanks filtered",
			lines: []string{"", "Order placed at 1/19/2026", "Frame x 4", "", "$8.00"},
			expected: []models.LineItem{
				{Name: "Frame", Quantity: 4, Price: models.String("$8.00")},
			},
		},
		{
			name:  "suffix needs leading space",
			lines: []string{"Box", "Crux5"},
			expected: []models.LineItem{
				{Name: "Box", Quantity: 1},
				{Name: "Crux5", Quantity: 1},
			},
		},
		{
			name:     "empty block",
			lines:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseItems(tt.lines)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ParseItems mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

const detailFixture = `Go Figure Displays
Thank you for your order, Jane Doe.
Order number: #A1B2C3
Order placed at 1/19/2026, 8:00 PM
Delivering to

123 Main St, Springfield, VA 22150
Sent to jane@example.com
Items (2)
Widget x10
$5.00
Gadget
Variation
Red
$3.00
Subtotal
$53.00
Shipping
Standard
$7.99
Taxes
$3.18
Order total
$64.17`

func TestParseDetail(t *testing.T) {
	images := []string{"https://cdn.test/widget.jpg", "https://cdn.test/gadget.jpg"}
	got := ParseDetail("https://shop.test/orders/A1B2C3", detailFixture, images)

	want := &models.OrderDetail{
		URL:             "https://shop.test/orders/A1B2C3",
		OrderNumber:     models.String("A1B2C3"),
		Customer:        models.String("Jane Doe"),
		OrderDate:       models.String("1/19/2026, 8:00 PM"),
		ShippingAddress: models.String("123 Main St, Springfield, VA 22150"),
		Email:           models.String("jane@example.com"),
		Items: []models.LineItem{
			{Name: "Widget", Quantity: 10, Price: models.String("$5.00"), ImageURL: models.String(images[0])},
			{Name: "Gadget", Quantity: 1, Variation: models.String("Red"), Price: models.String("$3.00"), ImageURL: models.String(images[1])},
		},
		Subtotal:   models.String("$53.00"),
		Shipping:   models.String("$7.99"),
		Taxes:      models.String("$3.18"),
		OrderTotal: models.String("$64.17"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseDetail mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDetailMissingSubtotal(t *testing.T) {
	text := "Order number: #X1\nItems (1)\nWidget\n$5.00\nOrder total\n$5.00"
	got := ParseDetail("", text, nil)

	if got.Items == nil || len(got.Items) != 0 {
		t.Fatalf("items = %#v, want empty slice", got.Items)
	}
	if got.Subtotal != nil {
		t.Fatalf("subtotal = %q, want unset", *got.Subtotal)
	}
	if models.Value(got.OrderTotal) != "$5.00" {
		t.Fatalf("order total = %v, want $5.00", got.OrderTotal)
	}
}

func TestParseDetailMissingFieldsStayUnset(t *testing.T) {
	got := ParseDetail("u", "nothing useful here", nil)
	if got.OrderNumber != nil || got.Customer != nil || got.OrderDate != nil ||
		got.ShippingAddress != nil || got.Email != nil {
		t.Fatalf("expected header fields unset, got %+v", got)
	}
	if got.Subtotal != nil || got.Shipping != nil || got.Taxes != nil || got.OrderTotal != nil {
		t.Fatalf("expected totals unset, got %+v", got)
	}
}

func TestParseDetailFewerImagesThanItems(t *testing.T) {
	text := "Items (2)\nWidget\n$1.00\nGadget\n$2.00\nSubtotal\n$3.00"
	got := ParseDetail("", text, []string{"only.jpg"})

	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if models.Value(got.Items[0].ImageURL) != "only.jpg" {
		t.Fatalf("first image = %v", got.Items[0].ImageURL)
	}
	if got.Items[1].ImageURL == nil || *got.Items[1].ImageURL != "" {
		t.Fatalf("second image = %v, want empty string", got.Items[1].ImageURL)
	}
}

func TestTotalsWindow(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *string
	}{
		{
			name:     "first amount wins",
			text:     "Taxes\n$1.00\n$2.00",
			expected: models.String("$1.00"),
		},
		{
			name:     "fourth line is inside the window",
			text:     "Taxes\na\nb\nc\n$4.00",
			expected: models.String("$4.00"),
		},
		{
			name:     "fifth line is outside the window",
			text:     "Taxes\na\nb\nc\nd\n$5.00",
			expected: nil,
		},
		{
			name:     "label must match exactly",
			text:     "Taxes and fees\n$1.00",
			expected: nil,
		},
		{
			name:     "only the first label occurrence is scanned",
			text:     "Taxes\nnone\nx\ny\nz\nTaxes\n$9.00",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDetail("", tt.text, nil).Taxes
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("taxes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{input: "$5.00", expected: 5},
		{input: "$1,234.56", expected: 1234.56},
		{input: " 12.5 ", expected: 12.5},
		{input: "free", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Fatalf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
