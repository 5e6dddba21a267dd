// Package models defines data structures for the order extractor.
package models

import "time"

// OrderSummary represents one summary row of the order history list.
type OrderSummary struct {
	Date            string  `csv:"date" json:"date"`
	Amount          float64 `csv:"amount" json:"amount"`
	ItemCount       int     `csv:"item_count" json:"item_count"`
	DetailLinkIndex int     `csv:"detail_link_index" json:"detail_link_index"`
	TrackURL        *string `csv:"track_url" json:"track_url,omitempty"`
}

// LineItem is a single purchased item on an order detail page.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Variation *string `json:"variation,omitempty"`
	Price     *string `json:"price,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
}

// Label renders the item as "<name> - <variation>", or just the name.
func (li LineItem) Label() string {
	if li.Variation == nil || *li.Variation == "" {
		return li.Name
	}
	return li.Name + " - " + *li.Variation
}

// OrderDetail is the structured form of an order confirmation page.
// Monetary fields keep the page's formatting, e.g. "$12.34".
type OrderDetail struct {
	URL             string     `json:"url"`
	OrderNumber     *string    `json:"order_number,omitempty"`
	Customer        *string    `json:"customer,omitempty"`
	OrderDate       *string    `json:"order_date,omitempty"`
	ShippingAddress *string    `json:"shipping_address,omitempty"`
	Email           *string    `json:"email,omitempty"`
	Items           []LineItem `json:"items"`
	Subtotal        *string    `json:"subtotal,omitempty"`
	Shipping        *string    `json:"shipping,omitempty"`
	Taxes           *string    `json:"taxes,omitempty"`
	OrderTotal      *string    `json:"order_total,omitempty"`
}

// ExtractionResult holds the statistics of an extraction run.
type ExtractionResult struct {
	Orders         []OrderSummary
	StartTime      time.Time
	EndTime        time.Time
	RowCount       int
	RevealCount    int
	TimeoutsByWait map[string]int
}

// String returns a pointer to s. Used for optional fields.
func String(s string) *string {
	return &s
}

// Value dereferences an optional field, returning "" when absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
