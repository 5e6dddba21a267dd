package parser

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/go-scrape-orders/models"
)

// ValidateSummary ensures a summary row carries the fields the exporter needs.
func ValidateSummary(s *models.OrderSummary) error {
	if s == nil {
		return fmt.Errorf("summary is nil")
	}
	if strings.TrimSpace(s.Date) == "" {
		return fmt.Errorf("summary missing date")
	}
	if s.Amount < 0 {
		return fmt.Errorf("summary %s has negative amount", s.Date)
	}
	if s.ItemCount <= 0 {
		return fmt.Errorf("summary %s has no items", s.Date)
	}
	if s.DetailLinkIndex < 0 {
		return fmt.Errorf("summary %s has negative detail index", s.Date)
	}
	return nil
}

// ValidateDetail ensures a detail record can be keyed and exported.
func ValidateDetail(d *models.OrderDetail) error {
	if d == nil {
		return fmt.Errorf("order detail is nil")
	}
	if strings.TrimSpace(models.Value(d.OrderNumber)) == "" {
		return fmt.Errorf("order detail missing order number")
	}
	for i, item := range d.Items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("item %d of order %s missing name", i, *d.OrderNumber)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %q of order %s has quantity %d", item.Name, *d.OrderNumber, item.Quantity)
		}
	}
	return nil
}
