package parser

import (
	"github.com/aluiziolira/go-scrape-orders/models"
)

// totalsWindow is how many lines after a totals label may hold its amount.
const totalsWindow = 4

var totalLabels = []struct {
	label string
	set   func(*models.OrderDetail, *string)
}{
	{"Subtotal", func(d *models.OrderDetail, v *string) { d.Subtotal = v }},
	{"Shipping", func(d *models.OrderDetail, v *string) { d.Shipping = v }},
	{"Taxes", func(d *models.OrderDetail, v *string) { d.Taxes = v }},
	{"Order total", func(d *models.OrderDetail, v *string) { d.OrderTotal = v }},
}

// ParseDetail parses the text of an order confirmation page. images are the
// item image sources in document order; the i-th image belongs to the i-th
// item and items past the end of images get an empty image URL. Every field
// is extracted independently and a missing one never aborts the rest.
func ParseDetail(url, text string, images []string) *models.OrderDetail {
	lines := Lines(text)
	detail := &models.OrderDetail{URL: url}

	detail.OrderNumber = optional(submatch(orderNumberRe, text))
	detail.Customer = optional(submatch(customerRe, text))
	detail.OrderDate = optional(submatch(orderDateRe, text))
	detail.ShippingAddress = optional(lineAfter(lines, "Delivering to"))
	detail.Email = optional(submatch(emailRe, text))

	detail.Items = ParseItems(ItemBlock(lines))
	for i := range detail.Items {
		image := ""
		if i < len(images) {
			image = images[i]
		}
		detail.Items[i].ImageURL = models.String(image)
	}
	if detail.Items == nil {
		detail.Items = []models.LineItem{}
	}

	for _, total := range totalLabels {
		total.set(detail, optional(amountAfter(lines, total.label, totalsWindow)))
	}

	return detail
}

// ItemBlock returns the lines strictly between the "Items (N)" header and the
// first "Subtotal" line. It returns nil when either boundary is missing.
func ItemBlock(lines []string) []string {
	start, ok := indexOf(lines, itemsHeaderRe.MatchString)
	if !ok {
		return nil
	}
	end, ok := indexOf(lines, func(line string) bool { return line == "Subtotal" })
	if !ok || end <= start {
		return nil
	}
	return lines[start+1 : end]
}

func optional(value string, ok bool) *string {
	if !ok {
		return nil
	}
	return models.String(value)
}
