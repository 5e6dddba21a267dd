package catalog

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/models"
	"github.com/aluiziolira/go-scrape-orders/parser"
)

const descriptionPrefix = "GoFigure displays Order"

// Headers are the purchase-order import columns, in order.
var Headers = []string{
	"PO #",
	"PO Description",
	"PO Start Ship",
	"PO End Ship",
	"PO Vendor",
	"PO Received at location",
	"Item Description",
	"Item Default Cost",
	"Item Current Price",
	"Item Primary Image",
	"Item Primary Vendor",
	"Item Department",
	"Item Sub Department",
	"Item BAM Category",
	"Item #",
	"PO Line Unit Cost",
	"PO Line Qty",
	"Item Images URL",
}

// Line is one purchase-order row.
type Line struct {
	Description string
	ItemNumber  string
	UnitCost    float64
	Price       float64
	Quantity    int
	ImageURL    string
	Match       Match
	Source      models.LineItem
}

// PurchaseOrder is the import built from one order detail.
type PurchaseOrder struct {
	Number      string
	Description string
	StartShip   string
	EndShip     string
	Lines       []Line

	cfg config.CatalogConfig
}

// Unmatched returns the lines without a catalog item.
func (po *PurchaseOrder) Unmatched() []Line {
	var out []Line
	for _, line := range po.Lines {
		if !line.Match.Matched() {
			out = append(out, line)
		}
	}
	return out
}

// Records renders the header and one record per line.
func (po *PurchaseOrder) Records() [][]string {
	records := [][]string{Headers}
	for _, line := range po.Lines {
		records = append(records, []string{
			po.Number,
			po.Description,
			po.StartShip,
			po.EndShip,
			po.cfg.Vendor,
			po.cfg.Location,
			line.Description,
			formatMoney(line.UnitCost),
			formatMoney(line.Price),
			line.ImageURL,
			po.cfg.Vendor,
			po.cfg.Department,
			po.cfg.SubDepartment,
			po.cfg.Category,
			line.ItemNumber,
			formatMoney(line.UnitCost),
			strconv.Itoa(line.Quantity),
			line.ImageURL,
		})
	}
	return records
}

// BuildPO turns detail into a purchase order. End ship is today.
func BuildPO(detail *models.OrderDetail, matcher *Matcher, cfg config.CatalogConfig, today time.Time) (*PurchaseOrder, error) {
	number := strings.TrimSpace(models.Value(detail.OrderNumber))
	if number == "" {
		return nil, fmt.Errorf("order has no order number")
	}
	orderDate := models.Value(detail.OrderDate)
	startShip, readable, err := shipDates(orderDate)
	if err != nil {
		return nil, err
	}

	po := &PurchaseOrder{
		Number:      cfg.POPrefix + number,
		Description: descriptionPrefix + " " + readable,
		StartShip:   startShip,
		EndShip:     today.Format("1/2/2006"),
		cfg:         cfg,
	}

	for _, item := range detail.Items {
		if item.Price == nil {
			return nil, fmt.Errorf("item %q has no price", item.Label())
		}
		cost, err := parser.ParseAmount(*item.Price)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", item.Label(), err)
		}

		match := matcher.Match(item)
		line := Line{
			Description: item.Label(),
			UnitCost:    cost,
			Price:       math.Round(cost*cfg.Markup*100) / 100,
			Quantity:    item.Quantity,
			ImageURL:    models.Value(item.ImageURL),
			Match:       match,
			Source:      item,
		}
		if match.Matched() {
			line.Description = match.Item.Description
			line.ItemNumber = match.Item.PublicID
		}
		po.Lines = append(po.Lines, line)
	}
	return po, nil
}

// shipDates splits "1/19/2026, 8:00 PM" into "1/19/2026" and "January 19, 2026".
func shipDates(orderDate string) (string, string, error) {
	datePart, _, _ := strings.Cut(orderDate, ",")
	datePart = strings.TrimSpace(datePart)
	t, err := time.Parse("1/2/2006", datePart)
	if err != nil {
		return "", "", fmt.Errorf("parse order date %q: %w", orderDate, err)
	}
	return datePart, t.Format("January 2, 2006"), nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Filename names the purchase-order file for an order number.
func Filename(dir, orderNumber string) string {
	return filepath.Join(dir, "po_"+orderNumber+".csv")
}

// WritePO writes po as CSV.
func WritePO(path string, po *PurchaseOrder) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create po file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(po.Records()); err != nil {
		return fmt.Errorf("write po: %w", err)
	}
	return f.Close()
}
