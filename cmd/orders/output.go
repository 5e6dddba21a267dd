package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lmittmann/tint"

	"github.com/aluiziolira/go-scrape-orders/catalog"
	"github.com/aluiziolira/go-scrape-orders/models"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func printOrders(orders []models.OrderSummary) {
	t := newTable()
	t.AppendHeader(table.Row{"#", "Date", "Amount", "Items"})
	for _, o := range orders {
		t.AppendRow(table.Row{o.DetailLinkIndex, o.Date, fmt.Sprintf("$%.2f", o.Amount), o.ItemCount})
	}
	t.Render()
}

func printAvailable(lines []string) {
	fmt.Println("Order not found. Available orders:")
	t := newTable()
	t.AppendHeader(table.Row{"#", "Order"})
	for i, line := range lines {
		t.AppendRow(table.Row{i, line})
	}
	t.Render()
}

func printDetail(d *models.OrderDetail) {
	fmt.Printf("Order #%s  %s  %s\n", models.Value(d.OrderNumber), models.Value(d.OrderDate), models.Value(d.Customer))

	t := newTable()
	t.AppendHeader(table.Row{"Item", "Qty", "Price"})
	for _, item := range d.Items {
		t.AppendRow(table.Row{item.Label(), item.Quantity, models.Value(item.Price)})
	}
	t.AppendFooter(table.Row{"Total", "", models.Value(d.OrderTotal)})
	t.Render()
}

func printPO(po *catalog.PurchaseOrder) {
	fmt.Printf("%s  %s\n", po.Number, po.Description)

	t := newTable()
	t.AppendHeader(table.Row{"Item", "Item #", "Match", "Qty", "Cost", "Price"})
	for _, line := range po.Lines {
		match := string(line.Match.Strategy)
		if !line.Match.Matched() {
			match = "none"
		}
		t.AppendRow(table.Row{
			line.Description,
			line.ItemNumber,
			match,
			line.Quantity,
			fmt.Sprintf("$%.2f", line.UnitCost),
			fmt.Sprintf("$%.2f", line.Price),
		})
	}
	t.Render()
}

func printArchive(details []*models.OrderDetail) {
	t := newTable()
	t.AppendHeader(table.Row{"Order #", "Placed", "Items", "Total"})
	for _, d := range details {
		t.AppendRow(table.Row{
			models.Value(d.OrderNumber),
			models.Value(d.OrderDate),
			len(d.Items),
			models.Value(d.OrderTotal),
		})
	}
	t.Render()
}

func printSummary(result *models.ExtractionResult, metrics map[string]interface{}, outputs []string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Extraction complete")

	written := int64(0)
	if processed, ok := metrics["processed_orders"].(int64); ok {
		written = processed
	}
	duration := result.EndTime.Sub(result.StartTime)

	fmt.Printf("  Orders found:  %d\n", result.RowCount)
	fmt.Printf("  Written:       %d\n", written)
	fmt.Printf("  Reveals:       %d\n", result.RevealCount)
	if len(result.TimeoutsByWait) > 0 {
		fmt.Printf("  Wait timeouts: %v\n", result.TimeoutsByWait)
	}
	if valErrors, ok := metrics["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Printf("  Validation:    %v\n", valErrors)
	}
	fmt.Printf("  Duration:      %v\n", duration.Round(time.Millisecond))
	fmt.Printf("  Output:        %s\n", strings.Join(outputs, ", "))
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
