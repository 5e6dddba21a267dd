package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jarcoal/httpmock"
	"golang.org/x/net/html"

	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/models"
	"github.com/aluiziolira/go-scrape-orders/scraper"
)

const baseURL = "https://shop.test"

const historyPage1 = `<html><head><title>Account</title><script>var x = "February 1 - $1.00 - 1 Item";</script></head>
<body>
  <h2>Order history</h2>
  <div class="order"><p>February 22 - $1,234.50 - 3 Items</p><a href="/orders/1">Track order</a></div>
  <div class="order"><p>January 19 - $40.00 - 1 Item</p><a href="/orders/2">Track order</a></div>
  <a href="/history-2.html">See more</a>
</body></html>`

const historyPage2 = `<html><body>
  <h2>Order history</h2>
  <div class="order"><p>February 22 - $1,234.50 - 3 Items</p><a href="/orders/1">Track order</a></div>
  <div class="order"><p>January 19 - $40.00 - 1 Item</p><a href="/orders/2">Track order</a></div>
  <div class="order"><p>December 2 - $9.99 - 2 Items</p><a href="/orders/3">Track order</a></div>
  <button>See more</button>
</body></html>`

const detailPage = `<html><body>
  <h1>Thank you for your order, Jane Doe.</h1>
  <p>Order number: #D3C2B1</p>
  <p>Order placed at 12/2/2025, 9:15 AM</p>
  <section><h3>Delivering to</h3><p>42 Elm St<br>Springfield</p><p>Sent to jane@example.com</p></section>
  <section>
    <h3>Items (2)</h3>
    <div><img class="order-confirmation-item-image" src="https://cdn.test/stand.jpg"><p>Minifig Stand x2</p><p>$3.00</p></div>
    <div><img class="order-confirmation-item-image" src="https://cdn.test/case.jpg"><p>Display Case</p><p>Variation</p><p>Black</p><p>$3.99</p></div>
  </section>
  <table>
    <tr><td>Subtotal</td></tr><tr><td>$9.99</td></tr>
    <tr><td>Order total</td></tr><tr><td>$9.99</td></tr>
  </table>
</body></html>`

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}

func newMockLoader(t *testing.T) *Loader {
	t.Helper()
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", baseURL+"/history-1.html", htmlResponder(historyPage1))
	transport.RegisterResponder("GET", baseURL+"/history-2.html", htmlResponder(historyPage2))
	transport.RegisterResponder("GET", baseURL+"/orders/3", htmlResponder(detailPage))
	transport.RegisterResponder("GET", baseURL+"/missing.html", httpmock.NewStringResponder(404, "not found"))

	loader := NewLoader(config.DefaultConfig())
	loader.WithTransport(transport)
	return loader
}

func TestLoadRendersText(t *testing.T) {
	page, err := newMockLoader(t).Load(context.Background(), baseURL+"/history-1.html")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	text, err := page.Text(context.Background(), 0)
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	want := strings.Join([]string{
		"Order history",
		"February 22 - $1,234.50 - 3 Items",
		"Track order",
		"January 19 - $40.00 - 1 Item",
		"Track order",
		"See more",
	}, "\n")
	if diff := cmp.Diff(want, text); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFailureStatus(t *testing.T) {
	_, err := newMockLoader(t).Load(context.Background(), baseURL+"/missing.html")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestPageTargets(t *testing.T) {
	ctx := context.Background()
	page, err := newMockLoader(t).Load(ctx, baseURL+"/history-1.html")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	count, err := page.Count(ctx, scraper.DetailLinks)
	if err != nil || count != 2 {
		t.Fatalf("Count = %d, %v; want 2", count, err)
	}
	hrefs, err := page.Attributes(ctx, scraper.DetailLinks, "href", 0)
	if err != nil {
		t.Fatalf("attributes: %v", err)
	}
	if diff := cmp.Diff([]string{"/orders/1", "/orders/2"}, hrefs); diff != "" {
		t.Fatalf("hrefs mismatch (-want +got):\n%s", diff)
	}
	if err := page.Click(ctx, scraper.OrderHistoryControl, 0); !errors.Is(err, scraper.ErrControlUnavailable) {
		t.Fatalf("heading is not a control, got %v", err)
	}
}

func TestClickFollowsLink(t *testing.T) {
	ctx := context.Background()
	page, err := newMockLoader(t).Load(ctx, baseURL+"/history-1.html")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := page.Click(ctx, scraper.RevealControl, 0); err != nil {
		t.Fatalf("click: %v", err)
	}
	if page.URL() != baseURL+"/history-2.html" {
		t.Fatalf("url = %s", page.URL())
	}
	if err := page.Click(ctx, scraper.RevealControl, 0); !errors.Is(err, scraper.ErrControlUnavailable) {
		t.Fatalf("button without link should be unavailable, got %v", err)
	}
}

func TestWaitUntilIsImmediate(t *testing.T) {
	ctx := context.Background()
	page, err := newMockLoader(t).Load(ctx, baseURL+"/history-1.html")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	holds := scraper.Wait{Description: "rows", NeedsText: true, Until: func(s scraper.State) bool {
		return strings.Contains(s.Text, "February 22")
	}}
	if err := page.WaitUntil(ctx, holds); err != nil {
		t.Fatalf("wait: %v", err)
	}

	textless := scraper.Wait{Description: "rows without text", Until: func(s scraper.State) bool {
		return s.Text != ""
	}}
	if err := page.WaitUntil(ctx, textless); !errors.Is(err, scraper.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestReplayDetailEndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	page, err := newMockLoader(t).Load(ctx, baseURL+"/history-1.html")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ext := scraper.NewExtractor(cfg)
	if err := ext.AwaitOrders(ctx, page); err != nil {
		t.Fatalf("await orders: %v", err)
	}
	detail, loc, err := ext.Detail(ctx, page, "December 2")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if loc.Index != 2 {
		t.Fatalf("index = %d, want 2", loc.Index)
	}

	want := &models.OrderDetail{
		URL:             baseURL + "/orders/3",
		OrderNumber:     models.String("D3C2B1"),
		Customer:        models.String("Jane Doe"),
		OrderDate:       models.String("12/2/2025, 9:15 AM"),
		ShippingAddress: models.String("42 Elm St"),
		Email:           models.String("jane@example.com"),
		Items: []models.LineItem{
			{Name: "Minifig Stand", Quantity: 2, Price: models.String("$3.00"), ImageURL: models.String("https://cdn.test/stand.jpg")},
			{Name: "Display Case", Quantity: 1, Variation: models.String("Black"), Price: models.String("$3.99"), ImageURL: models.String("https://cdn.test/case.jpg")},
		},
		Subtotal:   models.String("$9.99"),
		OrderTotal: models.String("$9.99"),
	}
	if diff := cmp.Diff(want, detail); diff != "" {
		t.Fatalf("detail mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.html")
	if err := os.WriteFile(path, []byte(historyPage2), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	page, err := NewLoader(config.DefaultConfig()).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasPrefix(page.URL(), "file://") {
		t.Fatalf("url = %s, want file url", page.URL())
	}
	count, _ := page.Count(context.Background(), scraper.DetailLinks)
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "inline runs join", html: `<p>Order   number: <b>#X1</b></p>`, want: "Order number: #X1"},
		{name: "br breaks", html: `<p>a<br>b</p>`, want: "a\nb"},
		{name: "nested blocks", html: `<div><div>one</div><div>two</div></div>`, want: "one\ntwo"},
		{name: "style skipped", html: `<style>p{}</style><p>shown</p>`, want: "shown"},
		{name: "cells spaced", html: `<table><tr><td>a</td><td>b</td></tr></table>`, want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := html.Parse(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := renderText(doc); got != tt.want {
				t.Fatalf("renderText = %q, want %q", got, tt.want)
			}
		})
	}
}
