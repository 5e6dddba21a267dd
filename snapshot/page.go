package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-orders/scraper"
)

// Page is a static captured document. Nothing changes unless a link is
// followed, so waits hold immediately or not at all.
type Page struct {
	loader *Loader
	url    string
	root   *goquery.Selection
	text   string
}

var _ scraper.Page = (*Page)(nil)

func newPage(loader *Loader, pageURL string, root *goquery.Selection) *Page {
	p := &Page{loader: loader}
	p.replace(pageURL, root)
	return p
}

func (p *Page) replace(pageURL string, root *goquery.Selection) {
	p.url = pageURL
	p.root = root
	p.text = ""
	if len(root.Nodes) > 0 {
		p.text = renderText(root.Nodes[0])
	}
}

// Goto loads rawURL, resolved against the current page, into this page.
func (p *Page) Goto(ctx context.Context, rawURL string, _ time.Duration) error {
	next, err := p.loader.Load(ctx, p.resolve(rawURL))
	if err != nil {
		return err
	}
	p.replace(next.url, next.root)
	return nil
}

func (p *Page) URL() string { return p.url }

// Text returns the rendered text of the document, one block per line.
func (p *Page) Text(context.Context, time.Duration) (string, error) {
	return p.text, nil
}

func (p *Page) WaitUntil(ctx context.Context, w scraper.Wait) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	state := scraper.State{URL: p.url}
	if w.NeedsText {
		state.Text = p.text
	}
	if w.Until(state) {
		return nil
	}
	return fmt.Errorf("%w: %s not present in snapshot", scraper.ErrTimeout, w.Description)
}

// Click follows the href of the first element matching t. Controls without
// an href cannot act in a capture and report ErrControlUnavailable.
func (p *Page) Click(ctx context.Context, t scraper.Target, timeout time.Duration) error {
	href, ok := p.find(t).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return scraper.ErrControlUnavailable
	}
	return p.Goto(ctx, href, timeout)
}

func (p *Page) Count(_ context.Context, t scraper.Target) (int, error) {
	return p.find(t).Length(), nil
}

func (p *Page) Attributes(_ context.Context, t scraper.Target, attr string, _ time.Duration) ([]string, error) {
	sel := p.find(t)
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		value, _ := s.Attr(attr)
		out = append(out, value)
	})
	return out, nil
}

// Open loads the href of the index-th element of t as a separate page.
func (p *Page) Open(ctx context.Context, t scraper.Target, index int, _ time.Duration) (scraper.Page, error) {
	sel := p.find(t).Eq(index)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: no %q element at index %d", scraper.ErrControlUnavailable, t.Name, index)
	}
	href, ok := sel.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return nil, fmt.Errorf("%w: %q element %d has no link", scraper.ErrControlUnavailable, t.Name, index)
	}
	return p.loader.Load(ctx, p.resolve(href))
}

func (p *Page) Close() error { return nil }

func (p *Page) find(t scraper.Target) *goquery.Selection {
	if t.CSS != "" {
		return p.root.Find(t.CSS)
	}
	return p.root.Find("a, button").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.TrimSpace(s.Text()), t.Text)
	})
}

func (p *Page) resolve(href string) string {
	href = strings.TrimSpace(href)
	base, err := url.Parse(p.url)
	if err != nil || p.url == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
