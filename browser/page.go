package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/scraper"
)

// pollTextTimeout bounds each text read made while polling a wait.
const pollTextTimeout = 2 * time.Second

// Page adapts a playwright page to scraper.Page.
type Page struct {
	page        pw.Page
	interval    time.Duration
	loadTimeout time.Duration
}

var _ scraper.Page = (*Page)(nil)

func newPage(page pw.Page, cfg *config.Config) *Page {
	return &Page{page: page, interval: cfg.PollInterval, loadTimeout: cfg.DetailTimeout}
}

func (p *Page) Goto(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateDomcontentloaded,
		Timeout:   millis(timeout),
	})
	return translate(err, "goto "+url)
}

func (p *Page) URL() string { return p.page.URL() }

// Text returns the rendered text of the body.
func (p *Page) Text(ctx context.Context, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := p.page.Locator("body").InnerText(pw.LocatorInnerTextOptions{Timeout: millis(timeout)})
	if err != nil {
		return "", translate(err, "read page text")
	}
	return text, nil
}

// WaitUntil polls the live page until w holds.
func (p *Page) WaitUntil(ctx context.Context, w scraper.Wait) error {
	return scraper.Poll(ctx, w, p.interval, func(ctx context.Context) (scraper.State, error) {
		state := scraper.State{URL: p.page.URL()}
		if !w.NeedsText {
			return state, nil
		}
		text, err := p.Text(ctx, pollTextTimeout)
		if err != nil {
			return state, err
		}
		state.Text = text
		return state, nil
	})
}

// Click presses the first visible element of t.
func (p *Page) Click(ctx context.Context, t scraper.Target, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loc := p.locator(t).First()
	err := loc.WaitFor(pw.LocatorWaitForOptions{
		State:   pw.WaitForSelectorStateVisible,
		Timeout: millis(timeout),
	})
	if err != nil {
		if errors.Is(err, pw.ErrTimeout) {
			return fmt.Errorf("%w: %s", scraper.ErrControlUnavailable, t.Name)
		}
		return translate(err, "wait for "+t.Name)
	}
	return translate(loc.Click(pw.LocatorClickOptions{Timeout: millis(timeout)}), "click "+t.Name)
}

func (p *Page) Count(ctx context.Context, t scraper.Target) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.locator(t).Count()
	if err != nil {
		return 0, translate(err, "count "+t.Name)
	}
	return n, nil
}

func (p *Page) Attributes(ctx context.Context, t scraper.Target, attr string, timeout time.Duration) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	elements, err := p.locator(t).All()
	if err != nil {
		return nil, translate(err, "list "+t.Name)
	}
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		value, err := el.GetAttribute(attr, pw.LocatorGetAttributeOptions{Timeout: millis(timeout)})
		if err != nil {
			value = ""
		}
		out = append(out, value)
	}
	return out, nil
}

// Open clicks the index-th element of t and waits for the tab it opens.
func (p *Page) Open(ctx context.Context, t scraper.Target, index int, timeout time.Duration) (scraper.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := p.locator(t).Nth(index)
	opened, err := p.page.Context().ExpectPage(func() error {
		return loc.Click()
	}, pw.BrowserContextExpectPageOptions{Timeout: millis(timeout)})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("open %s %d", t.Name, index))
	}

	if err := opened.WaitForLoadState(pw.PageWaitForLoadStateOptions{
		State:   pw.LoadStateDomcontentloaded,
		Timeout: millis(p.loadTimeout),
	}); err != nil {
		opened.Close()
		return nil, translate(err, "load detail page")
	}
	return &Page{page: opened, interval: p.interval, loadTimeout: p.loadTimeout}, nil
}

func (p *Page) Close() error {
	return p.page.Close()
}

func (p *Page) locator(t scraper.Target) pw.Locator {
	return p.page.Locator(selector(t))
}

// selector renders t as a playwright selector.
func selector(t scraper.Target) string {
	if t.CSS != "" {
		return t.CSS
	}
	return fmt.Sprintf("button:has-text(%q), a:has-text(%q)", t.Text, t.Text)
}
