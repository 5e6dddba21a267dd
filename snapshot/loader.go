// Package snapshot replays captured portal pages as a scraper.Page, so the
// extractor can run offline against saved HTML.
package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-orders/config"
)

const userAgent = "go-scrape-orders/1.0 (+snapshot replay)"

// Loader fetches captured documents over http(s) or file:// URLs.
type Loader struct {
	collector *colly.Collector
}

// NewLoader builds a loader with a transport that also serves file:// URLs.
func NewLoader(cfg *config.Config) *Loader {
	collector := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(userAgent),
	)
	collector.SetRequestTimeout(cfg.NavigationTimeout)

	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	collector.WithTransport(transport)

	return &Loader{collector: collector}
}

// WithTransport replaces the transport used for every load.
func (l *Loader) WithTransport(rt http.RoundTripper) {
	l.collector.WithTransport(rt)
}

// Load fetches rawURL and returns it as a page. Plain paths are read from disk.
func (l *Loader) Load(ctx context.Context, rawURL string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := FileURL(rawURL)
	if err != nil {
		return nil, err
	}

	c := l.collector.Clone()
	var (
		root   *goquery.Selection
		final  string
		status int
	)
	c.OnHTML("html", func(e *colly.HTMLElement) {
		if root == nil {
			root = e.DOM
			final = e.Request.URL.String()
		}
	})
	c.OnError(func(r *colly.Response, _ error) {
		status = r.StatusCode
	})

	if err := c.Visit(target); err != nil {
		if status != 0 {
			return nil, fmt.Errorf("load %s (status %d): %w", target, status, err)
		}
		return nil, fmt.Errorf("load %s: %w", target, err)
	}
	c.Wait()

	if root == nil {
		return nil, fmt.Errorf("load %s: response is not an html document", target)
	}
	return newPage(l, final, root), nil
}

// FileURL turns a filesystem path into a file:// URL and leaves URLs untouched.
func FileURL(path string) (string, error) {
	if strings.Contains(path, "://") {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve snapshot path: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
