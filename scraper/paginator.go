package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aluiziolira/go-scrape-orders/models"
	"github.com/aluiziolira/go-scrape-orders/parser"
)

// Paginator collects summary rows from a page that grows in place when its
// reveal control is pressed. Rows already counted are never emitted again.
type Paginator struct {
	ext  *Extractor
	page Page

	seen    int
	rows    []models.OrderSummary
	lines   []string
	reveals int
}

// NewPaginator starts a pagination pass over page.
func (e *Extractor) NewPaginator(page Page) *Paginator {
	return &Paginator{ext: e, page: page}
}

// Run alternates Collect and Reveal until no more rows appear or stop holds
// for the visible lines.
func (p *Paginator) Run(ctx context.Context, stop func(lines []string) bool) error {
	for {
		if _, err := p.Collect(ctx); err != nil {
			return err
		}
		if stop != nil && stop(p.lines) {
			return nil
		}
		more, err := p.Reveal(ctx)
		if err != nil {
			return err
		}
		if !more {
			slog.Debug("order list exhausted", slog.Int("orders", p.seen), slog.Int("reveals", p.reveals))
			return nil
		}
	}
}

// Collect re-parses the visible text and returns the rows beyond those seen.
func (p *Paginator) Collect(ctx context.Context) ([]models.OrderSummary, error) {
	text, err := p.page.Text(ctx, p.ext.cfg.TextTimeout)
	if err != nil {
		return nil, fmt.Errorf("read order history text: %w", err)
	}
	p.lines = parser.Lines(text)

	visible := parser.ParseSummaries(p.lines)
	if len(visible) <= p.seen {
		return nil, nil
	}
	fresh := visible[p.seen:]
	p.attachTrackURLs(ctx, fresh)

	p.rows = append(p.rows, fresh...)
	p.seen = len(visible)
	p.ext.Metrics.AddRows(len(fresh))
	return fresh, nil
}

// Reveal presses the reveal control and waits for the row count to grow.
// It reports false when the control is gone or no new rows arrive in time.
func (p *Paginator) Reveal(ctx context.Context) (bool, error) {
	cfg := p.ext.cfg
	if p.reveals >= cfg.MaxReveals {
		slog.Warn("reveal limit reached", slog.Int("reveals", p.reveals))
		return false, nil
	}

	before := p.seen
	clicked, err := p.ext.click(ctx, p.page, RevealControl, cfg.RevealTimeout)
	if err != nil || !clicked {
		return false, err
	}
	slog.Info("revealing more orders", slog.Int("orders", before))

	grew, err := p.ext.attempt(ctx, p.page, Wait{
		Name:        "rows_grow",
		Description: fmt.Sprintf("more than %d order rows", before),
		Timeout:     cfg.GrowthTimeout,
		NeedsText:   true,
		Until: func(s State) bool {
			return parser.CountSummaries(parser.Lines(s.Text)) > before
		},
	})
	if err != nil || !grew {
		return false, err
	}
	p.reveals++
	p.ext.Metrics.IncReveals()
	return true, nil
}

// Rows returns every row collected so far, in display order.
func (p *Paginator) Rows() []models.OrderSummary {
	out := make([]models.OrderSummary, len(p.rows))
	copy(out, p.rows)
	return out
}

// Lines returns the most recently visible lines.
func (p *Paginator) Lines() []string {
	return p.lines
}

// Reveals returns how many reveal clicks produced new rows.
func (p *Paginator) Reveals() int {
	return p.reveals
}

func (p *Paginator) attachTrackURLs(ctx context.Context, fresh []models.OrderSummary) {
	hrefs, err := p.page.Attributes(ctx, DetailLinks, "href", p.ext.cfg.AttributeTimeout)
	if err != nil {
		slog.Debug("detail links unavailable", slog.Any("error", err))
		return
	}
	for i := range fresh {
		index := fresh[i].DetailLinkIndex
		if index >= len(hrefs) {
			continue
		}
		if abs := p.absolute(hrefs[index]); abs != "" {
			fresh[i].TrackURL = models.String(abs)
		}
	}
}

func (p *Paginator) absolute(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	base, err := url.Parse(p.ext.cfg.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
