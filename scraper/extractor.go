package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/models"
	"github.com/aluiziolira/go-scrape-orders/parser"
)

// Extractor drives a Page through the order history and detail views.
// One Extractor serves one run at a time.
type Extractor struct {
	cfg     *config.Config
	Metrics *Metrics

	timeouts map[string]int
}

// Location is the outcome of searching the summary rows for a date.
type Location struct {
	Date      string
	Index     int
	Found     bool
	Available []string
}

// NewExtractor builds an extractor configured from cfg.
func NewExtractor(cfg *config.Config) *Extractor {
	return &Extractor{
		cfg:      cfg,
		Metrics:  NewMetrics(),
		timeouts: make(map[string]int),
	}
}

// History collects every summary row, revealing more until the list is exhausted.
func (e *Extractor) History(ctx context.Context, page Page) (*models.ExtractionResult, error) {
	start := time.Now()
	p := e.NewPaginator(page)
	if err := p.Run(ctx, nil); err != nil {
		e.Metrics.IncError(errorTypeLabel(err))
		return nil, err
	}

	rows := p.Rows()
	return &models.ExtractionResult{
		Orders:         rows,
		StartTime:      start,
		EndTime:        time.Now(),
		RowCount:       len(rows),
		RevealCount:    p.Reveals(),
		TimeoutsByWait: e.snapshotTimeouts(),
	}, nil
}

// Locate finds the first summary row dated date, revealing more rows until it
// appears or the list is exhausted. A missing date is reported through
// Location.Found, not as an error.
func (e *Extractor) Locate(ctx context.Context, page Page, date string) (Location, error) {
	p := e.NewPaginator(page)
	err := p.Run(ctx, func(lines []string) bool {
		_, ok := parser.ResolveIndex(lines, date)
		return ok
	})
	if err != nil {
		e.Metrics.IncError(errorTypeLabel(err))
		return Location{}, err
	}

	lines := p.Lines()
	loc := Location{Date: date, Index: -1, Available: parser.SummaryLines(lines)}
	if index, ok := parser.ResolveIndex(lines, date); ok {
		loc.Index = index
		loc.Found = true
	}
	return loc, nil
}

// Detail locates date and extracts its order detail. It returns a nil detail
// when the date is not found; loc lists the available rows in that case.
func (e *Extractor) Detail(ctx context.Context, page Page, date string) (*models.OrderDetail, Location, error) {
	loc, err := e.Locate(ctx, page, date)
	if err != nil || !loc.Found {
		return nil, loc, err
	}
	slog.Info("order located", slog.String("date", date), slog.Int("index", loc.Index))

	detail, err := e.OpenDetail(ctx, page, loc.Index)
	if err != nil {
		return nil, loc, err
	}
	return detail, loc, nil
}

// OpenDetail opens the detail view of the index-th summary row and parses it.
func (e *Extractor) OpenDetail(ctx context.Context, page Page, index int) (*models.OrderDetail, error) {
	detail, err := e.openDetail(ctx, page, index)
	if err != nil {
		e.Metrics.IncError(errorTypeLabel(err))
		return nil, err
	}
	return detail, nil
}

func (e *Extractor) openDetail(ctx context.Context, page Page, index int) (*models.OrderDetail, error) {
	count, err := page.Count(ctx, DetailLinks)
	if err != nil {
		return nil, fmt.Errorf("count detail links: %w", err)
	}
	if index < 0 || index >= count {
		return nil, MismatchError{Collection: DetailLinks.Text, Expected: index + 1, Actual: count}
	}

	view, err := page.Open(ctx, DetailLinks, index, e.cfg.NewPageTimeout)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, WaitTimeoutError{Wait: "detail page to open", Timeout: e.cfg.NewPageTimeout, Err: err}
		}
		return nil, fmt.Errorf("open detail %d: %w", index, err)
	}
	defer func() {
		if err := view.Close(); err != nil {
			slog.Debug("close detail view", slog.Any("error", err))
		}
	}()
	slog.Info("detail page opened", slog.String("url", view.URL()))

	if err := e.require(ctx, view, Wait{
		Name:        "order_number",
		Description: "order number to be visible",
		Timeout:     e.cfg.DetailTimeout,
		NeedsText:   true,
		Until: func(s State) bool {
			return strings.Contains(s.Text, "Order number:")
		},
	}); err != nil {
		return nil, err
	}

	text, err := view.Text(ctx, e.cfg.TextTimeout)
	if err != nil {
		return nil, fmt.Errorf("read detail text: %w", err)
	}

	images, err := view.Attributes(ctx, ItemImages, "src", e.cfg.AttributeTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("item images unavailable", slog.Any("error", err))
		images = nil
	}

	detail := parser.ParseDetail(view.URL(), text, images)
	e.Metrics.AddItems(len(detail.Items))
	slog.Debug("order detail parsed",
		slog.String("order_number", models.Value(detail.OrderNumber)),
		slog.Int("items", len(detail.Items)),
		slog.Int("images", len(images)),
	)
	return detail, nil
}

// require runs a mandatory wait; a timeout aborts the run.
func (e *Extractor) require(ctx context.Context, page Page, w Wait) error {
	err := e.wait(ctx, page, w)
	if errors.Is(err, ErrTimeout) {
		return WaitTimeoutError{Wait: w.Description, Timeout: w.Timeout, Err: err}
	}
	return err
}

// attempt runs an optional wait and reports whether it held.
func (e *Extractor) attempt(ctx context.Context, page Page, w Wait) (bool, error) {
	err := e.wait(ctx, page, w)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrTimeout):
		slog.Debug("optional wait skipped", slog.String("wait", w.Name), slog.Duration("timeout", w.Timeout))
		return false, nil
	default:
		return false, err
	}
}

func (e *Extractor) wait(ctx context.Context, page Page, w Wait) error {
	start := time.Now()
	err := page.WaitUntil(ctx, w)
	e.Metrics.ObserveWait(w.Name, time.Since(start))
	if errors.Is(err, ErrTimeout) {
		e.Metrics.IncTimeout(w.Name)
		e.timeouts[w.Name]++
	}
	return err
}

// click presses an optional control and reports whether it was pressed.
// Only context errors are returned; anything else means the control is unusable.
func (e *Extractor) click(ctx context.Context, page Page, t Target, timeout time.Duration) (bool, error) {
	err := page.Click(ctx, t, timeout)
	switch {
	case err == nil:
		return true, nil
	case ctx.Err() != nil:
		return false, ctx.Err()
	case errors.Is(err, ErrControlUnavailable), errors.Is(err, ErrTimeout):
		slog.Debug("control not available", slog.String("control", t.Name))
		return false, nil
	default:
		slog.Warn("control click failed", slog.String("control", t.Name), slog.Any("error", err))
		return false, nil
	}
}

func (e *Extractor) snapshotTimeouts() map[string]int {
	out := make(map[string]int, len(e.timeouts))
	for k, v := range e.timeouts {
		out[k] = v
	}
	return out
}
