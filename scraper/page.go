package scraper

import (
	"context"
	"fmt"
	"time"
)

// Target names a page element either by its visible text (a button or link
// containing Text) or by a CSS selector.
type Target struct {
	Name string
	Text string
	CSS  string
}

var (
	OrderHistoryControl = Target{Name: "order_history", Text: "Order history"}
	AllOrdersControl    = Target{Name: "all_orders", Text: "All orders"}
	RevealControl       = Target{Name: "see_more", Text: "See more"}
	DetailLinks         = Target{Name: "track_order", Text: "Track order"}
	ItemImages          = Target{Name: "item_images", CSS: "img.order-confirmation-item-image"}
)

// State is the page state a wait condition observes.
type State struct {
	URL  string
	Text string
}

// Wait is a bounded wait on page state. Text is only read when NeedsText is set.
type Wait struct {
	Name        string
	Description string
	Timeout     time.Duration
	NeedsText   bool
	Until       func(State) bool
}

// Page is a logged-in view of the portal. Implementations wrap ErrTimeout
// when a bounded call runs out of time and return ErrControlUnavailable from
// Click when the control is absent or not actionable.
type Page interface {
	Goto(ctx context.Context, url string, timeout time.Duration) error
	URL() string
	Text(ctx context.Context, timeout time.Duration) (string, error)
	WaitUntil(ctx context.Context, w Wait) error
	Click(ctx context.Context, t Target, timeout time.Duration) error
	Count(ctx context.Context, t Target) (int, error)
	// Attributes returns attr for every element of t in document order,
	// with "" for elements whose attribute could not be read.
	Attributes(ctx context.Context, t Target, attr string, timeout time.Duration) ([]string, error)
	// Open triggers the index-th element of t and returns the view it opens.
	Open(ctx context.Context, t Target, index int, timeout time.Duration) (Page, error)
	Close() error
}

// Poll observes page state every interval until w.Until holds. It returns an
// error wrapping ErrTimeout once w.Timeout elapses. Observation errors are
// retried until then, since pages fail reads while navigating.
func Poll(ctx context.Context, w Wait, interval time.Duration, observe func(context.Context) (State, error)) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	timer := time.NewTimer(w.Timeout)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		state, err := observe(ctx)
		if err == nil && w.Until(state) {
			return nil
		}
		if err != nil {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if lastErr != nil {
				return fmt.Errorf("%w after %s: %s: %v", ErrTimeout, w.Timeout, w.Description, lastErr)
			}
			return fmt.Errorf("%w after %s: %s", ErrTimeout, w.Timeout, w.Description)
		case <-ticker.C:
		}
	}
}
