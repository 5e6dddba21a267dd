package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aluiziolira/go-scrape-orders/parser"
)

// SignIn opens the account page and blocks until the operator has finished
// logging in, then opens the order history.
func (e *Extractor) SignIn(ctx context.Context, page Page) error {
	accountURL := e.cfg.AccountURL()
	slog.Info("opening account page", slog.String("url", accountURL))
	if err := page.Goto(ctx, accountURL, e.cfg.NavigationTimeout); err != nil {
		return fmt.Errorf("open account page: %w", err)
	}

	slog.Info("waiting for login; complete login and two-factor verification in the browser",
		slog.Duration("timeout", e.cfg.LoginTimeout),
	)

	redirected, err := e.attempt(ctx, page, Wait{
		Name:        "login_redirect",
		Description: "redirect to the login flow",
		Timeout:     e.cfg.RedirectTimeout,
		Until: func(s State) bool {
			return !strings.Contains(s.URL, e.cfg.AccountPath)
		},
	})
	if err != nil {
		return err
	}
	if !redirected {
		slog.Debug("no login redirect; session already established")
	}

	if err := e.require(ctx, page, Wait{
		Name:        "login",
		Description: "login to complete",
		Timeout:     e.cfg.LoginTimeout,
		Until: func(s State) bool {
			return strings.Contains(s.URL, e.cfg.AccountPath)
		},
	}); err != nil {
		return err
	}
	slog.Info("login detected")

	return e.OpenHistory(ctx, page)
}

// OpenHistory expands the order history on the account page and waits for
// summary rows to appear.
func (e *Extractor) OpenHistory(ctx context.Context, page Page) error {
	clicked, err := e.click(ctx, page, OrderHistoryControl, e.cfg.HistoryTimeout)
	if err != nil {
		return err
	}
	if clicked {
		slog.Info("opened order history")
	} else {
		slog.Info("order history control not found; orders may already be visible")
	}

	clicked, err = e.click(ctx, page, AllOrdersControl, e.cfg.AllOrdersTimeout)
	if err != nil {
		return err
	}
	if clicked {
		slog.Info("selected all orders")
	}

	return e.AwaitOrders(ctx, page)
}

// AwaitOrders waits until at least one summary row is visible.
func (e *Extractor) AwaitOrders(ctx context.Context, page Page) error {
	if err := e.require(ctx, page, Wait{
		Name:        "order_rows",
		Description: "order rows to be visible",
		Timeout:     e.cfg.OrderDataTimeout,
		NeedsText:   true,
		Until: func(s State) bool {
			return parser.CountSummaries(parser.Lines(s.Text)) > 0
		},
	}); err != nil {
		return err
	}
	slog.Info("order data visible")
	return nil
}
