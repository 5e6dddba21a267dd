// Package browser drives a real Chromium session through playwright-go.
package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/scraper"
)

// Browser owns the playwright driver, the browser process and one context.
type Browser struct {
	cfg     *config.Config
	pw      *pw.Playwright
	browser pw.Browser
	context pw.BrowserContext
}

// Install downloads the playwright driver and Chromium.
func Install() error {
	if err := pw.Install(&pw.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("install playwright: %w", err)
	}
	return nil
}

// Launch starts Chromium. Headed mode opens a maximized window so the
// operator can complete the login.
func Launch(cfg *config.Config) (*Browser, error) {
	driver, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright (run `orders install` first): %w", err)
	}

	b, err := driver.Chromium.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(cfg.Headless),
		Args:     []string{"--start-maximized"},
	})
	if err != nil {
		driver.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	bctx, err := b.NewContext(pw.BrowserNewContextOptions{
		NoViewport: pw.Bool(true),
	})
	if err != nil {
		b.Close()
		driver.Stop()
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	slog.Debug("browser launched", slog.Bool("headless", cfg.Headless))

	return &Browser{cfg: cfg, pw: driver, browser: b, context: bctx}, nil
}

// NewPage opens a tab.
func (b *Browser) NewPage() (*Page, error) {
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	return newPage(page, b.cfg), nil
}

// Close shuts the browser and the driver down.
func (b *Browser) Close() error {
	var errs []error
	if err := b.context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if err := b.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := b.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

func millis(d time.Duration) *float64 {
	return pw.Float(float64(d.Milliseconds()))
}

// translate maps playwright timeouts onto scraper.ErrTimeout.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pw.ErrTimeout) {
		return fmt.Errorf("%w: %s: %v", scraper.ErrTimeout, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
