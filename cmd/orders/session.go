package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-scrape-orders/browser"
	"github.com/aluiziolira/go-scrape-orders/config"
	"github.com/aluiziolira/go-scrape-orders/scraper"
	"github.com/aluiziolira/go-scrape-orders/snapshot"
)

// session is an order history page ready for extraction.
type session struct {
	ext     *scraper.Extractor
	page    scraper.Page
	closers []func() error
}

// openSession opens the order history, either live in a browser after the
// operator logs in, or from a captured page when replay is set.
func openSession(ctx context.Context, cfg *config.Config, replay string) (*session, error) {
	s := &session{ext: scraper.NewExtractor(cfg)}
	if server := startMetrics(cfg.MetricsAddr, s.ext.Metrics); server != nil {
		s.closers = append(s.closers, func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if replay != "" {
		page, err := snapshot.NewLoader(cfg).Load(ctx, replay)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.page = page
		slog.Info("replaying captured page", slog.String("url", page.URL()))
		if err := s.ext.OpenHistory(ctx, page); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	}

	b, err := browser.Launch(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.closers = append(s.closers, b.Close)

	page, err := b.NewPage()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.page = page
	if err := s.ext.SignIn(ctx, page); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases resources in reverse order of acquisition.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Warn("session cleanup failed", slog.Any("error", err))
		}
	}
	s.closers = nil
}

func startMetrics(addr string, metrics *scraper.Metrics) *http.Server {
	if addr == "" || metrics == nil {
		return nil
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}
