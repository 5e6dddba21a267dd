package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.AddRows(1)
	m.IncReveals()
	m.AddItems(2)
	m.ObserveWait("login", time.Second)
	m.IncTimeout("login")
	m.IncError("other")
}

func TestHistoryRecordsMetrics(t *testing.T) {
	page := &fakePage{texts: historyPages}
	ext := newTestExtractor()
	if _, err := ext.History(context.Background(), page); err != nil {
		t.Fatalf("history: %v", err)
	}

	if got := testutil.ToFloat64(ext.Metrics.RowsTotal); got != 4 {
		t.Fatalf("rows_total = %v, want 4", got)
	}
	if got := testutil.ToFloat64(ext.Metrics.RevealsTotal); got != 2 {
		t.Fatalf("reveals_total = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(ext.Metrics.WaitDuration); got != 1 {
		t.Fatalf("wait duration series = %d, want one rows_grow series", got)
	}
}

func TestOpenDetailMismatchCountsError(t *testing.T) {
	page := &fakePage{texts: historyPages}
	ext := newTestExtractor()
	if _, err := ext.OpenDetail(context.Background(), page, 0); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if got := testutil.ToFloat64(ext.Metrics.ErrorsTotal.WithLabelValues("mismatch")); got != 1 {
		t.Fatalf("errors_total{mismatch} = %v, want 1", got)
	}
}
