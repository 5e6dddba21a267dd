package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the extractor.
type Metrics struct {
	Registry          *prometheus.Registry
	RowsTotal         prometheus.Counter
	RevealsTotal      prometheus.Counter
	ItemsParsedTotal  prometheus.Counter
	WaitDuration      *prometheus.HistogramVec
	WaitTimeoutsTotal *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	rows := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_rows_total",
			Help: "Total order summary rows collected.",
		},
	)
	reveals := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_reveals_total",
			Help: "Total clicks on the reveal-more control that produced new rows.",
		},
	)
	items := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_items_parsed_total",
			Help: "Total line items parsed from order detail pages.",
		},
	)
	waitDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orders_wait_duration_seconds",
			Help:    "Time spent waiting on page state.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		},
		[]string{"wait"},
	)
	timeouts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_wait_timeouts_total",
			Help: "Total waits that ran out of time, by wait.",
		},
		[]string{"wait"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_errors_total",
			Help: "Total number of extraction errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(rows, reveals, items, waitDuration, timeouts, errorsTotal)

	return &Metrics{
		Registry:          registry,
		RowsTotal:         rows,
		RevealsTotal:      reveals,
		ItemsParsedTotal:  items,
		WaitDuration:      waitDuration,
		WaitTimeoutsTotal: timeouts,
		ErrorsTotal:       errorsTotal,
	}
}

// AddRows increments the collected rows counter.
func (m *Metrics) AddRows(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsTotal.Add(float64(n))
}

// IncReveals increments the reveal counter.
func (m *Metrics) IncReveals() {
	if m == nil {
		return
	}
	m.RevealsTotal.Inc()
}

// AddItems increments the parsed items counter.
func (m *Metrics) AddItems(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ItemsParsedTotal.Add(float64(n))
}

// ObserveWait records how long a wait took.
func (m *Metrics) ObserveWait(wait string, d time.Duration) {
	if m == nil {
		return
	}
	m.WaitDuration.WithLabelValues(wait).Observe(d.Seconds())
}

// IncTimeout increments the timeouts counter for a wait label.
func (m *Metrics) IncTimeout(wait string) {
	if m == nil {
		return
	}
	m.WaitTimeoutsTotal.WithLabelValues(wait).Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
