package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for API calls.
const (
	OutcomeSuccess   = "success"
	OutcomeHTTPError = "http_error"
	OutcomeTransport = "transport_error"
)

// InventoryMetrics records traffic against the inventory API and client-side
// decisions worth alerting on.
type InventoryMetrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	historyFallback prometheus.Counter
	stockRejections prometheus.Counter
}

// NewInventoryMetrics registers the collectors on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_api_requests_total",
		Help: "Requests issued to the inventory API.",
	}, []string{"endpoint", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_api_request_duration_seconds",
		Help:    "Latency of inventory API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	historyFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_history_fallback_total",
		Help: "History lookups served from the full transaction list.",
	})
	stockRejections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_stock_rejections_total",
		Help: "OUT transactions rejected locally for insufficient stock.",
	})
	reg.MustRegister(requests, duration, historyFallback, stockRejections)
	return &InventoryMetrics{
		requests:        requests,
		duration:        duration,
		historyFallback: historyFallback,
		stockRejections: stockRejections,
	}
}

// ObserveRequest records one API call.
func (m *InventoryMetrics) ObserveRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	m.requests.WithLabelValues(endpoint, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// IncHistoryFallback counts a history lookup that needed the fallback path.
func (m *InventoryMetrics) IncHistoryFallback() {
	if m == nil || m.historyFallback == nil {
		return
	}
	m.historyFallback.Inc()
}

// IncStockRejection counts an OUT transaction blocked before submission.
func (m *InventoryMetrics) IncStockRejection() {
	if m == nil || m.stockRejections == nil {
		return
	}
	m.stockRejections.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
