// Package metrics holds the storefront's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	syncWrites          *prometheus.CounterVec
	syncErrors          *prometheus.CounterVec
	checkoutSubmissions *prometheus.CounterVec
	handoffFailures     *prometheus.CounterVec
	cartEvents          *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		syncWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sassynary_sync_writes_total",
			Help: "Sync bridge writes by namespace and the path that served them.",
		}, []string{"namespace", "path"}),
		syncErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sassynary_sync_errors_total",
			Help: "Remote write errors absorbed by the sync bridge.",
		}, []string{"namespace"}),
		checkoutSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sassynary_checkout_submissions_total",
			Help: "Completed checkout submissions by payment method.",
		}, []string{"payment_method"}),
		handoffFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sassynary_handoff_failures_total",
			Help: "DM handoff steps that failed.",
		}, []string{"step"}),
		cartEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sassynary_cart_events_total",
			Help: "Cart state changes by event type.",
		}, []string{"event"}),
	}
	reg.MustRegister(m.syncWrites, m.syncErrors, m.checkoutSubmissions, m.handoffFailures, m.cartEvents)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SyncWrite(namespace, path string) {
	if m == nil {
		return
	}
	m.syncWrites.WithLabelValues(namespace, path).Inc()
}

func (m *Metrics) SyncError(namespace string) {
	if m == nil {
		return
	}
	m.syncErrors.WithLabelValues(namespace).Inc()
}

// CheckoutSubmitted counts a submission. An empty method means DM-only checkout.
func (m *Metrics) CheckoutSubmitted(method string) {
	if m == nil {
		return
	}
	if method == "" {
		method = "dm"
	}
	m.checkoutSubmissions.WithLabelValues(method).Inc()
}

func (m *Metrics) HandoffFailed(step string) {
	if m == nil {
		return
	}
	m.handoffFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) CartEvent(eventType string) {
	if m == nil {
		return
	}
	m.cartEvents.WithLabelValues(eventType).Inc()
}
