// Package metrics collects and exposes Prometheus metrics for the
// best-effort delivery paths.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks degraded-delivery events. Failures on these paths are
// never surfaced to the request caller, so the counters are the only
// place they become visible.
type Collector struct {
	notificationFailures prometheus.Counter
	fanoutDropped        prometheus.Counter
	slowDisconnects      prometheus.Counter
	subscribers          prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		notificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipely_notification_record_failures_total",
			Help: "Notifications that failed to persist after a successful mutation",
		}),
		fanoutDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipely_fanout_dropped_total",
			Help: "Fanout events published to a channel with no subscribers",
		}),
		slowDisconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipely_fanout_slow_disconnects_total",
			Help: "Subscribers disconnected because their buffer filled up",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "recipely_realtime_subscribers",
			Help: "Currently attached realtime subscribers",
		}),
	}

	reg.MustRegister(
		c.notificationFailures,
		c.fanoutDropped,
		c.slowDisconnects,
		c.subscribers,
	)

	return c
}

// RecordNotificationFailure records a notification persistence failure
func (c *Collector) RecordNotificationFailure() {
	c.notificationFailures.Inc()
}

// RecordFanoutDropped records an event dropped for lack of subscribers
func (c *Collector) RecordFanoutDropped() {
	c.fanoutDropped.Inc()
}

// RecordSlowDisconnect records a subscriber evicted for falling behind
func (c *Collector) RecordSlowDisconnect() {
	c.slowDisconnects.Inc()
}

// SubscriberAttached increments the live subscriber gauge
func (c *Collector) SubscriberAttached() {
	c.subscribers.Inc()
}

// SubscriberDetached decrements the live subscriber gauge
func (c *Collector) SubscriberDetached() {
	c.subscribers.Dec()
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
