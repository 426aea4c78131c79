// Package metrics exposes the process's Prometheus instrumentation: an HTTP
// middleware, domain counters for payment transitions and webhook delivery,
// and the handler serving GET /metrics in Prometheus exposition format.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every instrument registered against one registry, so tests
// can construct isolated instances instead of sharing package-level state.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	transitions   *prometheus.CounterVec
	webhookSends  *prometheus.CounterVec
	queueTimeouts prometheus.Counter
	circuitState  prometheus.Gauge
}

// New constructs a Metrics instance with its own registry, including the
// standard Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "easypay_http_requests_total",
			Help: "Total HTTP requests served",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "easypay_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "easypay_payment_transitions_total",
			Help: "Payment lifecycle transitions",
		}, []string{"from", "to"}),
		webhookSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "easypay_webhook_deliveries_total",
			Help: "Outbound webhook delivery attempts by outcome",
		}, []string{"outcome"}),
		queueTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easypay_request_queue_timeouts_total",
			Help: "Requests that expired before a worker picked them up",
		}),
		circuitState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "easypay_circuit_breaker_state",
			Help: "Processor circuit breaker state (0 closed, 1 half-open, 2 open)",
		}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.transitions,
		m.webhookSends,
		m.queueTimeouts,
		m.circuitState,
	)

	return m
}

// Handler serves the registry in Prometheus exposition format for GET /metrics.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware records request count and latency per route. The route template
// (c.FullPath) is used rather than the raw URL so payment ids do not explode
// label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// PaymentTransition records one lifecycle transition.
func (m *Metrics) PaymentTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// WebhookDelivery records one outbound delivery attempt outcome
// (delivered, retrying, failed, expired).
func (m *Metrics) WebhookDelivery(outcome string) {
	m.webhookSends.WithLabelValues(outcome).Inc()
}

// QueueTimeout records a request that expired in the admission queue.
func (m *Metrics) QueueTimeout() {
	m.queueTimeouts.Inc()
}

// SetCircuitState publishes the breaker's current state.
func (m *Metrics) SetCircuitState(state string) {
	switch state {
	case "open":
		m.circuitState.Set(2)
	case "half_open":
		m.circuitState.Set(1)
	default:
		m.circuitState.Set(0)
	}
}
