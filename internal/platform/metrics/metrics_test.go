package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	r := gin.New()
	r.GET("/metrics", m.Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMetrics_MiddlewareCountsRequests(t *testing.T) {
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/payments/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/abc", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	body := scrape(t, m)
	// Labelled by route template, not the raw URL.
	assert.Contains(t, body, `easypay_http_requests_total{method="GET",path="/api/v1/payments/:id",status="200"} 3`)
	assert.Contains(t, body, "easypay_http_request_duration_seconds")
}

func TestMetrics_PaymentTransition(t *testing.T) {
	m := New()
	m.PaymentTransition("pending", "captured")
	m.PaymentTransition("", "pending")

	body := scrape(t, m)
	assert.Contains(t, body, `easypay_payment_transitions_total{from="pending",to="captured"} 1`)
	assert.Contains(t, body, `easypay_payment_transitions_total{from="none",to="pending"} 1`)
}

func TestMetrics_CircuitStateGauge(t *testing.T) {
	m := New()

	m.SetCircuitState("open")
	assert.Contains(t, scrape(t, m), "easypay_circuit_breaker_state 2")

	m.SetCircuitState("half_open")
	assert.Contains(t, scrape(t, m), "easypay_circuit_breaker_state 1")

	m.SetCircuitState("closed")
	assert.Contains(t, scrape(t, m), "easypay_circuit_breaker_state 0")
}

func TestMetrics_WebhookDeliveryAndQueueTimeout(t *testing.T) {
	m := New()
	m.WebhookDelivery("delivered")
	m.WebhookDelivery("retrying")
	m.QueueTimeout()

	body := scrape(t, m)
	assert.Contains(t, body, `easypay_webhook_deliveries_total{outcome="delivered"} 1`)
	assert.Contains(t, body, `easypay_webhook_deliveries_total{outcome="retrying"} 1`)
	assert.Contains(t, body, "easypay_request_queue_timeouts_total 1")
}
