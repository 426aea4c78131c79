package ports

// MetricSink is the metrics collaborator surface the core emits into. The
// concrete Prometheus registry lives in internal/platform/metrics; a nil
// sink is always legal and drops everything.
type MetricSink interface {
	PaymentTransition(from, to string)
	WebhookDelivery(outcome string)
	QueueTimeout()
	SetCircuitState(state string)
}
