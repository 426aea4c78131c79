package ports

import "time"

// Clock abstracts time.Now so PaymentEngine, WebhookDispatcher,
// CircuitBreaker, and RateLimiter are deterministically testable.
type Clock interface {
	Now() time.Time
}
