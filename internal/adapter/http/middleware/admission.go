package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"easypay/internal/core/ports"
	"easypay/pkg/apperror"
	"easypay/pkg/response"

	"github.com/gin-gonic/gin"
)

// Admission applies five ordered rules to every request: bypass
// health/metrics, fail fast while the CircuitBreaker is open, reject over
// the RateLimiter, skip the RequestQueue for Critical work once the backlog
// is nearly full, and otherwise enqueue-or-503 with a per-request deadline.
type Admission struct {
	breaker ports.CircuitBreaker
	limiter ports.RateLimiter
	queue   ports.RequestQueue

	maxQueueSize   int
	requestTimeout time.Duration

	bypass map[string]bool
	sink   ports.MetricSink

	inFlight int64
}

// NewAdmission wires the three admission-layer collaborators. bypass lists
// exact request paths (health checks, metrics) that skip all five rules.
func NewAdmission(breaker ports.CircuitBreaker, limiter ports.RateLimiter, queue ports.RequestQueue, maxQueueSize int, requestTimeout time.Duration, bypass []string, sink ports.MetricSink) *Admission {
	bypassSet := make(map[string]bool, len(bypass))
	for _, p := range bypass {
		bypassSet[p] = true
	}
	return &Admission{
		breaker:        breaker,
		limiter:        limiter,
		queue:          queue,
		maxQueueSize:   maxQueueSize,
		requestTimeout: requestTimeout,
		bypass:         bypassSet,
		sink:           sink,
	}
}

// Handler returns the gin middleware enforcing admission.
func (a *Admission) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.bypass[c.Request.URL.Path] {
			c.Next()
			return
		}

		state := a.breaker.State()
		if a.sink != nil {
			a.sink.SetCircuitState(string(state))
		}
		if state == ports.CircuitOpen {
			response.Error(c, apperror.ErrServiceUnavailable())
			c.Abort()
			return
		}

		identity := clientIdentity(c)
		if allowed, retryAfter := a.limiter.Allow(identity); !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Error(c, apperror.ErrRateLimited(retryAfter))
			c.Abort()
			return
		}

		priority := classifyPriority(c)

		if priority == ports.PriorityCritical && a.backlog() >= a.criticalSkipThreshold() {
			a.runInline(c)
			return
		}

		a.enqueue(c, priority)
	}
}

// backlog sums in-flight work plus everything currently queued across every
// priority level.
func (a *Admission) backlog() int {
	total := int(atomic.LoadInt64(&a.inFlight))
	for _, n := range a.queue.Stats() {
		total += n
	}
	return total
}

// criticalSkipThreshold is 90% of max_queue_size: past it, Critical
// payment mutations run inline instead of queueing.
func (a *Admission) criticalSkipThreshold() int {
	return (a.maxQueueSize * 9) / 10
}

func (a *Admission) runInline(c *gin.Context) {
	atomic.AddInt64(&a.inFlight, 1)
	defer atomic.AddInt64(&a.inFlight, -1)
	c.Next()
}

// enqueue hands the request to the queue and waits for a worker to run it.
// A claim flag arbitrates between the worker and the timeout branch:
// whichever claims the request first owns the gin.Context, so a worker
// dequeuing just after the timeout never runs the handler over a response
// that has already been written. The queue itself discards jobs dequeued
// past their deadline and records the timeout metric.
func (a *Admission) enqueue(c *gin.Context, priority ports.Priority) {
	done := make(chan struct{})
	var claimed int32

	submitted := a.queue.Submit(priority, func(_ context.Context) {
		defer close(done)
		if !atomic.CompareAndSwapInt32(&claimed, 0, 1) {
			return
		}
		atomic.AddInt64(&a.inFlight, 1)
		defer atomic.AddInt64(&a.inFlight, -1)
		c.Next()
	})
	if !submitted {
		response.Error(c, apperror.ErrQueueFull())
		c.Abort()
		return
	}

	select {
	case <-done:
	case <-time.After(a.requestTimeout):
		if !atomic.CompareAndSwapInt32(&claimed, 0, 1) {
			// A worker started running the handler first; let it finish.
			<-done
			return
		}
		response.Error(c, apperror.ErrAdmissionTimeout())
		c.Abort()
	}
}

// clientIdentity derives the RateLimiter identity: the caller's API key
// when present, else their IP address.
func clientIdentity(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return "api_key:" + key
	}
	return "ip:" + c.ClientIP()
}

// classifyPriority assigns Critical to payment-mutating writes, High to
// payment reads, Normal to other API traffic, and Low to everything else.
func classifyPriority(c *gin.Context) ports.Priority {
	path := c.Request.URL.Path
	method := c.Request.Method

	if !strings.HasPrefix(path, "/api/v1/") {
		return ports.PriorityLow
	}

	if strings.HasPrefix(path, "/api/v1/payments") {
		if method == http.MethodGet {
			return ports.PriorityHigh
		}
		return ports.PriorityCritical
	}

	return ports.PriorityNormal
}
