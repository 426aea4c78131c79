package service

import (
	"context"
	"sync"
	"time"

	"easypay/internal/core/ports"
	"easypay/pkg/apperror"

	"github.com/rs/zerolog"
)

// circuitBreaker implements ports.CircuitBreaker as a process-local,
// mutex-guarded state machine over closed/open/half-open, guarding every
// upstream processor call.
type circuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	recoveryTimeout  time.Duration
	successThreshold int

	state           ports.CircuitState
	failureCount    int
	successCount    int
	probeInFlight   bool
	lastFailureTime time.Time

	clock ports.Clock
	log   zerolog.Logger
}

// NewCircuitBreaker creates a circuit breaker that opens after
// failureThreshold consecutive failures, waits recoveryTimeout before
// probing again, and requires successThreshold consecutive successes in
// half-open state before closing.
func NewCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration, successThreshold int, clock ports.Clock, log zerolog.Logger) ports.CircuitBreaker {
	return &circuitBreaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		successThreshold: successThreshold,
		state:            ports.CircuitClosed,
		clock:            clock,
		log:              log,
	}
}

// Call executes fn under breaker protection. In the open state it fails
// fast with apperror.ErrCircuitOpen unless the recovery timeout has
// elapsed, in which case it admits a single half-open probe.
func (b *circuitBreaker) Call(ctx context.Context, fn func() error) error {
	if !b.admit() {
		return apperror.ErrCircuitOpen()
	}

	err := fn()
	if err != nil {
		b.onFailure()
		return err
	}
	b.onSuccess()
	return nil
}

func (b *circuitBreaker) State() ports.CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// admit reports whether a call may proceed, transitioning open -> half-open
// when the recovery timeout has elapsed.
func (b *circuitBreaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case ports.CircuitClosed:
		return true
	case ports.CircuitHalfOpen:
		// One probe at a time: concurrent callers wait out the in-flight one.
		if b.probeInFlight {
			return false
		}
		b.probeInFlight = true
		return true
	}

	if b.clock.Now().Sub(b.lastFailureTime) < b.recoveryTimeout {
		return false
	}

	b.state = ports.CircuitHalfOpen
	b.successCount = 0
	b.probeInFlight = true
	return true
}

func (b *circuitBreaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount = 0
	b.probeInFlight = false

	if b.state == ports.CircuitHalfOpen {
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.state = ports.CircuitClosed
			b.log.Info().Msg("circuit breaker closed")
		}
	}
}

func (b *circuitBreaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.probeInFlight = false
	b.lastFailureTime = b.clock.Now()

	if b.state == ports.CircuitHalfOpen {
		b.state = ports.CircuitOpen
		b.log.Warn().Msg("circuit breaker reopened after failed probe")
		return
	}

	if b.failureCount >= b.failureThreshold {
		b.state = ports.CircuitOpen
		b.log.Warn().Int("failure_count", b.failureCount).Msg("circuit breaker opened")
	}
}
