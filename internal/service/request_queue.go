package service

import (
	"context"
	"sync"
	"time"

	"easypay/internal/core/ports"

	"github.com/rs/zerolog"
)

// job pairs a submitted function with the context it runs under (Submit
// takes no context, so this is context.Background()) and the deadline
// after which it must be discarded instead of run.
type job struct {
	ctx      context.Context
	fn       func(ctx context.Context)
	deadline time.Time
}

// priorityQueue implements ports.RequestQueue with one bounded channel per
// priority level and a fixed pool of workers that always drain Critical
// before High before Normal before Low. Every job is stamped with a
// deadline at Submit time; a worker that dequeues a job past its deadline
// discards it and records a timeout metric rather than running it.
type priorityQueue struct {
	maxSize        int
	requestTimeout time.Duration

	mu      sync.Mutex
	backlog map[ports.Priority]chan job

	clock ports.Clock
	sink  ports.MetricSink

	wg  sync.WaitGroup
	log zerolog.Logger
}

// NewRequestQueue starts maxWorkers goroutines polling four per-priority
// channels, each sized to maxSize. Submit rejects once a level's channel is
// full rather than blocking the caller. requestTimeout bounds how long a
// job may wait in the backlog; zero disables expiry. sink may be nil.
func NewRequestQueue(maxSize, maxWorkers int, requestTimeout time.Duration, clock ports.Clock, sink ports.MetricSink, log zerolog.Logger) ports.RequestQueue {
	q := &priorityQueue{
		maxSize:        maxSize,
		requestTimeout: requestTimeout,
		backlog: map[ports.Priority]chan job{
			ports.PriorityCritical: make(chan job, maxSize),
			ports.PriorityHigh:     make(chan job, maxSize),
			ports.PriorityNormal:   make(chan job, maxSize),
			ports.PriorityLow:      make(chan job, maxSize),
		},
		clock: clock,
		sink:  sink,
		log:   log,
	}

	for i := 0; i < maxWorkers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	return q
}

func (q *priorityQueue) Submit(priority ports.Priority, fn func(ctx context.Context)) bool {
	ch, ok := q.backlog[priority]
	if !ok {
		ch = q.backlog[ports.PriorityNormal]
	}

	j := job{ctx: context.Background(), fn: fn}
	if q.requestTimeout > 0 {
		j.deadline = q.clock.Now().Add(q.requestTimeout)
	}

	select {
	case ch <- j:
		return true
	default:
		return false
	}
}

func (q *priorityQueue) Stats() map[ports.Priority]int {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := make(map[ports.Priority]int, len(q.backlog))
	for priority, ch := range q.backlog {
		stats[priority] = len(ch)
	}
	return stats
}

// worker polls priority levels highest-first. A job on a lower level only
// runs once every higher level's channel is empty at poll time.
func (q *priorityQueue) worker(id int) {
	defer q.wg.Done()

	levels := []ports.Priority{ports.PriorityCritical, ports.PriorityHigh, ports.PriorityNormal, ports.PriorityLow}

	for {
		j, ok := q.next(levels)
		if !ok {
			return
		}
		q.run(j)
	}
}

// next blocks until a job is available on any level, preferring the
// highest-priority non-empty channel. It returns ok=false only when every
// channel is closed.
func (q *priorityQueue) next(levels []ports.Priority) (job, bool) {
	for {
		for _, level := range levels {
			select {
			case j, ok := <-q.backlog[level]:
				if ok {
					return j, true
				}
			default:
			}
		}

		select {
		case j, ok := <-q.backlog[ports.PriorityCritical]:
			if ok {
				return j, true
			}
		case j, ok := <-q.backlog[ports.PriorityHigh]:
			if ok {
				return j, true
			}
		case j, ok := <-q.backlog[ports.PriorityNormal]:
			if ok {
				return j, true
			}
		case j, ok := <-q.backlog[ports.PriorityLow]:
			if ok {
				return j, true
			}
		}
	}
}

// run executes one dequeued job, unless its deadline has already passed:
// the submitter answered the client long ago, so the work is discarded and
// counted instead of executed.
func (q *priorityQueue) run(j job) {
	if !j.deadline.IsZero() && q.clock.Now().After(j.deadline) {
		if q.sink != nil {
			q.sink.QueueTimeout()
		}
		q.log.Warn().Msg("discarding queued request dequeued after its deadline")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			q.log.Error().Interface("panic", r).Msg("request queue job panicked")
		}
	}()
	j.fn(j.ctx)
}
