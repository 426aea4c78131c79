package integration

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"easypay/internal/core/ports"
)

// stubProcessor is a deterministic ports.ProcessorClient: each call pops the
// next scripted result, or approves when the script is empty. An optional
// per-call delay widens race windows for concurrency tests.
type stubProcessor struct {
	mu     sync.Mutex
	script []stubResult

	delay time.Duration
	calls int64
	seq   int64
}

type stubResult struct {
	resp *ports.ProcessorResponse
	err  error
}

func newStubProcessor() *stubProcessor { return &stubProcessor{} }

// push scripts the next call's outcome; calls are consumed in FIFO order.
func (s *stubProcessor) push(resp *ports.ProcessorResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, stubResult{resp: resp, err: err})
}

func (s *stubProcessor) pushDecline() {
	s.push(&ports.ProcessorResponse{
		Outcome:      ports.ProcessorOutcomeDeclined,
		ResponseCode: "2",
		ResponseText: "This transaction has been declined.",
	}, nil)
}

func (s *stubProcessor) pushNetworkError() {
	s.push(nil, &ports.NetworkError{Err: fmt.Errorf("connect: connection refused")})
}

func (s *stubProcessor) callCount() int64 { return atomic.LoadInt64(&s.calls) }

func (s *stubProcessor) next() (*ports.ProcessorResponse, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.script) > 0 {
		r := s.script[0]
		s.script = s.script[1:]
		return r.resp, r.err
	}

	s.seq++
	return &ports.ProcessorResponse{
		TransactionID: fmt.Sprintf("anet_%06d", s.seq),
		Outcome:       ports.ProcessorOutcomeCaptured,
		ResponseCode:  "1",
		ResponseText:  "This transaction has been approved.",
	}, nil
}

func (s *stubProcessor) Authenticate(context.Context) error { return nil }

func (s *stubProcessor) ChargeCard(_ context.Context, _ ports.ChargeRequest) (*ports.ProcessorResponse, error) {
	return s.next()
}

func (s *stubProcessor) AuthorizeOnly(_ context.Context, _ ports.ChargeRequest) (*ports.ProcessorResponse, error) {
	return s.next()
}

func (s *stubProcessor) Capture(_ context.Context, _ ports.CaptureRequest) (*ports.ProcessorResponse, error) {
	return s.next()
}

func (s *stubProcessor) Refund(_ context.Context, _ ports.RefundRequest) (*ports.ProcessorResponse, error) {
	return s.next()
}

func (s *stubProcessor) Void(_ context.Context, _ ports.VoidRequest) (*ports.ProcessorResponse, error) {
	return s.next()
}
