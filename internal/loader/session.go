// Package loader serializes size-triggered image loads for one request
// identity. A session owns one worker goroutine fed by a single-slot
// latest-wins mailbox, so at most one engine call is in flight at a time
// and layout churn collapses into the newest measurement.
package loader

import (
	"context"
	"sync"

	"github.com/llehouerou/glance/internal/engine"
)

// PrestageFunc is invoked with each successful result just before it is
// delivered, so the renderer can encode the image ahead of the next draw.
type PrestageFunc func(engine.Success)

// Session binds one request identity to a stream of layout size hints and
// produces a stream of load results. Create one per UI node and request;
// tear it down with Close when either goes away.
type Session struct {
	eng      engine.Engine
	base     engine.Request
	prestage PrestageFunc

	mu     sync.Mutex
	slot   *engine.Size // latest unconsumed hint
	closed bool

	wake    chan struct{} // capacity 1, signals a refilled slot
	results chan engine.Result
	ctx     context.Context
	cancel  context.CancelFunc
}

// Option configures a Session.
type Option func(*Session)

// WithPrestage installs a hook run on successful results before delivery.
func WithPrestage(fn PrestageFunc) Option {
	return func(s *Session) { s.prestage = fn }
}

// New starts a session for the given request and spawns its worker.
func New(eng engine.Engine, base engine.Request, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		eng:     eng,
		base:    base,
		wake:    make(chan struct{}, 1),
		results: make(chan engine.Result),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Request returns the session's base request.
func (s *Session) Request() engine.Request {
	return s.base
}

// Submit records a new size hint. It never blocks: the mailbox holds one
// value and a newer hint overwrites an unconsumed older one. After Close
// it is a no-op.
func (s *Session) Submit(hint engine.Size) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	h := hint
	s.slot = &h
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Results returns the stream of load outcomes, one per completed attempt.
// The channel is closed when the session ends.
func (s *Session) Results() <-chan engine.Result {
	return s.results
}

// Close cancels any in-flight load and ends the session. It is safe to
// call from any goroutine and more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
}

// take blocks until a hint is available or the session is cancelled.
func (s *Session) take() (engine.Size, bool) {
	for {
		s.mu.Lock()
		if h := s.slot; h != nil {
			s.slot = nil
			s.mu.Unlock()
			return *h, true
		}
		s.mu.Unlock()

		select {
		case <-s.wake:
		case <-s.ctx.Done():
			return engine.Size{}, false
		}
	}
}

func (s *Session) run() {
	defer close(s.results)

	for {
		hint, ok := s.take()
		if !ok {
			return
		}

		req, ok := engine.Derive(s.base, hint)
		if !ok {
			// Degenerate hint: nothing measured yet, nothing to load.
			continue
		}

		res := s.eng.Execute(s.ctx, req)
		if s.ctx.Err() != nil {
			// Cancelled mid-flight; the caller has moved on.
			return
		}

		if succ, isSuccess := res.(engine.Success); isSuccess && s.prestage != nil {
			s.prestage(succ)
		}

		select {
		case s.results <- res:
		case <-s.ctx.Done():
			return
		}
	}
}
