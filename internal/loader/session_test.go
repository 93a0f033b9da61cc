package loader

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/glance/internal/engine"
)

// fakeEngine records every executed request and can hold calls open until
// released, so tests control exactly when the worker becomes free.
type fakeEngine struct {
	mu       sync.Mutex
	calls    []engine.Request
	inflight int32
	maxSeen  int32

	started chan struct{} // receives once per Execute entry
	release chan struct{} // each Execute waits for one token when set

	result func(req engine.Request) engine.Result
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		started: make(chan struct{}, 16),
		result: func(req engine.Request) engine.Result {
			return engine.Success{Image: testImage(), Provenance: engine.Network}
		},
	}
}

func (f *fakeEngine) Execute(ctx context.Context, req engine.Request) engine.Result {
	n := atomic.AddInt32(&f.inflight, 1)
	for {
		old := atomic.LoadInt32(&f.maxSeen)
		if n <= old || atomic.CompareAndSwapInt32(&f.maxSeen, old, n) {
			break
		}
	}
	defer atomic.AddInt32(&f.inflight, -1)

	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	f.started <- struct{}{}

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return engine.Failure{Err: ctx.Err()}
		}
	}
	return f.result(req)
}

func (f *fakeEngine) recordedCalls() []engine.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]engine.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 2, 2))
}

func waitResult(t *testing.T, s *Session) engine.Result {
	t.Helper()
	select {
	case res, ok := <-s.Results():
		require.True(t, ok, "results channel closed unexpectedly")
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return nil
	}
}

func TestSession_SuccessDeliveredOnce(t *testing.T) {
	eng := newFakeEngine()
	s := New(eng, engine.NewRequest("/pics/a.png"))
	defer s.Close()

	s.Submit(engine.Size{Width: 100, Height: 100})

	res := waitResult(t, s)
	succ, ok := res.(engine.Success)
	require.True(t, ok, "expected Success, got %T", res)
	assert.NotNil(t, succ.Image)
	assert.Equal(t, engine.Network, succ.Provenance)

	calls := eng.recordedCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, engine.Size{Width: 100, Height: 100}, calls[0].Target)
}

func TestSession_FailureDeliveredOnce(t *testing.T) {
	loadErr := errors.New("not found")
	eng := newFakeEngine()
	eng.result = func(engine.Request) engine.Result {
		return engine.Failure{Err: loadErr}
	}

	s := New(eng, engine.NewRequest("https://example.com/missing.jpg"))
	defer s.Close()

	s.Submit(engine.Size{Width: 50, Height: 50})

	res := waitResult(t, s)
	fail, ok := res.(engine.Failure)
	require.True(t, ok, "expected Failure, got %T", res)
	assert.ErrorIs(t, fail.Err, loadErr)

	// A failure is surfaced exactly once, never retried.
	assert.Len(t, eng.recordedCalls(), 1)
}

func TestSession_AtMostOneInFlight(t *testing.T) {
	eng := newFakeEngine()
	eng.release = make(chan struct{})

	s := New(eng, engine.NewRequest("/pics/a.png"))
	defer s.Close()

	for i := 1; i <= 20; i++ {
		s.Submit(engine.Size{Width: i * 10, Height: i * 10})
	}

	// Let the held call and one follow-up run to completion.
	<-eng.started
	eng.release <- struct{}{}
	waitResult(t, s)

	select {
	case <-eng.started:
		eng.release <- struct{}{}
		waitResult(t, s)
	case <-time.After(time.Second):
		// All later hints were coalesced into the first read.
	}

	assert.LessOrEqual(t, atomic.LoadInt32(&eng.maxSeen), int32(1))
}

func TestSession_LatestHintWins(t *testing.T) {
	eng := newFakeEngine()
	eng.release = make(chan struct{})

	s := New(eng, engine.NewRequest("/pics/a.png"))
	defer s.Close()

	// Occupy the worker.
	s.Submit(engine.Size{Width: 10, Height: 10})
	<-eng.started

	// Three hints arrive while the worker is busy; only the last may
	// trigger a load.
	s.Submit(engine.Size{Width: 20, Height: 20})
	s.Submit(engine.Size{Width: 30, Height: 30})
	s.Submit(engine.Size{Width: 40, Height: 40})

	eng.release <- struct{}{}
	waitResult(t, s)

	<-eng.started
	eng.release <- struct{}{}
	waitResult(t, s)

	calls := eng.recordedCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, engine.Size{Width: 10, Height: 10}, calls[0].Target)
	assert.Equal(t, engine.Size{Width: 40, Height: 40}, calls[1].Target)
}

func TestSession_UnboundedAxisLeavesBaseUnsized(t *testing.T) {
	eng := newFakeEngine()
	s := New(eng, engine.NewRequest("/pics/a.png"))
	defer s.Close()

	s.Submit(engine.Size{Width: engine.Unbounded, Height: 300})
	waitResult(t, s)

	s.Submit(engine.Size{Width: 300, Height: engine.Unbounded})
	waitResult(t, s)

	for _, call := range eng.recordedCalls() {
		assert.False(t, call.HasTarget(), "unbounded hint must not size the request")
	}
}

func TestSession_ZeroHintProducesNothing(t *testing.T) {
	eng := newFakeEngine()
	s := New(eng, engine.NewRequest("/pics/a.png"))
	defer s.Close()

	s.Submit(engine.Size{Width: 0, Height: 0})

	// A follow-up real hint proves the degenerate one was skipped
	// rather than queued.
	s.Submit(engine.Size{Width: 64, Height: 64})
	waitResult(t, s)

	calls := eng.recordedCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, engine.Size{Width: 64, Height: 64}, calls[0].Target)
}

func TestSession_ExplicitRequestSizeIgnoresHints(t *testing.T) {
	eng := newFakeEngine()
	base := engine.NewRequest("/pics/a.png").WithTarget(engine.Size{Width: 128, Height: 128})

	s := New(eng, base)
	defer s.Close()

	s.Submit(engine.Size{Width: 500, Height: 500})
	waitResult(t, s)
	s.Submit(engine.Size{Width: 7, Height: 7})
	waitResult(t, s)

	for _, call := range eng.recordedCalls() {
		assert.Equal(t, engine.Size{Width: 128, Height: 128}, call.Target)
	}
}

func TestSession_CloseCancelsInFlight(t *testing.T) {
	eng := newFakeEngine()
	eng.release = make(chan struct{})

	s := New(eng, engine.NewRequest("/pics/a.png"))

	s.Submit(engine.Size{Width: 100, Height: 100})
	<-eng.started

	s.Close()

	select {
	case res, ok := <-s.Results():
		assert.False(t, ok, "expected closed channel, got result %v", res)
	case <-time.After(2 * time.Second):
		t.Fatal("results channel did not close after Close")
	}
}

func TestSession_SubmitAfterCloseIsNoop(t *testing.T) {
	eng := newFakeEngine()
	s := New(eng, engine.NewRequest("/pics/a.png"))
	s.Close()

	s.Submit(engine.Size{Width: 100, Height: 100})

	select {
	case <-eng.started:
		t.Fatal("submit after close issued a load")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	s := New(newFakeEngine(), engine.NewRequest("/pics/a.png"))
	s.Close()
	s.Close()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Close()
		}()
	}
	wg.Wait()
}

func TestSession_PrestageRunsBeforeDelivery(t *testing.T) {
	eng := newFakeEngine()

	var staged atomic.Int32
	s := New(eng, engine.NewRequest("/pics/a.png"), WithPrestage(func(succ engine.Success) {
		require.NotNil(t, succ.Image)
		staged.Add(1)
	}))
	defer s.Close()

	s.Submit(engine.Size{Width: 100, Height: 100})
	waitResult(t, s)

	assert.Equal(t, int32(1), staged.Load())
}

func TestSession_PrestageSkippedOnFailure(t *testing.T) {
	eng := newFakeEngine()
	eng.result = func(engine.Request) engine.Result {
		return engine.Failure{Err: errors.New("decode error")}
	}

	var staged atomic.Int32
	s := New(eng, engine.NewRequest("/pics/a.png"), WithPrestage(func(engine.Success) {
		staged.Add(1)
	}))
	defer s.Close()

	s.Submit(engine.Size{Width: 100, Height: 100})
	waitResult(t, s)

	assert.Equal(t, int32(0), staged.Load())
}
