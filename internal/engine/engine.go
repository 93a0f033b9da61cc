package engine

import "context"

// Engine executes image load requests asynchronously on behalf of loader
// sessions. Failures are returned as values, never panics; cancellation
// is observed through ctx.
type Engine interface {
	Execute(ctx context.Context, req Request) Result
}

// Func adapts a plain function to the Engine interface.
type Func func(ctx context.Context, req Request) Result

// Execute implements Engine.
func (f Func) Execute(ctx context.Context, req Request) Result {
	return f(ctx, req)
}
