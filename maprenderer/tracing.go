package maprenderer

import (
	"context"

	"github.com/jamesrr39/go-tracing"
)

// startSpan starts a tracing span if the context carries a tracer and a trace.
// The returned function ends the span; it is a no-op when there is no tracer.
func startSpan(ctx context.Context, name string) func() {
	if ctx.Value(tracing.TracerCtxKey) == nil || ctx.Value(tracing.TraceCtxKey) == nil {
		return func() {}
	}

	span := tracing.StartSpan(ctx, name)
	return func() {
		span.End(ctx)
	}
}
