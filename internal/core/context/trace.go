// Package context carries request-scoped tracing data across layers.
package context

import (
	"context"
)

// TraceContext identifies one request as it flows through the HTTP layer,
// the service and the transaction manager. It is populated once by the
// trace middleware from the X-Trace-ID / X-Request-ID headers (generated
// when absent) and read back by the logger for field enrichment.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// WithTrace stores the trace on the context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns the trace stored on the context, or nil outside a
// traced request (background jobs, tests).
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}
