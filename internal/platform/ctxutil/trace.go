// Package ctxutil carries request-scoped trace identity from the trace
// middleware to the request logger and response headers.
package ctxutil

import "context"

type traceDataKey struct{}

// TraceData identifies one submission or read request across log lines
// and the X-Trace-Id / X-Request-Id response headers.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

// GetTraceData returns the request's trace identity, or nil outside an
// instrumented request.
func GetTraceData(ctx context.Context) *TraceData {
	val := ctx.Value(traceDataKey{})
	if td, ok := val.(*TraceData); ok {
		return td
	}
	return nil
}
