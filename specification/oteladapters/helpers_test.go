package oteladapters_test

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

func traceIDFrom(ctx context.Context) trace.TraceID {
	return trace.SpanFromContext(ctx).SpanContext().TraceID()
}
