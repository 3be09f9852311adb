package system

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/tcpspsuite/gridsubmit"

// GetTracer returns the tracer of the globally installed provider. It is a
// no-op unless the embedding program installs one.
func GetTracer() oteltrace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerName)
}

// Span creates and starts a new span, and a context containing it.
// component is prefixed to the span name, e.g. "submitter/Submit".
func Span(ctx context.Context, component, spanName string,
	attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return GetTracer().Start(ctx, fmt.Sprintf("%s/%s", component, spanName),
		oteltrace.WithAttributes(attrs...))
}
