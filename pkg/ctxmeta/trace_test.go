package ctxmeta_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/ordersync/pkg/ctxmeta"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceAndSpanIDs_FromContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "sync.run")
	defer span.End()

	traceID, ok := ctxmeta.TraceIDFromContext(ctx)
	if !ok || traceID != span.SpanContext().TraceID().String() {
		t.Fatalf("traceID=%q ok=%v", traceID, ok)
	}
	spanID, ok := ctxmeta.SpanIDFromContext(ctx)
	if !ok || spanID != span.SpanContext().SpanID().String() {
		t.Fatalf("spanID=%q ok=%v", spanID, ok)
	}
	if id, ok := ctxmeta.TraceIDFromContext(context.Background()); ok || id != "" {
		t.Fatalf("background ctx must not have trace id")
	}
	var nilCtx context.Context
	if _, ok := ctxmeta.SpanIDFromContext(nilCtx); ok {
		t.Fatalf("nil ctx must not have span id")
	}
}

func TestDetach_KeepsParentSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	from, span := tp.Tracer("test").Start(context.Background(), "http.request")
	span.End()

	ctx := ctxmeta.Detach(context.Background(), from)
	_, child := tp.Tracer("test").Start(ctx, "sync.run")
	defer child.End()

	if got := child.SpanContext().TraceID(); got != span.SpanContext().TraceID() {
		t.Fatalf("detached work must stay in the request trace: %s vs %s", got, span.SpanContext().TraceID())
	}
	if ro, ok := child.(sdktrace.ReadOnlySpan); ok && ro.Parent().SpanID() != span.SpanContext().SpanID() {
		t.Fatalf("parent span not propagated")
	}

	if sc := trace.SpanContextFromContext(ctxmeta.Detach(context.Background(), context.Background())); sc.IsValid() {
		t.Fatalf("no span in source must give no parent")
	}
}
