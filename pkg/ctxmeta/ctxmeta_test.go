package ctxmeta_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/ordersync/pkg/ctxmeta"
)

func TestWithRequestID_PutAndGet(t *testing.T) {
	parent := context.Background()

	ctx := ctxmeta.WithRequestID(parent, "req-123")
	got, ok := ctxmeta.RequestIDFromContext(ctx)
	if !ok || got != "req-123" {
		t.Fatalf("want ok=true, id=req-123; got ok=%v id=%q", ok, got)
	}

	// Родитель не должен содержать request_id
	if _, parentOk := ctxmeta.RequestIDFromContext(parent); parentOk {
		t.Fatalf("parent context must not contain request_id")
	}
}

func TestWithRequestID_EmptyID_NoChange(t *testing.T) {
	parent := context.Background()
	ctx := ctxmeta.WithRequestID(parent, "")
	if ctx != parent {
		t.Fatalf("WithRequestID with empty id must return the same ctx")
	}
}

func TestWithRequestID_NilCtx(t *testing.T) {
	var nilCtx context.Context
	if ctx := ctxmeta.WithRequestID(nilCtx, "req-1"); ctx != nil {
		t.Fatalf("WithRequestID(nil, ...) must return nil")
	}
	if id, ok := ctxmeta.RequestIDFromContext(nilCtx); ok || id != "" {
		t.Fatalf("RequestIDFromContext(nil) must be empty/false, got id=%q ok=%v", id, ok)
	}
}

func TestRequestIDFromContext_EmptyStoredValue(t *testing.T) {
	// Пустое значение по верному ключу считаем отсутствующим
	ctx := context.WithValue(context.Background(), ctxmeta.KeyRequestID, "")
	if id, ok := ctxmeta.RequestIDFromContext(ctx); ok || id != "" {
		t.Fatalf("empty stored value must be treated as absent, got id=%q ok=%v", id, ok)
	}
}

func TestSyncTrigger_PutAndGet(t *testing.T) {
	ctx := ctxmeta.WithSyncTrigger(context.Background(), "reconnect")
	got, ok := ctxmeta.SyncTriggerFromContext(ctx)
	if !ok || got != "reconnect" {
		t.Fatalf("want reconnect, got %q ok=%v", got, ok)
	}
	if _, ok := ctxmeta.SyncTriggerFromContext(context.Background()); ok {
		t.Fatalf("empty ctx must not contain trigger")
	}
}

func TestDetach_CopiesMetadataButNotCancellation(t *testing.T) {
	from, cancel := context.WithCancel(context.Background())
	from = ctxmeta.WithRequestID(from, "req-9")
	from = ctxmeta.WithSyncTrigger(from, "manual")
	cancel()

	ctx := ctxmeta.Detach(context.Background(), from)
	if ctx.Err() != nil {
		t.Fatalf("detached ctx must not inherit cancellation")
	}
	if id, _ := ctxmeta.RequestIDFromContext(ctx); id != "req-9" {
		t.Fatalf("request id not copied: %q", id)
	}
	if tr, _ := ctxmeta.SyncTriggerFromContext(ctx); tr != "manual" {
		t.Fatalf("trigger not copied: %q", tr)
	}
}
