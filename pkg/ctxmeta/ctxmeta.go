// Пакет ctxmeta — нейтральный слой для метаданных, которые прокидываются через context.Context
// (request_id, источник запуска синхронизации, trace_id).
// HTTP-слой, движок синхронизации и логгер зависят от него, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемый тип — чтобы избежать коллизий).
	KeyRequestID   ctxKey = "request_id"
	KeySyncTrigger ctxKey = "sync_trigger"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, KeyRequestID)
}

// WithSyncTrigger помечает контекст источником запуска синхронизации (reconnect, manual, ...).
func WithSyncTrigger(ctx context.Context, trigger string) context.Context {
	if ctx == nil || trigger == "" {
		return ctx
	}
	return context.WithValue(ctx, KeySyncTrigger, trigger)
}

// SyncTriggerFromContext достаёт источник запуска синхронизации.
func SyncTriggerFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, KeySyncTrigger)
}

// Detach переносит метаданные из from в base: фоновая работа живёт по base,
// а в логах и трейсах остаются request_id и спан исходного запроса.
func Detach(base, from context.Context) context.Context {
	if base == nil {
		return nil
	}
	if rid, ok := RequestIDFromContext(from); ok {
		base = WithRequestID(base, rid)
	}
	if tr, ok := SyncTriggerFromContext(from); ok {
		base = WithSyncTrigger(base, tr)
	}
	return withParentSpan(base, from)
}

func stringValue(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
