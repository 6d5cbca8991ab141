package ports

import "context"

// Logger — минимальный контракт логгера для всех слоёв агента.
// Поля из контекста (request_id, sync_trigger, trace) добавляет реализация.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)  // Infof — информационные сообщения.
	Warnf(ctx context.Context, format string, args ...any)  // Warnf — предупреждения.
	Errorf(ctx context.Context, format string, args ...any) // Errorf — ошибки.
}
