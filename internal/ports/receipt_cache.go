package ports

import (
	"context"

	"github.com/Gunvolt24/ordersync/internal/domain"
)

// ReceiptCache — кэш подтверждений бэкенда по ключу идемпотентности.
// Требования к реализации: потокобезопасность; возврат копий.
type ReceiptCache interface {
	// Get — (receipt, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, idempotencyKey string) (*domain.SubmissionReceipt, bool)
	// Set — запомнить подтверждение.
	Set(ctx context.Context, receipt *domain.SubmissionReceipt) error
}
