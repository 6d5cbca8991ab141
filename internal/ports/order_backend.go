package ports

import (
	"context"

	"github.com/Gunvolt24/ordersync/internal/domain"
)

// OrderBackend — удалённый эндпоинт создания заказа.
// Любая ошибка (сеть, не-2xx, битый ответ) относится только к одному заказу.
type OrderBackend interface {
	CreateOrder(ctx context.Context, sub *domain.OrderSubmission) (*domain.SubmissionReceipt, error)
}
