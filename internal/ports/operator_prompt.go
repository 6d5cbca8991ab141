package ports

import (
	"context"

	"github.com/Gunvolt24/ordersync/internal/domain"
)

// OperatorPrompt — вопрос оператору по одному заказу на устаревших данных.
// Ask блокируется до решения или отмены контекста.
type OperatorPrompt interface {
	Ask(ctx context.Context, req domain.ReviewRequest) (domain.ReviewDecision, error)
}
