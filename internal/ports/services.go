package ports

import (
	"context"

	"github.com/Gunvolt24/ordersync/internal/domain"
)

// PendingOrderService — операции очереди, доступные транспорту.
type PendingOrderService interface {
	Enqueue(ctx context.Context, draft domain.OrderDraft) (string, error)
	Get(ctx context.Context, id string) (*domain.PendingOrder, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.PendingOrder, error)
	CountsByStatus(ctx context.Context) (domain.StatusCounts, error)
	MarkPending(ctx context.Context, id string) error
	Discard(ctx context.Context, id string) error
}

// SyncService — запуск и наблюдение синхронизации.
type SyncService interface {
	// Launch — запустить цикл в фоне; domain.ErrSyncInProgress, если цикл уже идёт.
	Launch(ctx context.Context, trigger domain.SyncTrigger) error
	Status() domain.SyncStatus
	Conflicts(ctx context.Context) domain.ConflictReport
}

// OrderValidator — проверка черновика заказа до постановки в очередь (на стороне ввода).
type OrderValidator interface {
	Validate(ctx context.Context, draft *domain.OrderDraft) error
}
