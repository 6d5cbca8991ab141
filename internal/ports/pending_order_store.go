package ports

import (
	"context"

	"github.com/Gunvolt24/ordersync/internal/domain"
)

// PendingOrderStore — долговременное хранилище очереди (логическая таблица pendingOrders).
// Требования к реализации: запись целиком (без частичных обновлений); ListByStatus в порядке вставки;
// ErrOrderNotFound для отсутствующего id; прочие отказы оборачиваются в domain.ErrStorage.
type PendingOrderStore interface {
	// Insert — добавить новую запись в конец очереди.
	Insert(ctx context.Context, order *domain.PendingOrder) error
	// Get — запись по id.
	Get(ctx context.Context, id string) (*domain.PendingOrder, error)
	// Replace — заменить запись целиком.
	Replace(ctx context.Context, order *domain.PendingOrder) error
	// Delete — удалить запись.
	Delete(ctx context.Context, id string) error
	// ListByStatus — все записи со статусом, старые первыми.
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.PendingOrder, error)
	// CountByStatus — счётчики по статусам.
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
}
