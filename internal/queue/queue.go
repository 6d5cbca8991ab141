// Пакет queue — локальная очередь заказов, созданных без сети.
// Очередь хранит записи через ports.PendingOrderStore и отвечает за жизненный цикл статусов.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
	"github.com/google/uuid"
)

// Проверка, что Queue удовлетворяет интерфейсу сервиса очереди.
var _ ports.PendingOrderService = (*Queue)(nil)

// Queue — очередь заказов одного агента.
// Все изменения — замена записи целиком под мьютексом; читатели не видят промежуточных состояний.
type Queue struct {
	store    ports.PendingOrderStore
	log      ports.Logger
	deviceID string

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	subsMu sync.Mutex
	subs   map[int]func(domain.StatusCounts)
	nextID int
}

// Option — настройка очереди.
type Option func(*Queue)

// WithClock — источник времени (тесты).
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithIDGenerator — генератор id заказов (тесты).
func WithIDGenerator(gen func() string) Option {
	return func(q *Queue) { q.newID = gen }
}

// NewQueue — конструктор очереди.
func NewQueue(store ports.PendingOrderStore, log ports.Logger, deviceID string, opts ...Option) *Queue {
	q := &Queue{
		store:    store,
		log:      log,
		deviceID: deviceID,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.NewString() },
		subs:     make(map[int]func(domain.StatusCounts)),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue — поставить новый заказ в конец очереди. Содержимое не проверяется.
func (q *Queue) Enqueue(ctx context.Context, draft domain.OrderDraft) (string, error) {
	now := q.now()
	order := &domain.PendingOrder{
		ID:           q.newID(),
		CustomerID:   draft.CustomerID,
		CustomerName: draft.CustomerName,
		Items:        (&domain.PendingOrder{Items: draft.Items}).Clone().Items,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		DeviceID:     q.deviceID,
	}

	q.mu.Lock()
	err := q.store.Insert(ctx, order)
	q.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("enqueue order: %w", err)
	}

	q.log.Infof(ctx, "order queued id=%s customer=%s items=%d", order.ID, order.CustomerID, len(order.Items))
	q.notify(ctx)
	return order.ID, nil
}

// Get — заказ по id.
func (q *Queue) Get(ctx context.Context, id string) (*domain.PendingOrder, error) {
	order, err := q.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return order, nil
}

// ListByStatus — заказы со статусом в порядке постановки (старые первыми).
func (q *Queue) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.PendingOrder, error) {
	orders, err := q.store.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list %s orders: %w", status, err)
	}
	return orders, nil
}

// CountsByStatus — счётчики по статусам.
func (q *Queue) CountsByStatus(ctx context.Context) (domain.StatusCounts, error) {
	counts, err := q.store.CountByStatus(ctx)
	if err != nil {
		return domain.StatusCounts{}, fmt.Errorf("count orders: %w", err)
	}
	return counts, nil
}

// MarkSyncing — pending → syncing перед отправкой; прошлое сообщение об ошибке сбрасывается.
func (q *Queue) MarkSyncing(ctx context.Context, id string) error {
	return q.transition(ctx, id, domain.StatusSyncing, func(o *domain.PendingOrder) {
		o.ErrorMessage = ""
	})
}

// MarkError — перевод в error с сообщением без увеличения счётчика попыток
// (отказ оператора в ревью).
func (q *Queue) MarkError(ctx context.Context, id, message string) error {
	return q.transition(ctx, id, domain.StatusError, func(o *domain.PendingOrder) {
		o.ErrorMessage = message
	})
}

// MarkFailedAttempt — неудачная отправка: error, сообщение и retryCount+1 одной записью.
func (q *Queue) MarkFailedAttempt(ctx context.Context, id, message string) error {
	return q.transition(ctx, id, domain.StatusError, func(o *domain.PendingOrder) {
		o.ErrorMessage = message
		o.RetryCount++
	})
}

// MarkPending — ручной повтор: error → pending. Сообщение об ошибке остаётся до следующей попытки.
func (q *Queue) MarkPending(ctx context.Context, id string) error {
	return q.transition(ctx, id, domain.StatusPending, nil)
}

// Remove — удаление после успешной отправки.
func (q *Queue) Remove(ctx context.Context, id string) error {
	q.mu.Lock()
	err := q.store.Delete(ctx, id)
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("remove order %s: %w", id, err)
	}
	q.notify(ctx)
	return nil
}

// Discard — оператор удаляет заказ, который сейчас не отправляется.
func (q *Queue) Discard(ctx context.Context, id string) error {
	q.mu.Lock()
	order, err := q.store.Get(ctx, id)
	if err == nil && order.Status == domain.StatusSyncing {
		err = fmt.Errorf("%w: order %s is syncing", domain.ErrInvalidTransition, id)
	}
	if err == nil {
		err = q.store.Delete(ctx, id)
	}
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("discard order %s: %w", id, err)
	}

	q.log.Warnf(ctx, "order discarded by operator id=%s", id)
	q.notify(ctx)
	return nil
}

// RecoverInterrupted — заказы, оставшиеся в syncing после аварийной остановки, переводятся в error.
// Исход на сервере неизвестен, поэтому повтор остаётся за оператором. Возвращает число записей.
func (q *Queue) RecoverInterrupted(ctx context.Context) (int, error) {
	q.mu.Lock()
	stuck, err := q.store.ListByStatus(ctx, domain.StatusSyncing)
	if err != nil {
		q.mu.Unlock()
		return 0, fmt.Errorf("list interrupted orders: %w", err)
	}

	recovered := 0
	for _, order := range stuck {
		order.Status = domain.StatusError
		order.ErrorMessage = domain.InterruptedSyncMessage
		order.UpdatedAt = q.now()
		if err := q.store.Replace(ctx, order); err != nil {
			q.mu.Unlock()
			return recovered, fmt.Errorf("recover order %s: %w", order.ID, err)
		}
		recovered++
	}
	q.mu.Unlock()

	if recovered > 0 {
		metrics.SyncOrders.WithLabelValues("recovered").Add(float64(recovered))
		q.log.Warnf(ctx, "interrupted orders moved to error count=%d", recovered)
		q.notify(ctx)
	}
	return recovered, nil
}

// Subscribe — наблюдатель счётчиков очереди; вызывается после каждого изменения.
func (q *Queue) Subscribe(fn func(domain.StatusCounts)) (unsubscribe func()) {
	q.subsMu.Lock()
	id := q.nextID
	q.nextID++
	q.subs[id] = fn
	q.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.subsMu.Lock()
			delete(q.subs, id)
			q.subsMu.Unlock()
		})
	}
}

// transition — чтение, проверка перехода и замена записи целиком.
func (q *Queue) transition(ctx context.Context, id string, next domain.OrderStatus, mutate func(*domain.PendingOrder)) error {
	q.mu.Lock()
	err := q.transitionLocked(ctx, id, next, mutate)
	q.mu.Unlock()
	if err != nil {
		return err
	}
	q.notify(ctx)
	return nil
}

func (q *Queue) transitionLocked(ctx context.Context, id string, next domain.OrderStatus, mutate func(*domain.PendingOrder)) error {
	order, err := q.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("mark %s %s: %w", next, id, err)
	}
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("mark %s %s: %w: from %s", next, id, domain.ErrInvalidTransition, order.Status)
	}

	order.Status = next
	order.UpdatedAt = q.now()
	if mutate != nil {
		mutate(order)
	}
	if err := q.store.Replace(ctx, order); err != nil {
		return fmt.Errorf("mark %s %s: %w", next, id, err)
	}
	return nil
}

// notify — пересчёт счётчиков для подписчиков и метрики; ошибка чтения только логируется.
func (q *Queue) notify(ctx context.Context) {
	counts, err := q.store.CountByStatus(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			q.log.Warnf(ctx, "queue counts unavailable err=%v", err)
		}
		return
	}

	metrics.QueueOrders.WithLabelValues(string(domain.StatusPending)).Set(float64(counts.Pending))
	metrics.QueueOrders.WithLabelValues(string(domain.StatusSyncing)).Set(float64(counts.Syncing))
	metrics.QueueOrders.WithLabelValues(string(domain.StatusError)).Set(float64(counts.Error))

	q.subsMu.Lock()
	fns := make([]func(domain.StatusCounts), 0, len(q.subs))
	for _, fn := range q.subs {
		fns = append(fns, fn)
	}
	q.subsMu.Unlock()

	for _, fn := range fns {
		fn(counts)
	}
}
