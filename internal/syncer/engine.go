// Пакет syncer — отправка очереди на бэкенд и оркестрация цикла синхронизации
// (проверка свежести → ревью → отправка).
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
	"github.com/Gunvolt24/ordersync/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Gunvolt24/ordersync/internal/syncer"

// orderQueue — операции очереди, которые нужны движку и оркестратору.
type orderQueue interface {
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.PendingOrder, error)
	MarkSyncing(ctx context.Context, id string) error
	MarkFailedAttempt(ctx context.Context, id, message string) error
	Remove(ctx context.Context, id string) error
}

// ProgressFunc — прогресс отправки: completed заказов обработано из total.
type ProgressFunc func(completed, total int)

// Engine — SyncEngine: последовательная отправка с изоляцией ошибок по заказу.
// Флаг running общий для всех запусков (ручных и автоматических).
type Engine struct {
	queue    orderQueue
	backend  ports.OrderBackend
	receipts ports.ReceiptCache
	log      ports.Logger
	tracer   trace.Tracer

	maxAutoRetries int
	progress       ProgressFunc

	running atomic.Bool
}

// EngineOption — настройка движка.
type EngineOption func(*Engine)

// WithProgress — колбэк прогресса для всех проходов.
func WithProgress(fn ProgressFunc) EngineOption {
	return func(e *Engine) { e.progress = fn }
}

// WithMaxAutoRetries — автоматические запуски пропускают заказы с retryCount >= n; 0 — без лимита.
func WithMaxAutoRetries(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxAutoRetries = n
		}
	}
}

// WithReceiptCache — кэш подтверждений: принятый сервером заказ не отправляется повторно.
func WithReceiptCache(c ports.ReceiptCache) EngineOption {
	return func(e *Engine) { e.receipts = c }
}

// NewEngine — конструктор движка.
func NewEngine(queue orderQueue, backend ports.OrderBackend, log ports.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		queue:   queue,
		backend: backend,
		log:     log,
		tracer:  telemetry.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Running — идёт ли сейчас синхронизация.
func (e *Engine) Running() bool { return e.running.Load() }

func (e *Engine) tryAcquire() bool { return e.running.CompareAndSwap(false, true) }
func (e *Engine) release()         { e.running.Store(false) }

// Drain — отправка всего текущего набора pending, старые первыми.
// Параллельный вызов отклоняется с domain.ErrSyncInProgress.
func (e *Engine) Drain(ctx context.Context, trigger domain.SyncTrigger) (domain.DrainResult, error) {
	if !e.tryAcquire() {
		return domain.DrainResult{}, domain.ErrSyncInProgress
	}
	defer e.release()
	return e.drain(ctx, trigger, e.progress)
}

// DrainOrders — отправка явного подмножества (ручной режим, лимит повторов не действует).
func (e *Engine) DrainOrders(ctx context.Context, orders []*domain.PendingOrder) (domain.DrainResult, error) {
	if !e.tryAcquire() {
		return domain.DrainResult{}, domain.ErrSyncInProgress
	}
	defer e.release()
	return e.drainOrders(ctx, domain.TriggerManual, orders, e.progress)
}

// drain — вызывается при удерживаемом флаге.
func (e *Engine) drain(ctx context.Context, trigger domain.SyncTrigger, progress ProgressFunc) (domain.DrainResult, error) {
	if err := e.reconcile(ctx); err != nil {
		return domain.DrainResult{}, err
	}
	orders, err := e.queue.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return domain.DrainResult{}, fmt.Errorf("load pending orders: %w", err)
	}
	return e.drainOrders(ctx, trigger, orders, progress)
}

// reconcile — заказы в syncing при удерживаемом флаге остались от прохода, где сервер принял заказ,
// а локальное удаление не удалось. При наличии подтверждения такой заказ удаляется без повторной отправки.
func (e *Engine) reconcile(ctx context.Context) error {
	if e.receipts == nil {
		return nil
	}
	stuck, err := e.queue.ListByStatus(ctx, domain.StatusSyncing)
	if err != nil {
		return fmt.Errorf("load syncing orders: %w", err)
	}
	for _, o := range stuck {
		key := domain.IdempotencyKey(o.DeviceID, o.ID)
		rcpt, ok := e.receipts.Get(ctx, key)
		if !ok {
			continue
		}
		if err := e.queue.Remove(ctx, o.ID); err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
			return fmt.Errorf("reconcile order %s: %w", o.ID, err)
		}
		metrics.SyncOrders.WithLabelValues("reconciled").Inc()
		e.log.Infof(ctx, "accepted order removed from queue id=%s job_id=%s", o.ID, rcpt.JobID)
	}
	return nil
}

func (e *Engine) drainOrders(
	ctx context.Context,
	trigger domain.SyncTrigger,
	orders []*domain.PendingOrder,
	progress ProgressFunc,
) (domain.DrainResult, error) {
	var res domain.DrainResult

	orders = e.applyRetryCap(ctx, trigger, orders)
	total := len(orders)
	if total == 0 {
		return res, nil
	}

	ctx, span := e.tracer.Start(ctx, "sync.drain", trace.WithAttributes(
		attribute.String("sync.trigger", string(trigger)),
		attribute.Int("sync.total", total),
	))
	defer span.End()

	start := time.Now()
	defer func() { metrics.SyncDrainDuration.Observe(time.Since(start).Seconds()) }()

	e.log.Infof(ctx, "drain started trigger=%s total=%d", trigger, total)
	for i, order := range orders {
		if ctx.Err() != nil {
			e.log.Warnf(ctx, "drain interrupted by shutdown processed=%d total=%d", i, total)
			break
		}

		outcome, err := e.syncOne(ctx, order)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "storage failure")
			return res, err
		}
		switch outcome {
		case outcomeSynced:
			res.Success++
		case outcomeFailed:
			res.Failed++
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	span.SetAttributes(attribute.Int("sync.success", res.Success), attribute.Int("sync.failed", res.Failed))
	e.log.Infof(ctx, "drain finished trigger=%s success=%d failed=%d", trigger, res.Success, res.Failed)
	return res, nil
}

// applyRetryCap — для автоматических запусков отбрасывает заказы, исчерпавшие лимит попыток.
func (e *Engine) applyRetryCap(ctx context.Context, trigger domain.SyncTrigger, orders []*domain.PendingOrder) []*domain.PendingOrder {
	if e.maxAutoRetries <= 0 || !trigger.Automatic() {
		return orders
	}
	kept := make([]*domain.PendingOrder, 0, len(orders))
	for _, o := range orders {
		if e.overRetryCap(trigger, o) {
			metrics.SyncOrders.WithLabelValues("skipped").Inc()
			e.log.Infof(ctx, "order left for manual sync id=%s retry_count=%d", o.ID, o.RetryCount)
			continue
		}
		kept = append(kept, o)
	}
	return kept
}

// overRetryCap — заказ исчерпал лимит попыток и в автоматический запуск не попадает.
func (e *Engine) overRetryCap(trigger domain.SyncTrigger, o *domain.PendingOrder) bool {
	return e.maxAutoRetries > 0 && trigger.Automatic() && o.RetryCount >= e.maxAutoRetries
}

type orderOutcome int

const (
	outcomeSkipped orderOutcome = iota
	outcomeSynced
	outcomeFailed
)

// syncOne — один заказ. Возвращаемая ошибка — только отказ хранилища (прерывает проход).
// Учёт результата выполняется и после отмены контекста.
func (e *Engine) syncOne(ctx context.Context, order *domain.PendingOrder) (orderOutcome, error) {
	ctx, span := e.tracer.Start(ctx, "sync.order", trace.WithAttributes(attribute.String("order.id", order.ID)))
	defer span.End()

	bookCtx := context.WithoutCancel(ctx)
	sub := order.Submission()

	if e.receipts != nil {
		if rcpt, ok := e.receipts.Get(ctx, sub.IdempotencyKey); ok {
			if err := e.queue.Remove(bookCtx, order.ID); err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
				return outcomeSkipped, fmt.Errorf("remove accepted order %s: %w", order.ID, err)
			}
			metrics.SyncOrders.WithLabelValues("synced").Inc()
			e.log.Infof(ctx, "order already accepted, not resubmitted id=%s job_id=%s", order.ID, rcpt.JobID)
			return outcomeSynced, nil
		}
	}

	if err := e.queue.MarkSyncing(bookCtx, order.ID); err != nil {
		// Заказ удалён или изменён оператором после чтения набора.
		if errors.Is(err, domain.ErrOrderNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			metrics.SyncOrders.WithLabelValues("skipped").Inc()
			e.log.Warnf(ctx, "order skipped id=%s reason=%v", order.ID, err)
			return outcomeSkipped, nil
		}
		return outcomeSkipped, err
	}

	rcpt, err := e.backend.CreateOrder(ctx, sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order rejected")
		if ferr := e.queue.MarkFailedAttempt(bookCtx, order.ID, err.Error()); ferr != nil {
			return outcomeSkipped, ferr
		}
		metrics.SyncOrders.WithLabelValues("failed").Inc()
		e.log.Warnf(ctx, "order sync failed id=%s retry=%d err=%v", order.ID, order.RetryCount+1, err)
		return outcomeFailed, nil
	}

	if e.receipts != nil {
		if cerr := e.receipts.Set(bookCtx, rcpt); cerr != nil {
			e.log.Warnf(ctx, "receipt not cached id=%s err=%v", order.ID, cerr)
		}
	}
	if err := e.queue.Remove(bookCtx, order.ID); err != nil {
		return outcomeSkipped, fmt.Errorf("remove synced order %s: %w", order.ID, err)
	}
	metrics.SyncOrders.WithLabelValues("synced").Inc()
	return outcomeSynced, nil
}
