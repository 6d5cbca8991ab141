package syncer

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/freshness"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/ctxmeta"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Проверка, что Service удовлетворяет интерфейсу сервиса синхронизации.
var _ ports.SyncService = (*Service)(nil)

// ErrServiceClosed — запуск после остановки сервиса.
var ErrServiceClosed = errors.New("sync service closed")

// conflictDetector — отчёт о свежести справочников.
type conflictDetector interface {
	DetectStaleData(ctx context.Context) domain.ConflictReport
}

// reviewer — ревью заказов на устаревших данных.
type reviewer interface {
	Run(ctx context.Context, flagged []*domain.PendingOrder, stale []domain.Category) (domain.ReviewOutcome, error)
}

// Service — цикл синхронизации: проверка свежести → ревью отмеченных заказов → отправка оставшихся pending.
// Флаг "идёт синхронизация" берётся у Engine, так что ручной и автоматический запуски не пересекаются.
type Service struct {
	engine   *Engine
	queue    orderQueue
	detector conflictDetector
	review   reviewer
	log      ports.Logger
	now      func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool

	mu     sync.Mutex
	status domain.SyncStatus
	last   *domain.SyncReport
}

// NewService — конструктор; фоновые запуски живут до Close.
func NewService(engine *Engine, queue orderQueue, detector conflictDetector, review reviewer, log ports.Logger) *Service {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &Service{
		engine:   engine,
		queue:    queue,
		detector: detector,
		review:   review,
		log:      log,
		now:      time.Now,
		baseCtx:  baseCtx,
		cancel:   cancel,
		status:   domain.SyncStatus{Phase: domain.PhaseIdle},
	}
}

// Synchronize — полный цикл с ожиданием результата.
func (s *Service) Synchronize(ctx context.Context, trigger domain.SyncTrigger) (domain.SyncReport, error) {
	if !s.engine.tryAcquire() {
		return domain.SyncReport{}, domain.ErrSyncInProgress
	}
	defer s.engine.release()
	return s.run(ctx, trigger)
}

// Launch — флаг берётся синхронно, цикл выполняется в фоне.
// Метаданные запроса (request_id) переносятся в фоновый контекст, отмена — нет.
func (s *Service) Launch(ctx context.Context, trigger domain.SyncTrigger) error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return ErrServiceClosed
	}
	if !s.engine.tryAcquire() {
		return domain.ErrSyncInProgress
	}

	runCtx := ctxmeta.Detach(s.baseCtx, ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.engine.release()
		_, _ = s.run(runCtx, trigger)
	}()
	return nil
}

// Status — снимок для UI.
func (s *Service) Status() domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.InProgress = s.engine.Running()
	if s.last != nil {
		rep := *s.last
		st.LastReport = &rep
	}
	return st
}

// Conflicts — текущий отчёт о свежести (без запуска синхронизации).
func (s *Service) Conflicts(ctx context.Context) domain.ConflictReport {
	return s.detector.DetectStaleData(ctx)
}

// Close — отменяет фоновые запуски и ждёт их завершения.
func (s *Service) Close() {
	s.closeMu.Lock()
	s.closed = true
	s.closeMu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, trigger domain.SyncTrigger) (domain.SyncReport, error) {
	ctx = ctxmeta.WithSyncTrigger(ctx, string(trigger))
	ctx, span := s.engine.tracer.Start(ctx, "sync.run", trace.WithAttributes(
		attribute.String("sync.trigger", string(trigger)),
	))
	defer span.End()

	report := domain.SyncReport{Trigger: trigger, StartedAt: s.now().UTC()}
	s.setPhase(domain.PhaseChecking, 0, 0)

	report.Conflicts = s.detector.DetectStaleData(ctx)
	if report.Conflicts.HasConflicts {
		pending, err := s.queue.ListByStatus(ctx, domain.StatusPending)
		if err != nil {
			return s.finish(ctx, span, report, err)
		}
		// Заказы сверх лимита попыток в автоматический проход не входят и оператору не предъявляются.
		pending = slices.DeleteFunc(pending, func(o *domain.PendingOrder) bool {
			return s.engine.overRetryCap(trigger, o)
		})
		if flagged := freshness.FlagStale(pending, report.Conflicts); len(flagged) > 0 {
			s.log.Warnf(ctx, "orders built on stale reference data flagged=%d", len(flagged))
			s.setPhase(domain.PhaseReviewing, 0, len(flagged))
			outcome, err := s.review.Run(ctx, flagged, report.Conflicts.StaleCategories)
			report.Review = outcome
			if err != nil {
				return s.finish(ctx, span, report, err)
			}
		}
	}

	s.setPhase(domain.PhaseDraining, 0, 0)
	res, err := s.engine.drain(ctx, trigger, func(completed, total int) {
		s.setPhase(domain.PhaseDraining, completed, total)
		if s.engine.progress != nil {
			s.engine.progress(completed, total)
		}
	})
	report.Drain = res
	return s.finish(ctx, span, report, err)
}

func (s *Service) finish(ctx context.Context, span trace.Span, report domain.SyncReport, err error) (domain.SyncReport, error) {
	report.FinishedAt = s.now().UTC()

	result := "ok"
	switch {
	case errors.Is(err, domain.ErrReviewAborted):
		result = "aborted"
	case err != nil:
		result = "failed"
	case report.Drain.Failed > 0:
		result = "partial"
	}
	if err != nil {
		report.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		s.log.Errorf(ctx, "sync %s trigger=%s err=%v", result, report.Trigger, err)
	} else {
		s.log.Infof(ctx, "sync %s trigger=%s success=%d failed=%d confirmed=%d canceled=%d",
			result, report.Trigger, report.Drain.Success, report.Drain.Failed,
			len(report.Review.Confirmed), len(report.Review.Canceled))
	}
	metrics.SyncRuns.WithLabelValues(string(report.Trigger), result).Inc()

	s.mu.Lock()
	s.status = domain.SyncStatus{Phase: domain.PhaseIdle}
	s.last = &report
	s.mu.Unlock()

	return report, err
}

func (s *Service) setPhase(phase domain.SyncPhase, completed, total int) {
	s.mu.Lock()
	s.status.Phase = phase
	s.status.Completed = completed
	s.status.Total = total
	s.mu.Unlock()
}
