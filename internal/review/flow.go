// Пакет review — ревью оператором заказов, собранных на устаревших справочниках.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
)

// ErrInvalidDecision — неизвестное решение оператора.
var ErrInvalidDecision = errors.New("invalid review decision")

// orderMarker — перевод отклонённого заказа в error.
type orderMarker interface {
	MarkError(ctx context.Context, id, message string) error
}

// Flow — ConflictReviewFlow: заказы предъявляются строго по одному.
type Flow struct {
	queue   orderMarker
	prompt  ports.OperatorPrompt
	log     ports.Logger
	timeout time.Duration
}

// FlowOption — настройка ревью.
type FlowOption func(*Flow)

// WithTimeout — сколько ждать решения по одному заказу; 0 — без ограничения.
func WithTimeout(d time.Duration) FlowOption {
	return func(f *Flow) { f.timeout = d }
}

// NewFlow — конструктор ревью.
func NewFlow(queue orderMarker, prompt ports.OperatorPrompt, log ports.Logger, opts ...FlowOption) *Flow {
	f := &Flow{queue: queue, prompt: prompt, log: log}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run — confirm оставляет заказ в pending (он уйдёт в следующем проходе),
// cancel переводит его в error с фиксированным сообщением.
// Если решение не получено (остановка, таймаут), ревью прерывается с domain.ErrReviewAborted;
// нерассмотренные заказы остаются в pending.
func (f *Flow) Run(ctx context.Context, flagged []*domain.PendingOrder, stale []domain.Category) (domain.ReviewOutcome, error) {
	outcome := domain.ReviewOutcome{Confirmed: []string{}, Canceled: []string{}}
	total := len(flagged)

	for i, order := range flagged {
		decision, err := f.ask(ctx, domain.ReviewRequest{
			Order:           order.Clone(),
			Current:         i + 1,
			Total:           total,
			StaleCategories: stale,
		})
		if err != nil {
			f.log.Warnf(ctx, "review aborted order=%s current=%d total=%d err=%v", order.ID, i+1, total, err)
			return outcome, fmt.Errorf("%w: order %s: %w", domain.ErrReviewAborted, order.ID, err)
		}
		metrics.ReviewDecisions.WithLabelValues(string(decision)).Inc()

		switch decision {
		case domain.DecisionConfirm:
			outcome.Confirmed = append(outcome.Confirmed, order.ID)
			f.log.Infof(ctx, "stale order confirmed id=%s", order.ID)

		case domain.DecisionCancel:
			err := f.queue.MarkError(context.WithoutCancel(ctx), order.ID, domain.StaleDataRejectedMessage)
			switch {
			case err == nil:
				outcome.Canceled = append(outcome.Canceled, order.ID)
				f.log.Infof(ctx, "stale order canceled id=%s", order.ID)
			case errors.Is(err, domain.ErrOrderNotFound) || errors.Is(err, domain.ErrInvalidTransition):
				f.log.Warnf(ctx, "canceled order changed meanwhile id=%s err=%v", order.ID, err)
			default:
				return outcome, err
			}
		}
	}
	return outcome, nil
}

func (f *Flow) ask(ctx context.Context, req domain.ReviewRequest) (domain.ReviewDecision, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	decision, err := f.prompt.Ask(ctx, req)
	if err != nil {
		return "", err
	}
	if !decision.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}
	return decision, nil
}
