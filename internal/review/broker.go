package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
)

// Проверка, что Broker удовлетворяет интерфейсу вопроса оператору.
var _ ports.OperatorPrompt = (*Broker)(nil)

// pendingAsk — вопрос, ожидающий ответа.
type pendingAsk struct {
	req    domain.ReviewRequest
	answer chan domain.ReviewDecision
}

// Broker — связывает ревью с HTTP API: Ask блокируется, пока оператор не ответит через Answer.
// Одновременно открыт не больше одного вопроса.
type Broker struct {
	mu      sync.Mutex
	current *pendingAsk
}

// NewBroker — конструктор Broker.
func NewBroker() *Broker { return &Broker{} }

// Ask — выставить вопрос и ждать ответа или отмены контекста.
func (b *Broker) Ask(ctx context.Context, req domain.ReviewRequest) (domain.ReviewDecision, error) {
	ask := &pendingAsk{req: req, answer: make(chan domain.ReviewDecision, 1)}

	b.mu.Lock()
	if b.current != nil {
		b.mu.Unlock()
		return "", domain.ErrReviewBusy
	}
	b.current = ask
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		if b.current == ask {
			b.current = nil
		}
		b.mu.Unlock()
	}()

	select {
	case d := <-ask.answer:
		return d, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Current — вопрос, ожидающий ответа оператора.
func (b *Broker) Current() (domain.ReviewRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return domain.ReviewRequest{}, false
	}
	return b.current.req, true
}

// Answer — решение по заказу, который сейчас на ревью.
func (b *Broker) Answer(orderID string, decision domain.ReviewDecision) error {
	if !decision.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	b.mu.Lock()
	cur := b.current
	if cur == nil {
		b.mu.Unlock()
		return domain.ErrNoPendingReview
	}
	if cur.req.Order == nil || cur.req.Order.ID != orderID {
		b.mu.Unlock()
		return fmt.Errorf("%w: order %s is not under review", domain.ErrNoPendingReview, orderID)
	}
	b.current = nil
	b.mu.Unlock()

	cur.answer <- decision
	return nil
}

// StaticPrompt — режим без оператора: одно и то же решение для всех заказов.
type StaticPrompt struct {
	Decision domain.ReviewDecision
}

// Проверка, что StaticPrompt удовлетворяет интерфейсу вопроса оператору.
var _ ports.OperatorPrompt = StaticPrompt{}

func (p StaticPrompt) Ask(ctx context.Context, _ domain.ReviewRequest) (domain.ReviewDecision, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Decision, nil
}

// NewPrompt — выбор реализации по режиму: operator | confirm | cancel.
func NewPrompt(mode string) (ports.OperatorPrompt, *Broker, error) {
	switch mode {
	case "", "operator":
		b := NewBroker()
		return b, b, nil
	case string(domain.DecisionConfirm):
		return StaticPrompt{Decision: domain.DecisionConfirm}, nil, nil
	case string(domain.DecisionCancel):
		return StaticPrompt{Decision: domain.DecisionCancel}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown review mode %q", mode)
	}
}
