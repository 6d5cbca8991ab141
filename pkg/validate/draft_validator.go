package validate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
)

// Проверка, что DraftValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*DraftValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
var ErrInvalidOrder = errors.New("order validation failed")

// DraftValidator — проверка черновика заказа до постановки в очередь.
// Очередь сама ничего не проверяет: валидация выполняется на стороне ввода (HTTP, CLI).
type DraftValidator struct{}

// NewDraftValidator — конструктор DraftValidator.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewDraftValidator() *DraftValidator { return &DraftValidator{} }

// Validate — проверяет клиента и строки заказа.
func (v *DraftValidator) Validate(_ context.Context, draft *domain.OrderDraft) error {
	if err := v.validateCustomer(draft); err != nil {
		return err
	}
	return v.validateItems(draft.Items)
}

func (v *DraftValidator) validateCustomer(draft *domain.OrderDraft) error {
	if draft == nil {
		return fmt.Errorf("%w: черновик не может быть nil", ErrInvalidOrder)
	}
	if strings.TrimSpace(draft.CustomerID) == "" {
		return fmt.Errorf("%w: customerId обязателен", ErrInvalidOrder)
	}
	if strings.TrimSpace(draft.CustomerName) == "" {
		return fmt.Errorf("%w: customerName обязателен", ErrInvalidOrder)
	}
	return nil
}

// Валидация строк заказа
func (v *DraftValidator) validateItems(items []domain.OrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items не должен быть пустым", ErrInvalidOrder)
	}

	for i := range items {
		item := &items[i]
		idx := strconv.Itoa(i)

		if strings.TrimSpace(item.ArticleCode) == "" {
			return fmt.Errorf("%w: items[%s].articleCode обязателен", ErrInvalidOrder, idx)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%s].quantity должен быть положительным", ErrInvalidOrder, idx)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("%w: items[%s].unitPrice должен быть неотрицательным", ErrInvalidOrder, idx)
		}
		if item.Discount != nil && (*item.Discount < 0 || *item.Discount > 100) {
			return fmt.Errorf("%w: items[%s].discount должен быть в диапазоне 0..100", ErrInvalidOrder, idx)
		}
	}
	return nil
}
