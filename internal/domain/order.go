package domain

import (
	"fmt"
	"time"
)

// OrderStatus — состояние заказа в локальной очереди.
// Успешная отправка удаляет запись, отдельного статуса "done" нет.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusSyncing OrderStatus = "syncing"
	StatusError   OrderStatus = "error"
)

// Сообщения, которые очередь записывает в errorMessage без участия транспорта.
const (
	// StaleDataRejectedMessage — оператор отклонил отправку заказа на устаревших справочниках.
	StaleDataRejectedMessage = "Invio annullato dall'operatore: dati di riferimento non aggiornati"
	// InterruptedSyncMessage — отправка прервана остановкой агента, исход на сервере неизвестен.
	InterruptedSyncMessage = "Sincronizzazione interrotta: verificare e riprovare"
)

// ParseOrderStatus — разбор статуса из строки (query, CLI).
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusSyncing, StatusError:
		return st, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// CanTransitionTo — допустимые переходы жизненного цикла:
// pending → syncing | error (отказ оператора), syncing → error, error → pending (ручной повтор).
// Удаление при успехе переходом не считается.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusSyncing || next == StatusError
	case StatusSyncing:
		return next == StatusError
	case StatusError:
		return next == StatusPending
	default:
		return false
	}
}

// OrderItem — строка заказа.
type OrderItem struct {
	ArticleCode string   `json:"articleCode"`
	Quantity    int      `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	Discount    *float64 `json:"discount,omitempty"` // скидка в процентах
}

// OrderDraft — данные нового заказа от слоя ввода.
type OrderDraft struct {
	CustomerID   string      `json:"customerId"`
	CustomerName string      `json:"customerName"`
	Items        []OrderItem `json:"items"`
}

// PendingOrder — заказ, созданный на устройстве и ожидающий доставки на бэкенд.
type PendingOrder struct {
	ID           string      `json:"id"`
	CustomerID   string      `json:"customerId"`
	CustomerName string      `json:"customerName"`
	Items        []OrderItem `json:"items"`
	Status       OrderStatus `json:"status"`
	RetryCount   int         `json:"retryCount"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	DeviceID     string      `json:"deviceId"`
}

// Clone — глубокая копия (items и скидки не разделяются с оригиналом).
func (o *PendingOrder) Clone() *PendingOrder {
	if o == nil {
		return nil
	}
	cloned := *o
	if o.Items != nil {
		cloned.Items = make([]OrderItem, len(o.Items))
		for i, it := range o.Items {
			if it.Discount != nil {
				d := *it.Discount
				it.Discount = &d
			}
			cloned.Items[i] = it
		}
	}
	return &cloned
}

// Submission — полезная нагрузка для удалённого создания заказа.
func (o *PendingOrder) Submission() *OrderSubmission {
	return &OrderSubmission{
		OrderID:        o.ID,
		CustomerID:     o.CustomerID,
		CustomerName:   o.CustomerName,
		Items:          o.Clone().Items,
		IdempotencyKey: IdempotencyKey(o.DeviceID, o.ID),
	}
}

// StatusCounts — счётчики очереди по статусам.
type StatusCounts struct {
	Pending int `json:"pending"`
	Syncing int `json:"syncing"`
	Error   int `json:"error"`
}

// Unsynced — сколько заказов ещё не доставлено.
func (c StatusCounts) Unsynced() int { return c.Pending + c.Syncing + c.Error }

// Summary — сводка для оператора.
func (c StatusCounts) Summary() string {
	n := c.Unsynced()
	switch n {
	case 0:
		return "Tutti gli ordini sono sincronizzati"
	case 1:
		return "1 ordine non sincronizzato"
	default:
		return fmt.Sprintf("%d ordini non sincronizzati", n)
	}
}
