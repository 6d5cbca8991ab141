// Пакет memory — кэш подтверждений бэкенда в памяти процесса (LRU + TTL).
package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
)

// Проверка, что ReceiptCache удовлетворяет интерфейсу кэша подтверждений.
var _ ports.ReceiptCache = (*ReceiptCache)(nil)

// receiptEntry — запись кэша; стоит сразу в двух списках.
type receiptEntry struct {
	key       string
	receipt   *domain.SubmissionReceipt
	expiresAt time.Time

	recent  *list.Element // позиция в порядке использования (вытеснение)
	written *list.Element // позиция в порядке записи (истечение)
}

// ReceiptCache — подтверждения принятых заказов по ключу идемпотентности.
// Срок жизни отсчитывается от записи и чтением не продлевается: подтверждение нужно
// только до ближайшего прохода очереди.
type ReceiptCache struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*receiptEntry
	byUse   *list.List // голова — последнее чтение или запись
	byWrite *list.List // хвост — самая старая запись, истекает первой
}

// NewReceiptCache — capacity <= 0 трактуется как 1, ttl <= 0 — без истечения.
func NewReceiptCache(capacity int, ttl time.Duration) *ReceiptCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &ReceiptCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]*receiptEntry),
		byUse:    list.New(),
		byWrite:  list.New(),
	}
}

// Get — подтверждение по ключу; (nil, false) при промахе или истечении.
func (c *ReceiptCache) Get(_ context.Context, key string) (*domain.SubmissionReceipt, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	switch {
	case !ok:
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	case c.expired(ent, now):
		c.drop(ent, "expired")
		return nil, false
	}
	c.byUse.MoveToFront(ent.recent)

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneReceipt(ent.receipt), true
}

// Set — запомнить подтверждение; пустой ключ игнорируется.
// Перезапись того же ключа обновляет срок жизни.
func (c *ReceiptCache) Set(_ context.Context, receipt *domain.SubmissionReceipt) error {
	if receipt == nil || receipt.IdempotencyKey == "" {
		return nil
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepExpired(now)

	if ent, ok := c.entries[receipt.IdempotencyKey]; ok {
		ent.receipt = cloneReceipt(receipt)
		ent.expiresAt = c.deadline(now)
		c.byUse.MoveToFront(ent.recent)
		c.byWrite.MoveToFront(ent.written)
		return nil
	}

	ent := &receiptEntry{
		key:       receipt.IdempotencyKey,
		receipt:   cloneReceipt(receipt),
		expiresAt: c.deadline(now),
	}
	ent.recent = c.byUse.PushFront(ent)
	ent.written = c.byWrite.PushFront(ent)
	c.entries[ent.key] = ent

	for len(c.entries) > c.capacity {
		c.drop(c.byUse.Back().Value.(*receiptEntry), "evicted")
	}
	metrics.CacheSize.Set(float64(len(c.entries)))
	return nil
}

// Len — число записей (включая ещё не вычищенные просроченные).
func (c *ReceiptCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
