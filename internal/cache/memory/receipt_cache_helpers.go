package memory

import (
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
)

// drop — убирает запись из обоих списков; reason уходит в метрику операций.
func (c *ReceiptCache) drop(ent *receiptEntry, reason string) {
	delete(c.entries, ent.key)
	c.byUse.Remove(ent.recent)
	c.byWrite.Remove(ent.written)
	metrics.CacheOps.WithLabelValues(reason).Inc()
	metrics.CacheSize.Set(float64(len(c.entries)))
}

// sweepExpired — снимает истёкшие записи с хвоста byWrite.
// TTL общий для всех записей, поэтому порядок записи совпадает с порядком истечения.
func (c *ReceiptCache) sweepExpired(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for back := c.byWrite.Back(); back != nil; back = c.byWrite.Back() {
		ent := back.Value.(*receiptEntry)
		if !c.expired(ent, now) {
			return
		}
		c.drop(ent, "expired")
	}
}

func (c *ReceiptCache) expired(ent *receiptEntry, now time.Time) bool {
	return c.ttl > 0 && now.After(ent.expiresAt)
}

func (c *ReceiptCache) deadline(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

func cloneReceipt(r *domain.SubmissionReceipt) *domain.SubmissionReceipt {
	if r == nil {
		return nil
	}
	cloned := *r
	return &cloned
}
