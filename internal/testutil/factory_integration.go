//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakePendingOrder — валидный заказ очереди с уникальным id.
func MakePendingOrder(status domain.OrderStatus, opts ...func(*domain.PendingOrder)) *domain.PendingOrder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	d := 5.0
	o := &domain.PendingOrder{
		ID:           "ord-" + UniqSuffix(),
		CustomerID:   "cust-" + UniqSuffix(),
		CustomerName: "Trattoria da Mario",
		Items: []domain.OrderItem{
			{ArticleCode: "ART-" + UniqSuffix(), Quantity: 3, UnitPrice: 4.75, Discount: &d},
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
		DeviceID:  "tablet-" + UniqSuffix(),
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// WithItems — n строк заказа.
func WithItems(n int) func(*domain.PendingOrder) {
	return func(o *domain.PendingOrder) {
		o.Items = make([]domain.OrderItem, 0, n)
		for i := 0; i < n; i++ {
			o.Items = append(o.Items, domain.OrderItem{
				ArticleCode: "ART-" + UniqSuffix(),
				Quantity:    i + 1,
				UnitPrice:   float64(10 * (i + 1)),
			})
		}
	}
}

// RefreshEventJSON — сообщение Kafka об обновлении категории.
func RefreshEventJSON(category string, lastSynced time.Time, count int) []byte {
	raw, _ := json.Marshal(map[string]any{
		"category":    category,
		"lastSynced":  lastSynced.UTC().Format(time.RFC3339Nano),
		"recordCount": count,
	})
	return raw
}
