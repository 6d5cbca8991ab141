package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
)

// importItem — строка заказа в файле импорта; цены и скидки допускают итальянскую запись.
type importItem struct {
	ArticleCode string       `json:"articleCode"`
	Quantity    int          `json:"quantity"`
	UnitPrice   FlexDecimal  `json:"unitPrice"`
	Discount    *FlexDecimal `json:"discount,omitempty"`
}

// importDraft — черновик заказа в файле импорта.
type importDraft struct {
	CustomerID   string       `json:"customerId"`
	CustomerName string       `json:"customerName"`
	Items        []importItem `json:"items"`
}

func (d *importDraft) toDomain() *domain.OrderDraft {
	out := &domain.OrderDraft{
		CustomerID:   d.CustomerID,
		CustomerName: d.CustomerName,
		Items:        make([]domain.OrderItem, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		item := domain.OrderItem{
			ArticleCode: it.ArticleCode,
			Quantity:    it.Quantity,
			UnitPrice:   float64(it.UnitPrice),
		}
		if it.Discount != nil {
			v := float64(*it.Discount)
			item.Discount = &v
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// ValidateDraftFromJSON — разбор и валидация одного черновика из JSON.
func ValidateDraftFromJSON(ctx context.Context, validator ports.OrderValidator, raw []byte) (*domain.OrderDraft, error) {
	var doc importDraft
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data")
	}
	draft := doc.toDomain()
	if err := validator.Validate(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}
