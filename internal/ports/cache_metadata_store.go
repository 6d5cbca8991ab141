package ports

import (
	"context"

	"github.com/Gunvolt24/ordersync/internal/domain"
)

// CacheMetadataStore — отметки свежести справочников (логическая таблица cacheMetadata).
type CacheMetadataStore interface {
	// ListFreshness — все сохранённые отметки; отсутствующая категория не возвращается.
	ListFreshness(ctx context.Context) ([]domain.CacheFreshnessRecord, error)
	// GetFreshness — отметка категории; (nil, nil), если категория ни разу не обновлялась.
	GetFreshness(ctx context.Context, category domain.Category) (*domain.CacheFreshnessRecord, error)
	// PutFreshness — записать отметку целиком.
	PutFreshness(ctx context.Context, rec domain.CacheFreshnessRecord) error
}
