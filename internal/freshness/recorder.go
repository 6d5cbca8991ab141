package freshness

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
)

// Recorder — единственный писатель отметок свежести (HTTP и события Kafka).
type Recorder struct {
	store ports.CacheMetadataStore
	log   ports.Logger
	now   func() time.Time
}

// NewRecorder — конструктор Recorder.
func NewRecorder(store ports.CacheMetadataStore, log ports.Logger) *Recorder {
	return &Recorder{store: store, log: log, now: time.Now}
}

// RefreshEvent — событие об обновлении категории справочника.
type RefreshEvent struct {
	Category    string    `json:"category"`
	LastSynced  time.Time `json:"lastSynced"`
	RecordCount int       `json:"recordCount"`
}

// Record — сохранить отметку. Более старая отметка не перезаписывает новую (события могут прийти не по порядку).
// Возвращает true, если запись изменилась.
func (r *Recorder) Record(ctx context.Context, rec domain.CacheFreshnessRecord) (bool, error) {
	if rec.LastSynced.IsZero() {
		return false, fmt.Errorf("%w: lastSynced is required", domain.ErrInvalidFreshnessEvent)
	}
	if rec.RecordCount < 0 {
		return false, fmt.Errorf("%w: recordCount must be non-negative", domain.ErrInvalidFreshnessEvent)
	}
	if rec.LastSynced.After(r.now().Add(time.Minute)) {
		return false, fmt.Errorf("%w: lastSynced is in the future", domain.ErrInvalidFreshnessEvent)
	}
	rec.LastSynced = rec.LastSynced.UTC()

	current, err := r.store.GetFreshness(ctx, rec.Category)
	if err != nil {
		return false, fmt.Errorf("read freshness %s: %w", rec.Category, err)
	}
	if current != nil && !rec.LastSynced.After(current.LastSynced) {
		r.log.Infof(ctx, "freshness event skipped category=%s last_synced=%s current=%s",
			rec.Category, rec.LastSynced.Format(time.RFC3339), current.LastSynced.Format(time.RFC3339))
		return false, nil
	}

	if err := r.store.PutFreshness(ctx, rec); err != nil {
		return false, fmt.Errorf("write freshness %s: %w", rec.Category, err)
	}
	r.log.Infof(ctx, "reference data refreshed category=%s records=%d last_synced=%s",
		rec.Category, rec.RecordCount, rec.LastSynced.Format(time.RFC3339))
	return true, nil
}

// RecordEvent — разбор имени категории (с псевдонимами) и запись.
func (r *Recorder) RecordEvent(ctx context.Context, ev RefreshEvent) (bool, error) {
	category, err := domain.ParseCategory(ev.Category)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrInvalidFreshnessEvent, err)
	}
	return r.Record(ctx, domain.CacheFreshnessRecord{
		Category:    category,
		LastSynced:  ev.LastSynced,
		RecordCount: ev.RecordCount,
	})
}
