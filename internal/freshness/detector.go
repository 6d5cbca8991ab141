// Пакет freshness — свежесть справочных данных: запись отметок обновления и поиск устаревших категорий.
package freshness

import (
	"context"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
)

// Detector — ConflictDetector: сравнивает возраст каждой категории с порогом.
type Detector struct {
	store     ports.CacheMetadataStore
	log       ports.Logger
	threshold time.Duration
	now       func() time.Time
}

// DetectorOption — настройка детектора.
type DetectorOption func(*Detector)

// WithThreshold — порог устаревания (по умолчанию 72h); неположительное значение игнорируется.
func WithThreshold(d time.Duration) DetectorOption {
	return func(det *Detector) {
		if d > 0 {
			det.threshold = d
		}
	}
}

// WithDetectorClock — источник времени (тесты).
func WithDetectorClock(now func() time.Time) DetectorOption {
	return func(det *Detector) { det.now = now }
}

// NewDetector — конструктор детектора.
func NewDetector(store ports.CacheMetadataStore, log ports.Logger, opts ...DetectorOption) *Detector {
	d := &Detector{
		store:     store,
		log:       log,
		threshold: domain.StalenessThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Threshold — действующий порог.
func (d *Detector) Threshold() time.Duration { return d.threshold }

// DetectStaleData — отчёт по всем категориям. Категория устарела, если её возраст строго больше порога;
// ни разу не обновлявшаяся категория устарела всегда.
// Ошибка чтения хранилища не возвращается: проверка рекомендательная, отчёт — "конфликтов нет".
func (d *Detector) DetectStaleData(ctx context.Context) domain.ConflictReport {
	report := domain.ConflictReport{
		StaleCategories: []domain.Category{},
		CacheAge:        make(map[domain.Category]*time.Time, len(domain.Categories)),
	}

	records, err := d.store.ListFreshness(ctx)
	if err != nil {
		d.log.Errorf(ctx, "freshness read failed, assuming no conflicts err=%v", err)
		for _, c := range domain.Categories {
			report.CacheAge[c] = nil
		}
		metrics.StaleCategories.Set(0)
		return report
	}

	byCategory := make(map[domain.Category]time.Time, len(records))
	for _, rec := range records {
		byCategory[rec.Category] = rec.LastSynced
	}

	now := d.now()
	for _, c := range domain.Categories {
		last, ok := byCategory[c]
		if !ok {
			report.CacheAge[c] = nil
			report.StaleCategories = append(report.StaleCategories, c)
			continue
		}
		ts := last
		report.CacheAge[c] = &ts
		if now.Sub(last) > d.threshold {
			report.StaleCategories = append(report.StaleCategories, c)
		}
	}
	report.HasConflicts = len(report.StaleCategories) > 0

	metrics.StaleCategories.Set(float64(len(report.StaleCategories)))
	if report.HasConflicts {
		d.log.Warnf(ctx, "reference data stale categories=%v threshold=%s", report.StaleCategories, d.threshold)
	}
	return report
}

// IsOrderStale — заказ создан после последнего обновления справочников при наличии конфликтов,
// значит мог быть собран на устаревших ценах/клиентах. Если ни одна категория не обновлялась, заказ устарел.
func IsOrderStale(order *domain.PendingOrder, report domain.ConflictReport) bool {
	if order == nil || !report.HasConflicts {
		return false
	}
	latest, ok := report.LatestSync()
	if !ok {
		return true
	}
	return order.CreatedAt.After(latest)
}

// FlagStale — подмножество заказов, которые требуют ревью оператора (порядок сохраняется).
func FlagStale(orders []*domain.PendingOrder, report domain.ConflictReport) []*domain.PendingOrder {
	if !report.HasConflicts {
		return nil
	}
	flagged := make([]*domain.PendingOrder, 0, len(orders))
	for _, o := range orders {
		if IsOrderStale(o, report) {
			flagged = append(flagged, o)
		}
	}
	return flagged
}
