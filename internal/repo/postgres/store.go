package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Проверка, что Store удовлетворяет интерфейсам хранилища очереди и отметок свежести.
var (
	_ ports.PendingOrderStore  = (*Store)(nil)
	_ ports.CacheMetadataStore = (*Store)(nil)
)

// Store — хранилище очереди на Postgres (pgxpool) для шлюза, обслуживающего несколько устройств.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore — конструктор Store.
func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

// Migrate — применяет встроенные миграции через database/sql поверх того же пула.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return migrations.Up(ctx, db, goose.DialectPostgres)
}

// Ping — проверка доступности базы для readiness.
func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

const orderColumns = `id, customer_id, customer_name, items, status, retry_count, error_message, created_at, updated_at, device_id`

// Insert — новая запись в конец очереди.
func (s *Store) Insert(ctx context.Context, order *domain.PendingOrder) error {
	items, err := json.Marshal(itemsOrEmpty(order.Items))
	if err != nil {
		return fmt.Errorf("%w: encode items: %w", domain.ErrStorage, err)
	}
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO pending_orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.CustomerID, order.CustomerName, items, string(order.Status),
		order.RetryCount, order.ErrorMessage, order.CreatedAt.UTC(), order.UpdatedAt.UTC(), order.DeviceID,
	); err != nil {
		return fmt.Errorf("%w: insert order %s: %w", domain.ErrStorage, order.ID, err)
	}
	return nil
}

// Get — запись по id.
func (s *Store) Get(ctx context.Context, id string) (*domain.PendingOrder, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM pending_orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get order %s: %w", domain.ErrStorage, id, err)
	}
	return order, nil
}

// Replace — запись целиком; seq не меняется.
func (s *Store) Replace(ctx context.Context, order *domain.PendingOrder) error {
	items, err := json.Marshal(itemsOrEmpty(order.Items))
	if err != nil {
		return fmt.Errorf("%w: encode items: %w", domain.ErrStorage, err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE pending_orders SET
			customer_id = $2, customer_name = $3, items = $4, status = $5, retry_count = $6,
			error_message = $7, created_at = $8, updated_at = $9, device_id = $10
		WHERE id = $1`,
		order.ID, order.CustomerID, order.CustomerName, items, string(order.Status), order.RetryCount,
		order.ErrorMessage, order.CreatedAt.UTC(), order.UpdatedAt.UTC(), order.DeviceID,
	)
	if err != nil {
		return fmt.Errorf("%w: replace order %s: %w", domain.ErrStorage, order.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, order.ID)
	}
	return nil
}

// Delete — удалить запись.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM pending_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete order %s: %w", domain.ErrStorage, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	return nil
}

// ListByStatus — записи со статусом в порядке вставки.
func (s *Store) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.PendingOrder, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM pending_orders WHERE status = $1 ORDER BY seq`, string(status))
	if err != nil {
		return nil, fmt.Errorf("%w: list %s orders: %w", domain.ErrStorage, status, err)
	}
	defer rows.Close()

	out := make([]*domain.PendingOrder, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan order: %w", domain.ErrStorage, err)
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list %s orders: %w", domain.ErrStorage, status, err)
	}
	return out, nil
}

// CountByStatus — счётчики очереди.
func (s *Store) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	var counts domain.StatusCounts
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'syncing'),
			COUNT(*) FILTER (WHERE status = 'error')
		FROM pending_orders`).Scan(&counts.Pending, &counts.Syncing, &counts.Error)
	if err != nil {
		return domain.StatusCounts{}, fmt.Errorf("%w: count orders: %w", domain.ErrStorage, err)
	}
	return counts, nil
}

// ListFreshness — сохранённые отметки в порядке domain.Categories.
func (s *Store) ListFreshness(ctx context.Context) ([]domain.CacheFreshnessRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT category, last_synced, record_count FROM cache_metadata`)
	if err != nil {
		return nil, fmt.Errorf("%w: list freshness: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	byCategory := make(map[domain.Category]domain.CacheFreshnessRecord)
	for rows.Next() {
		rec, err := scanFreshness(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan freshness: %w", domain.ErrStorage, err)
		}
		byCategory[rec.Category] = *rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list freshness: %w", domain.ErrStorage, err)
	}

	out := make([]domain.CacheFreshnessRecord, 0, len(byCategory))
	for _, c := range domain.Categories {
		if rec, ok := byCategory[c]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// GetFreshness — отметка категории; (nil, nil), если её нет.
func (s *Store) GetFreshness(ctx context.Context, category domain.Category) (*domain.CacheFreshnessRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT category, last_synced, record_count FROM cache_metadata WHERE category = $1`, string(category))
	rec, err := scanFreshness(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get freshness %s: %w", domain.ErrStorage, category, err)
	}
	return rec, nil
}

// PutFreshness — upsert отметки категории.
func (s *Store) PutFreshness(ctx context.Context, rec domain.CacheFreshnessRecord) error {
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO cache_metadata (category, last_synced, record_count) VALUES ($1, $2, $3)
		ON CONFLICT (category) DO UPDATE SET
			last_synced = EXCLUDED.last_synced,
			record_count = EXCLUDED.record_count`,
		string(rec.Category), rec.LastSynced.UTC(), rec.RecordCount,
	); err != nil {
		return fmt.Errorf("%w: put freshness %s: %w", domain.ErrStorage, rec.Category, err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.PendingOrder, error) {
	var (
		o      domain.PendingOrder
		items  []byte
		status string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &items, &status,
		&o.RetryCount, &o.ErrorMessage, &o.CreatedAt, &o.UpdatedAt, &o.DeviceID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of %s: %w", o.ID, err)
	}
	o.Status = domain.OrderStatus(status)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return &o, nil
}

func scanFreshness(row pgx.Row) (*domain.CacheFreshnessRecord, error) {
	var (
		rec      domain.CacheFreshnessRecord
		category string
	)
	if err := row.Scan(&category, &rec.LastSynced, &rec.RecordCount); err != nil {
		return nil, err
	}
	rec.Category = domain.Category(category)
	rec.LastSynced = rec.LastSynced.UTC()
	return &rec, nil
}

func itemsOrEmpty(items []domain.OrderItem) []domain.OrderItem {
	if items == nil {
		return []domain.OrderItem{}
	}
	return items
}
