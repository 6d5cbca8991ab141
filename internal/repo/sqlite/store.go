package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/migrations"
	_ "github.com/mattn/go-sqlite3" // database/sql driver name = "sqlite3"
	"github.com/pressly/goose/v3"
)

// Проверка, что Store удовлетворяет интерфейсам хранилища очереди и отметок свежести.
var (
	_ ports.PendingOrderStore  = (*Store)(nil)
	_ ports.CacheMetadataStore = (*Store)(nil)
)

// Store — локальная база устройства на SQLite. Переживает перезапуск агента.
type Store struct {
	db *sql.DB
}

// Open — открывает (или создаёт) базу по пути, включает WAL и применяет миграции.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	// Один писатель на базу.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := migrations.Up(ctx, db, goose.DialectSQLite3); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

// Close — закрыть базу.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping — проверка доступности базы для readiness.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("sqlite %q: %w", p, err)
		}
	}
	return nil
}

const orderColumns = `id, customer_id, customer_name, items, status, retry_count, error_message, created_at, updated_at, device_id`

// Insert — новая запись в конец очереди (порядок задаёт seq).
func (s *Store) Insert(ctx context.Context, order *domain.PendingOrder) error {
	items, err := encodeItems(order.Items)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pending_orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.CustomerID, order.CustomerName, items, string(order.Status),
		order.RetryCount, order.ErrorMessage, formatTime(order.CreatedAt), formatTime(order.UpdatedAt), order.DeviceID,
	)
	if err != nil {
		return fmt.Errorf("%w: insert order %s: %w", domain.ErrStorage, order.ID, err)
	}
	return nil
}

// Get — запись по id.
func (s *Store) Get(ctx context.Context, id string) (*domain.PendingOrder, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM pending_orders WHERE id = ?`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get order %s: %w", domain.ErrStorage, id, err)
	}
	return order, nil
}

// Replace — запись целиком; позиция в очереди (seq) не меняется.
func (s *Store) Replace(ctx context.Context, order *domain.PendingOrder) error {
	items, err := encodeItems(order.Items)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE pending_orders SET
			customer_id = ?, customer_name = ?, items = ?, status = ?, retry_count = ?,
			error_message = ?, created_at = ?, updated_at = ?, device_id = ?
		WHERE id = ?`,
		order.CustomerID, order.CustomerName, items, string(order.Status), order.RetryCount,
		order.ErrorMessage, formatTime(order.CreatedAt), formatTime(order.UpdatedAt), order.DeviceID,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: replace order %s: %w", domain.ErrStorage, order.ID, err)
	}
	return requireAffected(res, order.ID)
}

// Delete — удалить запись.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete order %s: %w", domain.ErrStorage, id, err)
	}
	return requireAffected(res, id)
}

// ListByStatus — записи со статусом в порядке вставки.
func (s *Store) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.PendingOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM pending_orders WHERE status = ? ORDER BY seq`, string(status))
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
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM pending_orders GROUP BY status`)
	if err != nil {
		return counts, fmt.Errorf("%w: count orders: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return counts, fmt.Errorf("%w: scan counts: %w", domain.ErrStorage, err)
		}
		addCount(&counts, domain.OrderStatus(status), n)
	}
	if err := rows.Err(); err != nil {
		return counts, fmt.Errorf("%w: count orders: %w", domain.ErrStorage, err)
	}
	return counts, nil
}

// ListFreshness — сохранённые отметки в порядке domain.Categories.
func (s *Store) ListFreshness(ctx context.Context) ([]domain.CacheFreshnessRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, last_synced, record_count FROM cache_metadata`)
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
	return orderedFreshness(byCategory), nil
}

// GetFreshness — отметка категории; (nil, nil), если её нет.
func (s *Store) GetFreshness(ctx context.Context, category domain.Category) (*domain.CacheFreshnessRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT category, last_synced, record_count FROM cache_metadata WHERE category = ?`, string(category))
	rec, err := scanFreshness(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get freshness %s: %w", domain.ErrStorage, category, err)
	}
	return rec, nil
}

// PutFreshness — upsert отметки категории.
func (s *Store) PutFreshness(ctx context.Context, rec domain.CacheFreshnessRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_metadata (category, last_synced, record_count) VALUES (?, ?, ?)
		ON CONFLICT (category) DO UPDATE SET
			last_synced = excluded.last_synced,
			record_count = excluded.record_count`,
		string(rec.Category), formatTime(rec.LastSynced), rec.RecordCount,
	)
	if err != nil {
		return fmt.Errorf("%w: put freshness %s: %w", domain.ErrStorage, rec.Category, err)
	}
	return nil
}
