package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
)

// rowScanner — общий контракт *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Время хранится текстом ISO-8601 в UTC.
func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func encodeItems(items []domain.OrderItem) (string, error) {
	if items == nil {
		items = []domain.OrderItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("%w: encode items: %w", domain.ErrStorage, err)
	}
	return string(raw), nil
}

func scanOrder(row rowScanner) (*domain.PendingOrder, error) {
	var (
		o                    domain.PendingOrder
		items, status        string
		createdAt, updatedAt string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &items, &status,
		&o.RetryCount, &o.ErrorMessage, &createdAt, &updatedAt, &o.DeviceID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of %s: %w", o.ID, err)
	}
	o.Status = domain.OrderStatus(status)

	var err error
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanFreshness(row rowScanner) (*domain.CacheFreshnessRecord, error) {
	var (
		rec              domain.CacheFreshnessRecord
		category, synced string
	)
	if err := row.Scan(&category, &synced, &rec.RecordCount); err != nil {
		return nil, err
	}
	rec.Category = domain.Category(category)
	ts, err := parseTime(synced)
	if err != nil {
		return nil, err
	}
	rec.LastSynced = ts
	return &rec, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected %s: %w", domain.ErrStorage, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	return nil
}

func addCount(c *domain.StatusCounts, status domain.OrderStatus, n int) {
	switch status {
	case domain.StatusPending:
		c.Pending = n
	case domain.StatusSyncing:
		c.Syncing = n
	case domain.StatusError:
		c.Error = n
	}
}

func orderedFreshness(byCategory map[domain.Category]domain.CacheFreshnessRecord) []domain.CacheFreshnessRecord {
	out := make([]domain.CacheFreshnessRecord, 0, len(byCategory))
	for _, c := range domain.Categories {
		if rec, ok := byCategory[c]; ok {
			out = append(out, rec)
		}
	}
	return out
}
