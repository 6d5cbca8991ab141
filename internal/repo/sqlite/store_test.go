package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/queue"
	"github.com/Gunvolt24/ordersync/internal/repo/sqlite"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var t0 = time.Date(2026, 5, 4, 9, 30, 15, 123456789, time.UTC)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func order(id string, st domain.OrderStatus) *domain.PendingOrder {
	d := 12.5
	return &domain.PendingOrder{
		ID: id, CustomerID: "C1", CustomerName: "Bar Centrale",
		Items: []domain.OrderItem{
			{ArticleCode: "ESP-01", Quantity: 2, UnitPrice: 9.9, Discount: &d},
			{ArticleCode: "CRN-02", Quantity: 1, UnitPrice: 1.2},
		},
		Status: st, CreatedAt: t0, UpdatedAt: t0, DeviceID: "tablet-7",
	}
}

func TestStore_OrdersLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "orders.db"))

	require.NoError(t, s.Insert(ctx, order("a", domain.StatusPending)))
	require.NoError(t, s.Insert(ctx, order("b", domain.StatusError)))
	require.NoError(t, s.Insert(ctx, order("c", domain.StatusPending)))
	require.ErrorIs(t, s.Insert(ctx, order("a", domain.StatusPending)), domain.ErrStorage)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, order("a", domain.StatusPending), got)
	require.True(t, got.CreatedAt.Equal(t0), "nanoseconds survive the text round trip")

	// замена не двигает запись в очереди
	got.Status = domain.StatusSyncing
	require.NoError(t, s.Replace(ctx, got))
	got.Status = domain.StatusError
	got.ErrorMessage = "HTTP 500"
	require.NoError(t, s.Replace(ctx, got))
	got, _ = s.Get(ctx, "a")
	got.Status = domain.StatusPending
	got.ErrorMessage = ""
	got.RetryCount = 1
	require.NoError(t, s.Replace(ctx, got))

	pending, err := s.ListByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "a", pending[0].ID)
	require.Equal(t, 1, pending[0].RetryCount)
	require.Equal(t, "c", pending[1].ID)

	counts, err := s.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCounts{Pending: 2, Error: 1}, counts)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	require.ErrorIs(t, s.Delete(ctx, "a"), domain.ErrOrderNotFound)
	require.ErrorIs(t, s.Replace(ctx, order("zz", domain.StatusPending)), domain.ErrOrderNotFound)

	empty, err := s.ListByStatus(ctx, domain.StatusSyncing)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestStore_Freshness(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "orders.db"))

	rec, err := s.GetFreshness(ctx, domain.CategoryPrices)
	require.NoError(t, err)
	require.Nil(t, rec)

	require.NoError(t, s.PutFreshness(ctx, domain.CacheFreshnessRecord{Category: domain.CategoryPrices, LastSynced: t0, RecordCount: 10}))
	require.NoError(t, s.PutFreshness(ctx, domain.CacheFreshnessRecord{Category: domain.CategoryCustomers, LastSynced: t0, RecordCount: 3}))
	later := t0.Add(time.Hour)
	require.NoError(t, s.PutFreshness(ctx, domain.CacheFreshnessRecord{Category: domain.CategoryPrices, LastSynced: later, RecordCount: 11}))

	all, err := s.ListFreshness(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, domain.CategoryCustomers, all[0].Category)
	require.Equal(t, domain.CategoryPrices, all[1].Category)

	rec, err = s.GetFreshness(ctx, domain.CategoryPrices)
	require.NoError(t, err)
	require.Equal(t, 11, rec.RecordCount)
	require.True(t, rec.LastSynced.Equal(later))
}

// Заказ, прерванный остановкой агента, после перезапуска уходит в error, а не отправляется повторно.
func TestStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.db")

	first, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	q := queue.NewQueue(first, noopLogger{}, "tablet-7")
	idA, err := q.Enqueue(ctx, domain.OrderDraft{CustomerID: "C1", CustomerName: "Bar", Items: order("", "").Items})
	require.NoError(t, err)
	idB, err := q.Enqueue(ctx, domain.OrderDraft{CustomerID: "C2", CustomerName: "Osteria", Items: order("", "").Items})
	require.NoError(t, err)
	require.NoError(t, q.MarkSyncing(ctx, idA))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	q = queue.NewQueue(second, noopLogger{}, "tablet-7")
	n, err := q.RecoverInterrupted(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	a, err := q.Get(ctx, idA)
	require.NoError(t, err)
	require.Equal(t, domain.StatusError, a.Status)
	require.Equal(t, domain.InterruptedSyncMessage, a.ErrorMessage)

	pending, err := q.ListByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, idB, pending[0].ID)
}

func TestOpen_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	s, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())

	openStore(t, path)
}
