// Пакет memory — хранилище очереди и отметок свежести в памяти процесса.
// Используется в тестах и в эфемерном режиме (ORDERSYNC_STORE_DRIVER=memory).
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
)

// Проверка, что Store удовлетворяет интерфейсам хранилищ.
var (
	_ ports.PendingOrderStore  = (*Store)(nil)
	_ ports.CacheMetadataStore = (*Store)(nil)
)

// Store — потокобезопасное хранилище; наружу отдаются только копии.
type Store struct {
	mu        sync.RWMutex
	orders    map[string]*domain.PendingOrder
	order     []string // порядок вставки
	freshness map[domain.Category]domain.CacheFreshnessRecord
}

// NewStore — пустое хранилище.
func NewStore() *Store {
	return &Store{
		orders:    make(map[string]*domain.PendingOrder),
		freshness: make(map[domain.Category]domain.CacheFreshnessRecord),
	}
}

func (s *Store) Insert(_ context.Context, order *domain.PendingOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return fmt.Errorf("%w: duplicate order id %s", domain.ErrStorage, order.ID)
	}
	s.orders[order.ID] = order.Clone()
	s.order = append(s.order, order.ID)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.PendingOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order.Clone(), nil
}

func (s *Store) Replace(_ context.Context, order *domain.PendingOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) ListByStatus(_ context.Context, status domain.OrderStatus) ([]*domain.PendingOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.PendingOrder, 0)
	for _, id := range s.order {
		if o := s.orders[id]; o.Status == status {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (s *Store) CountByStatus(_ context.Context) (domain.StatusCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c domain.StatusCounts
	for _, o := range s.orders {
		switch o.Status {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusSyncing:
			c.Syncing++
		case domain.StatusError:
			c.Error++
		}
	}
	return c, nil
}

func (s *Store) ListFreshness(_ context.Context) ([]domain.CacheFreshnessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CacheFreshnessRecord, 0, len(s.freshness))
	for _, c := range domain.Categories {
		if rec, ok := s.freshness[c]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Store) GetFreshness(_ context.Context, category domain.Category) (*domain.CacheFreshnessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.freshness[category]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) PutFreshness(_ context.Context, rec domain.CacheFreshnessRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.freshness[rec.Category] = rec
	return nil
}
