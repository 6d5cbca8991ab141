// Пакет connectivity — состояние сети по сигналам платформы и автозапуск синхронизации при восстановлении связи.
package connectivity

import (
	"context"
	"sync"

	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
)

// Проверка, что Monitor удовлетворяет интерфейсу сигнала сети.
var _ ports.ConnectivitySignal = (*Monitor)(nil)

// Monitor — NetworkMonitor. Опроса нет: состояние меняется только через Observe.
// До первого сигнала считается, что сеть есть.
type Monitor struct {
	log ports.Logger

	mu     sync.Mutex
	online bool
	subs   map[int]func(ctx context.Context, online bool)
	nextID int

	// deliverMu — наблюдения доставляются подписчикам строго по очереди.
	deliverMu sync.Mutex
}

// NewMonitor — монитор в оптимистичном состоянии online.
func NewMonitor(log ports.Logger) *Monitor {
	metrics.ConnectivityOnline.Set(1)
	return &Monitor{
		log:    log,
		online: true,
		subs:   make(map[int]func(context.Context, bool)),
	}
}

// IsOnline — последнее известное состояние.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Observe — сигнал платформы. Каждое наблюдение (в том числе повторное) доставляется подписчикам.
func (m *Monitor) Observe(ctx context.Context, online bool) {
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	m.mu.Lock()
	changed := m.online != online
	m.online = online
	fns := make([]func(context.Context, bool), 0, len(m.subs))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	if changed {
		state := "offline"
		gauge := 0.0
		if online {
			state, gauge = "online", 1
		}
		metrics.ConnectivityOnline.Set(gauge)
		metrics.ConnectivityTransitions.WithLabelValues(state).Inc()
		m.log.Infof(ctx, "connectivity changed state=%s", state)
	}

	for _, fn := range fns {
		fn(ctx, online)
	}
}

// Subscribe — подписка на наблюдения в порядке регистрации; возвращает функцию отписки.
func (m *Monitor) Subscribe(fn func(ctx context.Context, online bool)) (unsubscribe func()) {
	_, unsubscribe = m.Watch(fn)
	return unsubscribe
}

// Watch — регистрация и чтение состояния под одним замком с Observe.
func (m *Monitor) Watch(fn func(ctx context.Context, online bool)) (online bool, unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	online = m.online
	m.mu.Unlock()

	var once sync.Once
	return online, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}
