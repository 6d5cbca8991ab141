package connectivity

import (
	"context"
	"errors"
	"sync"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
)

// launcher — запуск синхронизации с общим флагом "идёт синхронизация".
type launcher interface {
	Launch(ctx context.Context, trigger domain.SyncTrigger) error
}

// AutoSyncTrigger — запускает синхронизацию на переходе offline → online.
// Создание в состоянии online и повторные сигналы online ничего не запускают.
type AutoSyncTrigger struct {
	launcher launcher
	log      ports.Logger

	mu          sync.Mutex
	wasOnline   bool
	unsubscribe func()
}

// NewAutoSyncTrigger — подписывается на сигнал и запоминает состояние на момент подписки.
func NewAutoSyncTrigger(signal ports.ConnectivitySignal, l launcher, log ports.Logger) *AutoSyncTrigger {
	t := &AutoSyncTrigger{launcher: l, log: log}

	// Состояние берётся из самой подписки: наблюдение между подпиской и чтением не потеряется.
	// onSignal ждёт замка, пока wasOnline не засеян.
	t.mu.Lock()
	t.wasOnline, t.unsubscribe = signal.Watch(t.onSignal)
	t.mu.Unlock()

	return t
}

// Close — отписка от сигнала; повторный вызов безопасен.
func (t *AutoSyncTrigger) Close() {
	t.mu.Lock()
	unsubscribe := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (t *AutoSyncTrigger) onSignal(ctx context.Context, online bool) {
	t.mu.Lock()
	was := t.wasOnline
	t.wasOnline = online
	t.mu.Unlock()

	if was || !online {
		return
	}

	err := t.launcher.Launch(ctx, domain.TriggerReconnect)
	switch {
	case err == nil:
		t.log.Infof(ctx, "connectivity restored, sync launched")
	case errors.Is(err, domain.ErrSyncInProgress):
		metrics.SyncRuns.WithLabelValues(string(domain.TriggerReconnect), "dropped").Inc()
		t.log.Warnf(ctx, "connectivity restored, sync already in progress: trigger dropped")
	default:
		t.log.Errorf(ctx, "connectivity restored, sync launch failed err=%v", err)
	}
}
