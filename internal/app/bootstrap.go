package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/ordersync/config"
	"github.com/Gunvolt24/ordersync/internal/backend"
	cachemem "github.com/Gunvolt24/ordersync/internal/cache/memory"
	"github.com/Gunvolt24/ordersync/internal/connectivity"
	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/freshness"
	"github.com/Gunvolt24/ordersync/internal/kafka"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/internal/queue"
	"github.com/Gunvolt24/ordersync/internal/repo/memory"
	"github.com/Gunvolt24/ordersync/internal/repo/postgres"
	"github.com/Gunvolt24/ordersync/internal/repo/sqlite"
	"github.com/Gunvolt24/ordersync/internal/review"
	"github.com/Gunvolt24/ordersync/internal/syncer"
	rest "github.com/Gunvolt24/ordersync/internal/transport/http"
	"github.com/Gunvolt24/ordersync/pkg/logger"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
	"github.com/Gunvolt24/ordersync/pkg/telemetry"
	"github.com/Gunvolt24/ordersync/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// durableStore — хранилище очереди и отметок свежести одним объектом.
type durableStore interface {
	ports.PendingOrderStore
	ports.CacheMetadataStore
}

// App — собранный агент и его внешние интерфейсы (HTTP, consumer, синхронизация).
type App struct {
	Logger        ports.Logger          // логгер
	HTTPServer    *http.Server          // API для UI и оператора
	MetricsServer *http.Server          // отдельный listener Prometheus; nil — только /metrics основного роутера
	KafkaConsumer ports.MessageConsumer // события обновления справочников; nil — выключено
	Sync          *syncer.Service       // цикл синхронизации
	Trigger       *connectivity.AutoSyncTrigger
	Queue         *queue.Queue

	gracefulTimeout time.Duration
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// openStore — хранилище по Store.Driver. closeFn освобождает соединения.
func openStore(ctx context.Context, cfg *config.Config, log ports.Logger) (store durableStore, closeFn func(), err error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store.Driver)) {
	case "", "sqlite":
		s, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Infof(ctx, "store opened driver=sqlite path=%s", cfg.Store.SQLitePath)
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Infof(ctx, "store opened driver=postgres migrations_applied=%d", applied)
		return postgres.NewStore(pool), pool.Close, nil
	case "memory":
		log.Warnf(ctx, "store opened driver=memory: queue is lost on restart")
		return memory.NewStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	fail := func(err error, undo ...func()) (*App, Cleanup, error) {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	metrics.MustRegister()

	kafkaCfg := kafka.ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		Topic:          cfg.Kafka.Topic,
		StartOffset:    cfg.Kafka.StartOffset,
		ProcessTimeout: cfg.Kafka.ProcessTimeout,
		RetryInitial:   cfg.Kafka.RetryInitial,
		RetryMax:       cfg.Kafka.RetryMax,
	}
	if cfg.Kafka.Enabled {
		if err := kafkaCfg.Validate(); err != nil {
			return fail(err)
		}
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}
	stopTrace := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
	}

	store, closeStore, err := openStore(ctx, cfg, logg)
	if err != nil {
		return fail(err, stopTrace)
	}

	// Очередь и восстановление после аварийной остановки.
	orders := queue.NewQueue(store, logg, cfg.Sync.DeviceID)
	if cfg.Sync.RecoverOnStart {
		if _, err := orders.RecoverInterrupted(ctx); err != nil {
			return fail(err, stopTrace, closeStore)
		}
	}
	orders.Subscribe(func(c domain.StatusCounts) {
		logg.Infof(context.Background(), "queue changed pending=%d syncing=%d error=%d summary=%q",
			c.Pending, c.Syncing, c.Error, c.Summary())
	})

	client, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.OrdersPath, cfg.Backend.Timeout, logg,
		backend.WithToken(cfg.Backend.Token))
	if err != nil {
		return fail(err, stopTrace, closeStore)
	}

	prompt, broker, err := review.NewPrompt(cfg.Sync.ReviewMode)
	if err != nil {
		return fail(err, stopTrace, closeStore)
	}

	detector := freshness.NewDetector(store, logg, freshness.WithThreshold(cfg.Sync.StalenessThreshold))
	recorder := freshness.NewRecorder(store, logg)
	flow := review.NewFlow(orders, prompt, logg, review.WithTimeout(cfg.Sync.ReviewTimeout))
	engine := syncer.NewEngine(orders, client, logg,
		syncer.WithMaxAutoRetries(cfg.Sync.MaxAutoRetries),
		syncer.WithReceiptCache(cachemem.NewReceiptCache(cfg.Receipts.Capacity, cfg.Receipts.TTL)),
		syncer.WithProgress(func(completed, total int) {
			logg.Infof(context.Background(), "sync progress completed=%d total=%d", completed, total)
		}),
	)
	syncService := syncer.NewService(engine, orders, detector, flow, logg)

	monitor := connectivity.NewMonitor(logg)
	trigger := connectivity.NewAutoSyncTrigger(monitor, syncService, logg)

	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	deps := rest.Deps{
		Orders:       orders,
		Sync:         syncService,
		Connectivity: monitor,
		Freshness:    recorder,
		Validator:    validate.NewDraftValidator(),
	}
	if broker != nil {
		deps.Review = broker
	}
	router := rest.NewRouter(rest.NewHandler(deps, logg, cfg.HTTP.HandlerTimeout), cfg.HTTP.StaticDir, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Addr != "" && cfg.Metrics.Addr != cfg.HTTP.Addr {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout}
	}

	var consumer ports.MessageConsumer
	if cfg.Kafka.Enabled {
		consumer = kafka.NewConsumer(&kafkaCfg, recorder, logg)
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   metricsSrv,
		KafkaConsumer:   consumer,
		Sync:            syncService,
		Trigger:         trigger,
		Queue:           orders,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		trigger.Close()
		syncService.Close()
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		}
		closeStore()
		stopTrace()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-серверы и консьюмера;
// ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	serve := func(name string, srv *http.Server) {
		a.Logger.Infof(ctx, "%s server starting addr=%s", name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}
	go serve("http", a.HTTPServer)
	if a.MetricsServer != nil {
		go serve("metrics", a.MetricsServer)
	}

	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range []*http.Server{a.HTTPServer, a.MetricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "server shutdown failed addr=%s: %v", srv.Addr, err)
		}
	}
	a.Logger.Infof(ctx, "http servers stopped")

	// Новые запуски прекращаются, текущий цикл дописывает учёт и выходит.
	if a.Trigger != nil {
		a.Trigger.Close()
	}
	if a.Sync != nil {
		a.Sync.Close()
	}
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
