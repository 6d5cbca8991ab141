package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// applicationName — имя клиента в pg_stat_activity.
const applicationName = "ordersync"

// NewPool — пул соединений шлюза. maxConns > 0 переопределяет размер пула.
// Пул проверяется Ping сразу: агент без хранилища не стартует.
func NewPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres pool: %v", domain.ErrStorage, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: postgres ping: %v", domain.ErrStorage, err)
	}
	return pool, nil
}
