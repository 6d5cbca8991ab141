//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"

	pgrepo "github.com/Gunvolt24/ordersync/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

const (
	postgresImage = "postgres:16-alpine"
	redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v23.3.8"
)

var tcLog = log.New(os.Stdout, "[tc] ", log.LstdFlags|log.Lmsgprefix)

// announce — строка лога на старте и остановке контейнера.
func announce(image string) tc.CustomizeRequestOption {
	logStage := func(stage string) tc.ContainerHook {
		return func(_ context.Context, c tc.Container) error {
			id := c.GetContainerID()
			tcLog.Printf("%s %s id=%.12s", image, stage, id)
			return nil
		}
	}
	return tc.WithLifecycleHooks(tc.ContainerLifecycleHooks{
		PostReadies:    []tc.ContainerHook{logStage("ready")},
		PostTerminates: []tc.ContainerHook{logStage("terminated")},
	})
}

// PGContainer — Postgres шлюза: пул открыт тем же NewPool, схема накатана тем же Migrate, что и в агенте.
type PGContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// StartPostgresTC — поднимает Postgres, открывает пул и применяет миграции.
func StartPostgresTC(ctx context.Context) (*PGContainer, func(context.Context) error, error) {
	pg, err := postgres.Run(ctx, postgresImage,
		announce(postgresImage),
		postgres.WithDatabase("ordersync"),
		postgres.WithUsername("agent"),
		postgres.WithPassword("agent"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}
	terminate := func(err error) (*PGContainer, func(context.Context) error, error) {
		_ = tc.TerminateContainer(pg)
		return nil, nil, err
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return terminate(fmt.Errorf("conn string: %w", err))
	}
	pool, err := pgrepo.NewPool(ctx, dsn, 5)
	if err != nil {
		return terminate(fmt.Errorf("new pool: %w", err))
	}
	if _, err := pgrepo.Migrate(ctx, pool); err != nil {
		pool.Close()
		return terminate(fmt.Errorf("migrate: %w", err))
	}

	stop := func(context.Context) error {
		pool.Close()
		return tc.TerminateContainer(pg)
	}
	return &PGContainer{Container: pg, Pool: pool, DSN: dsn}, stop, nil
}

// KafkaEnv — Redpanda как Kafka-совместимый брокер шлюза.
type KafkaEnv struct {
	Container *redpanda.Container
	Brokers   []string
	BaseTopic string
}

// StartKafkaTC — поднимает Redpanda; топики тесты создают сами через EnsureTopic.
func StartKafkaTC(ctx context.Context, baseTopic string) (*KafkaEnv, func(context.Context) error, error) {
	rp, err := redpanda.Run(ctx, redpandaImage,
		announce(redpandaImage),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}

	stop := func(context.Context) error { return tc.TerminateContainer(rp) }
	return &KafkaEnv{Container: rp, Brokers: []string{seed}, BaseTopic: baseTopic}, stop, nil
}
