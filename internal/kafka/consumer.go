package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/ordersync/internal/freshness"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

// reader — минимальный контракт над kafka.Reader (подменяется моком в тестах).
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// eventRecorder — приёмник отметок свежести (freshness.Recorder).
type eventRecorder interface {
	RecordEvent(ctx context.Context, ev freshness.RefreshEvent) (bool, error)
}

// Consumer — читает события обновления справочников (топик refdata.refreshed) и передаёт их в Recorder.
type Consumer struct {
	reader         reader
	recorder       eventRecorder
	log            ports.Logger
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration
	closeOnce      sync.Once
}

// NewConsumer — потребитель с ручным коммитом оффсетов. Нулевые таймауты заменяются значениями по умолчанию.
func NewConsumer(cfg *ConsumerConfig, recorder eventRecorder, log ports.Logger) *Consumer {
	return &Consumer{
		reader:         kafka.NewReader(cfg.ReaderConfig()),
		recorder:       recorder,
		log:            log,
		processTimeout: orDefault(cfg.ProcessTimeout, 5*time.Second),
		retryInitial:   orDefault(cfg.RetryInitial, time.Second),
		retryMax:       orDefault(cfg.RetryMax, 30*time.Second),
	}
}

// Run — цикл до отмены контекста. Коммит после записи отметки или после отбраковки битого события.
// При ошибке хранилища то же сообщение повторяется с backoff, следующий fetch только после коммита;
// при отмене контекста оффсет остаётся незакоммиченным (повторная доставка, at-least-once).
// Повтор безопасен: Recorder не откатывает отметку назад.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "freshness consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	backoff := c.retryInitial
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait := equalJitter(backoff)
			c.log.Warnf(ctx, "fetch failed, retry in %s: %v", wait, err)
			if !sleepCtx(ctx, wait) {
				return ctx.Err()
			}
			backoff = c.nextBackoff(backoff)
			continue
		}
		backoff = c.retryInitial
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if !c.deliver(ctx, rc.Topic, &msg) {
			return ctx.Err()
		}
		c.commit(ctx, &msg)
	}
}

// Close — закрывает reader; повторные вызовы ничего не делают.
func (c *Consumer) Close() (err error) {
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
