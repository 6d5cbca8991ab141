package kafka

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// handleMessage — разбор и запись одного события; true — оффсет можно коммитить.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	ev, err := decodeRefreshEvent(msg)
	if err == nil {
		processCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
		var updated bool
		updated, err = c.recorder.RecordEvent(processCtx, ev)
		cancel()
		if err == nil {
			metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
			if !updated {
				c.log.Infof(ctx, "freshness event older than stored partition=%d offset=%d category=%s",
					msg.Partition, msg.Offset, ev.Category)
			}
			return true
		}
	}

	metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
	if errors.Is(err, domain.ErrInvalidFreshnessEvent) {
		c.log.Warnf(ctx, "invalid freshness event partition=%d offset=%d skipped: %v", msg.Partition, msg.Offset, err)
		return true
	}
	c.log.Warnf(ctx, "freshness event not stored partition=%d offset=%d, retrying: %v",
		msg.Partition, msg.Offset, err)
	return false
}

// deliver — повторяет handleMessage для одного сообщения, пока оно не обработано;
// false — контекст отменён раньше.
func (c *Consumer) deliver(ctx context.Context, topic string, msg *kafka.Message) bool {
	backoff := c.retryInitial
	for !c.handleMessage(ctx, topic, msg) {
		if !sleepCtx(ctx, equalJitter(backoff)) {
			return false
		}
		backoff = c.nextBackoff(backoff)
	}
	return true
}

func (c *Consumer) commit(ctx context.Context, msg *kafka.Message) {
	if err := c.reader.CommitMessages(ctx, *msg); err != nil {
		c.log.Warnf(ctx, "commit failed partition=%d offset=%d: %v", msg.Partition, msg.Offset, err)
	}
}

// nextBackoff — удвоение с потолком retryMax.
func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	return min(current*2, c.retryMax)
}

// equalJitter — половина задержки фиксирована, вторая половина случайна.
func equalJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + rand.N(d-half+1)
}

// sleepCtx — false, если контекст отменён раньше.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
