package kafka

import (
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig — параметры потребителя событий обновления справочников.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first | last

	ProcessTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration
}

// maxEventBytes — события свежести крошечные, большой буфер выборки не нужен.
const maxEventBytes = 1 << 20

// Validate — без брокеров, топика и группы потребитель не запустится (коммит оффсетов требует группу).
func (c *ConsumerConfig) Validate() error {
	var errs []error
	if len(c.Brokers) == 0 {
		errs = append(errs, errors.New("kafka: brokers are required"))
	}
	if strings.TrimSpace(c.Topic) == "" {
		errs = append(errs, errors.New("kafka: topic is required"))
	}
	if strings.TrimSpace(c.GroupID) == "" {
		errs = append(errs, errors.New("kafka: group id is required"))
	}
	if c.RetryMax > 0 && c.RetryInitial > c.RetryMax {
		errs = append(errs, errors.New("kafka: retry initial exceeds retry max"))
	}
	return errors.Join(errs...)
}

// ReaderConfig — конфигурация kafka.Reader с ручным коммитом оффсетов.
// StartOffset "first" (без учёта регистра и пробелов) читает топик с начала: агент, впервые подключённый
// к шлюзу, получает отметки, опубликованные до его запуска. Всё остальное — с конца.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		MaxBytes:       maxEventBytes,
		CommitInterval: 0,
		StartOffset:    kafka.LastOffset,
	}
	if strings.EqualFold(strings.TrimSpace(c.StartOffset), "first") {
		rc.StartOffset = kafka.FirstOffset
	}
	return rc
}
