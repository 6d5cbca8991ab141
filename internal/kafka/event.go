package kafka

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/freshness"
	"github.com/segmentio/kafka-go"
)

// decodeRefreshEvent — разбор события обновления справочника.
// Тело — JSON {category, lastSynced, recordCount}; если category в теле пуст, берётся ключ сообщения
// (выгрузки ERP публикуют события с ключом-категорией). Любая ошибка разбора — domain.ErrInvalidFreshnessEvent.
func decodeRefreshEvent(msg *kafka.Message) (freshness.RefreshEvent, error) {
	var ev freshness.RefreshEvent

	dec := json.NewDecoder(bytes.NewReader(msg.Value))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		return freshness.RefreshEvent{}, fmt.Errorf("%w: %w", domain.ErrInvalidFreshnessEvent, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return freshness.RefreshEvent{}, fmt.Errorf("%w: trailing data after event", domain.ErrInvalidFreshnessEvent)
	}

	if strings.TrimSpace(ev.Category) == "" {
		ev.Category = string(msg.Key)
	}
	if strings.TrimSpace(ev.Category) == "" {
		return freshness.RefreshEvent{}, fmt.Errorf("%w: category is missing in body and key", domain.ErrInvalidFreshnessEvent)
	}
	return ev, nil
}
