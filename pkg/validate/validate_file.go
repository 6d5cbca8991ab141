package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
)

// InputFormat — формат файла с черновиками.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"  // один объект или массив объектов
	FormatJSONL InputFormat = "jsonl" // объект на строку
)

// ParseInputFormat — значение флага --input-format.
func ParseInputFormat(s string) (InputFormat, error) {
	switch f := InputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatJSONL:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported input format %q (want auto, json or jsonl)", s)
	}
}

// ResolveFormat — для auto формат выводится из расширения (.jsonl, .ndjson), иначе JSON.
func ResolveFormat(filePath string, format InputFormat) InputFormat {
	if format != FormatAuto && format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	default:
		return FormatJSON
	}
}

// EachDraft — обход черновиков в заданном формате (auto здесь не разрешается).
func EachDraft(
	ctx context.Context,
	validator ports.OrderValidator,
	r io.Reader,
	format InputFormat,
	onValid func(*domain.OrderDraft) error,
	onInvalid func(LineError),
) (Result, error) {
	switch format {
	case FormatJSON:
		return EachDraftJSON(ctx, validator, r, onValid, onInvalid)
	case FormatJSONL:
		return EachDraftJSONL(ctx, validator, r, onValid, onInvalid)
	default:
		return Result{}, fmt.Errorf("unsupported input format %q", format)
	}
}

// EachDraftJSON — документ с одним черновиком или массивом черновиков (выгрузка за смену).
// Элементы массива проверяются независимо: битый элемент не мешает остальным.
func EachDraftJSON(
	ctx context.Context,
	validator ports.OrderValidator,
	r io.Reader,
	onValid func(*domain.OrderDraft) error,
	onInvalid func(LineError),
) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read: %w", err)
	}

	docs := []json.RawMessage{raw}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return Result{}, fmt.Errorf("invalid json array: %w", err)
		}
	}

	var res Result
	for i, doc := range docs {
		draft, err := ValidateDraftFromJSON(ctx, validator, doc)
		if err != nil {
			res.Invalid++
			if onInvalid != nil {
				onInvalid(LineError{Line: i + 1, Err: err})
			}
			continue
		}
		if err := onValid(draft); err != nil {
			return res, err
		}
		res.Valid++
	}
	return res, nil
}

// ValidateFile — проверка файла; валидные черновики пишутся в ow каноническим JSON по одному на строку.
// Отбракованные записи не считаются ошибкой: они учитываются в Result и передаются в onInvalid.
func ValidateFile(
	ctx context.Context,
	validator ports.OrderValidator,
	filePath string,
	format InputFormat,
	ow io.Writer,
	onInvalid func(LineError),
) (Result, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return EachDraft(ctx, validator, file, ResolveFormat(filePath, format), CanonicalWriter(ow), onInvalid)
}
