package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/ports"
)

// Result — сколько черновиков принято и отбраковано.
type Result struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

func (r Result) String() string { return fmt.Sprintf("%d valid / %d invalid", r.Valid, r.Invalid) }

// LineError — причина отбраковки записи: номер строки JSONL или позиция в JSON-массиве (с 1).
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// EachDraftJSONL — читает JSONL, валидирует каждую строку и вызывает onValid для валидных черновиков,
// onInvalid — для отбракованных. Пустые строки пропускаются; ошибка onValid прерывает чтение.
func EachDraftJSONL(
	ctx context.Context,
	validator ports.OrderValidator,
	ir io.Reader,
	onValid func(*domain.OrderDraft) error,
	onInvalid func(LineError),
) (Result, error) {
	var res Result

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}

		draft, err := ValidateDraftFromJSON(ctx, validator, lineBytes)
		if err != nil {
			res.Invalid++
			if onInvalid != nil {
				onInvalid(LineError{Line: line, Err: err})
			}
			continue
		}
		if err := onValid(draft); err != nil {
			return res, err
		}
		res.Valid++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}

// CanonicalWriter — onValid для EachDraftJSONL: черновик одной строкой JSON.
func CanonicalWriter(ow io.Writer) func(*domain.OrderDraft) error {
	return func(draft *domain.OrderDraft) error {
		marshal, _ := json.Marshal(draft)
		if _, err := ow.Write(marshal); err != nil {
			return fmt.Errorf("write valid line: %w", err)
		}
		if _, err := ow.Write([]byte("\n")); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
		return nil
	}
}
