package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDecimal — строка не является числом ни в итальянской, ни в машинной записи.
var ErrInvalidDecimal = errors.New("invalid decimal")

// ParseItalianDecimal — разбор чисел из выгрузок ERP: "1.234,56 €", "12,5 %", "7".
// Точка — разделитель тысяч, запятая — десятичный разделитель.
// Строка без запятой с единственной точкой и не тремя цифрами после неё ("2.5") читается как машинная запись.
func ParseItalianDecimal(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(clean, "€")
	clean = strings.TrimSuffix(clean, "%")
	clean = strings.TrimPrefix(clean, "€")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, "\u00a0", "")
	if clean == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}

	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	case strings.Count(clean, ".") == 1:
		if frac := clean[strings.Index(clean, ".")+1:]; len(frac) == 3 {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	return v, nil
}

// FlexDecimal — число в JSON, которое приходит либо числом, либо строкой в итальянской записи.
type FlexDecimal float64

// UnmarshalJSON — принимает 12.5, "12,5", "1.234,56 €".
func (d *FlexDecimal) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		v, err := ParseItalianDecimal(s)
		if err != nil {
			return err
		}
		*d = FlexDecimal(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDecimal, raw)
	}
	*d = FlexDecimal(v)
	return nil
}
