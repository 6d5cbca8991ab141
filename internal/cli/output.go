package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
)

// Коды завершения CLI.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // агент ответил отказом, найдены невалидные черновики
	ExitCommandError = 2 // неверные аргументы, агент недоступен
)

// ExitError — ошибка с кодом завершения процесса.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// wrapAPIError — отказ агента (4xx/5xx) → ExitFailure, транспортная ошибка → ExitCommandError.
func wrapAPIError(message string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &ExitError{Code: ExitFailure, Message: message, Err: err}
	}
	return &ExitError{Code: ExitCommandError, Message: message, Err: err}
}

// GetExitCode — код завершения для ошибки; не ExitError → ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// printer — вывод в json или text.
type printer struct {
	format string
	w      io.Writer
}

// print — в json-режиме печатает data, в text вызывает text.
func (p printer) print(data any, text func(w io.Writer) error) error {
	if p.format == "json" {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return text(p.w)
}

// table — колонки, выровненные табуляцией.
func table(w io.Writer, header string, rows []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, r)
	}
	return tw.Flush()
}
