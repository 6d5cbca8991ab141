package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/pkg/validate"
	"github.com/spf13/cobra"
)

// NewOrdersCommand — работа с заказами очереди.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, retry, discard and import queued orders",
	}
	cmd.AddCommand(newOrdersListCommand(rootOpts))
	cmd.AddCommand(newOrdersRetryCommand(rootOpts))
	cmd.AddCommand(newOrdersDiscardCommand(rootOpts))
	cmd.AddCommand(newOrdersImportCommand(rootOpts))
	return cmd
}

func newOrdersListCommand(rootOpts *RootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				if _, err := domain.ParseOrderStatus(status); err != nil {
					return &ExitError{Code: ExitCommandError, Message: "status filter", Err: err}
				}
			}
			c, err := rootOpts.client()
			if err != nil {
				return err
			}
			orders, err := c.ListOrders(cmd.Context(), status)
			if err != nil {
				return wrapAPIError("list orders", err)
			}

			return rootOpts.printer(cmd).print(orders, func(w io.Writer) error {
				if len(orders) == 0 {
					fmt.Fprintln(w, "no orders")
					return nil
				}
				rows := make([]string, 0, len(orders))
				for _, o := range orders {
					rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%s\t%s",
						o.ID, o.Status, o.CustomerName, len(o.Items), o.RetryCount,
						o.CreatedAt.Local().Format("2006-01-02 15:04"), o.ErrorMessage))
				}
				return table(w, "ID\tSTATUS\tCUSTOMER\tITEMS\tRETRIES\tCREATED\tERROR", rows)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending|syncing|error)")
	return cmd
}

func newOrdersRetryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <order-id>",
		Short: "Move a failed order back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return orderAction(cmd, rootOpts, args[0], "retried", (*Client).Retry)
		},
	}
}

func newOrdersDiscardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <order-id>",
		Short: "Remove an order from the queue without sending it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return orderAction(cmd, rootOpts, args[0], "discarded", (*Client).Discard)
		},
	}
}

func orderAction(cmd *cobra.Command, rootOpts *RootOptions, id, verb string,
	call func(*Client, context.Context, string) error,
) error {
	c, err := rootOpts.client()
	if err != nil {
		return err
	}
	if err := call(c, cmd.Context(), id); err != nil {
		return wrapAPIError("order "+id, err)
	}
	return rootOpts.printer(cmd).print(map[string]string{"id": id, "result": verb}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "order %s %s\n", id, verb)
		return err
	})
}

// importResult — итог импорта файла черновиков.
type importResult struct {
	Enqueued []string `json:"enqueued"`
	Invalid  []string `json:"invalid,omitempty"`
}

func newOrdersImportCommand(rootOpts *RootOptions) *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate drafts from a JSON/JSONL file and enqueue the valid ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := validate.ParseInputFormat(inputFormat)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "bad flag", Err: err}
			}
			c, err := rootOpts.client()
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "open input", Err: err}
			}
			defer f.Close()

			ctx := cmd.Context()
			validator := validate.NewDraftValidator()
			res := importResult{Enqueued: []string{}}

			enqueue := func(draft *domain.OrderDraft) error {
				id, err := c.Enqueue(ctx, draft)
				if err != nil {
					return wrapAPIError("enqueue", err)
				}
				res.Enqueued = append(res.Enqueued, id)
				return nil
			}

			if _, err := validate.EachDraft(ctx, validator, f, validate.ResolveFormat(path, format), enqueue, func(le validate.LineError) {
				res.Invalid = append(res.Invalid, le.Error())
			}); err != nil {
				var exitErr *ExitError
				if errors.As(err, &exitErr) {
					return err
				}
				return &ExitError{Code: ExitCommandError, Message: "read input", Err: err}
			}

			if err := rootOpts.printer(cmd).print(res, func(w io.Writer) error {
				for _, id := range res.Enqueued {
					fmt.Fprintf(w, "enqueued %s\n", id)
				}
				for _, msg := range res.Invalid {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s\n", msg)
				}
				_, err := fmt.Fprintf(w, "%d enqueued / %d invalid\n", len(res.Enqueued), len(res.Invalid))
				return err
			}); err != nil {
				return err
			}
			if len(res.Invalid) > 0 {
				return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d invalid drafts skipped", len(res.Invalid))}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inputFormat, "input-format", "auto", "input format: auto|json|jsonl")
	return cmd
}
