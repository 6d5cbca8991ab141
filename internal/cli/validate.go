package cli

import (
	"fmt"

	"github.com/Gunvolt24/ordersync/pkg/validate"
	"github.com/spf13/cobra"
)

// NewValidateCommand — офлайн-проверка черновиков из JSON/JSONL.
// Валидные черновики печатаются каноническим JSON, сводка уходит в stderr.
func NewValidateCommand(_ *RootOptions) *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate order drafts without contacting the agent",
		Long: `Validate order drafts from a .json or .jsonl file (stdin is read as JSONL unless --input-format says otherwise).
Prices and discounts accept Italian notation such as "1.234,56 €" and "12,5 %".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := validate.ParseInputFormat(inputFormat)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "bad flag", Err: err}
			}

			ctx := cmd.Context()
			validator := validate.NewDraftValidator()
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			report := func(le validate.LineError) { fmt.Fprintf(errOut, "%v\n", le) }

			var res validate.Result
			if len(args) == 0 {
				if format == validate.FormatAuto {
					format = validate.FormatJSONL
				}
				res, err = validate.EachDraft(ctx, validator, cmd.InOrStdin(), format, validate.CanonicalWriter(out), report)
			} else {
				res, err = validate.ValidateFile(ctx, validator, args[0], format, out, report)
			}
			if err == nil && res.Invalid > 0 {
				err = fmt.Errorf("%d invalid drafts", res.Invalid)
			}

			if err != nil {
				fmt.Fprintf(errOut, "validation: %v (%s)\n", err, res)
				return &ExitError{Code: ExitFailure, Message: "validation failed", Err: err}
			}
			fmt.Fprintf(errOut, "validation ok (%s)\n", res)
			return nil
		},
	}
	cmd.Flags().StringVar(&inputFormat, "input-format", "auto", "input format: auto|json|jsonl")
	return cmd
}
