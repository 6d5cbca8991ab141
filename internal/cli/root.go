package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions — глобальные флаги ordersyncctl.
type RootOptions struct {
	Addr    string
	Format  string // json | text
	Timeout time.Duration
}

// ValidFormats — допустимые форматы вывода.
var ValidFormats = []string{"text", "json"}

// NewRootCommand — корневая команда ordersyncctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ordersyncctl",
		Short: "Operator CLI for the order sync agent",
		Long: `Inspect and drive the offline order queue of a running ordersync agent:
queue status, manual retry and discard, sync runs, stale-data review and
connectivity overrides. The validate command works offline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return &ExitError{
					Code:    ExitCommandError,
					Message: fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats),
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "http://localhost:8080", "agent API address")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "request timeout")

	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewConflictsCommand(opts))
	cmd.AddCommand(NewReviewCommand(opts))
	cmd.AddCommand(NewConnectivityCommand(opts, true))
	cmd.AddCommand(NewConnectivityCommand(opts, false))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

func (o *RootOptions) client() (*Client, error) {
	c, err := NewClient(o.Addr, o.Timeout)
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "agent client", Err: err}
	}
	return c, nil
}

func (o *RootOptions) printer(cmd *cobra.Command) printer {
	return printer{format: o.Format, w: cmd.OutOrStdout()}
}
